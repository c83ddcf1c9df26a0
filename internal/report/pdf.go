package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont      = "Helvetica"
	pdfLine      = 6.0
	pdfBarWidth  = 60.0
	pdfBarHeight = 3.5
)

// WritePDF renders r as an A4 PDF.
func WritePDF(w io.Writer, r Report) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render pdf report: %v", rec)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Interview Analysis Report", true)
	pdf.SetCreator("mockprep", true)
	pdf.SetCreationDate(r.Scores.GeneratedAt)
	pdf.AddPage()

	s := r.Scores
	pdf.SetFont(pdfFont, "B", 18)
	pdf.Cell(0, 10, tr("Interview Analysis Report"))
	pdf.Ln(10)
	pdf.SetFont(pdfFont, "", 10)
	pdf.Cell(0, pdfLine, tr("Generated on "+s.GeneratedAt.Local().Format(time.DateTime)))
	pdf.Ln(pdfLine * 2)

	pdf.SetFont(pdfFont, "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Overall score: %d (%s)", s.Overall.Score, s.Overall.Grade)))
	pdf.Ln(8)
	pdf.SetFont(pdfFont, "", 10)
	pdf.MultiCell(0, pdfLine, tr(s.Overall.Summary), "", "L", false)

	pdfSection(pdf, tr, "Verbal")
	pdfScore(pdf, tr, "Clarity", s.Verbal.Clarity)
	pdfScore(pdf, tr, "Speaking pace", s.Verbal.Pace)
	pdfScore(pdf, tr, "Volume level", s.Verbal.Volume)
	pdfScore(pdf, tr, "Grammar", s.Verbal.Grammar)
	pdfScore(pdf, tr, "Filler words", s.Verbal.FillerWords)

	pdfSection(pdf, tr, "Non-verbal")
	pdfScore(pdf, tr, "Eye contact", s.NonVerbal.EyeContact)
	pdfScore(pdf, tr, "Posture", s.NonVerbal.Posture)
	pdfScore(pdf, tr, "Hand gestures", s.NonVerbal.Gestures)
	pdfScore(pdf, tr, "Facial expression", s.NonVerbal.FacialExpression)

	pdfSection(pdf, tr, "Content")
	pdfScore(pdf, tr, "Relevance", s.Content.Relevance)
	pdfScore(pdf, tr, "Structure", s.Content.Structure)
	pdfScore(pdf, tr, "Examples used", s.Content.Examples)
	pdfScore(pdf, tr, "Answer depth", s.Content.Depth)

	pdfSection(pdf, tr, "Strengths")
	for _, strength := range s.Strengths {
		pdf.MultiCell(0, pdfLine, tr("+ "+strength), "", "L", false)
	}

	pdfSection(pdf, tr, "Areas for improvement")
	for _, imp := range s.Improvements {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.MultiCell(0, pdfLine, tr(fmt.Sprintf("%s (%s priority)", imp.Category, imp.Priority)), "", "L", false)
		pdf.SetFont(pdfFont, "", 10)
		pdf.MultiCell(0, pdfLine, tr(imp.Issue+". "+imp.Suggestion+"."), "", "L", false)
	}

	pdfSection(pdf, tr, "Question-by-question analysis")
	for i, q := range s.Questions {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.MultiCell(0, pdfLine, tr(fmt.Sprintf("Q%d [%s, %s] %s", i+1, q.Type, q.Difficulty, q.Question)), "", "L", false)
		pdf.SetFont(pdfFont, "", 10)
		answer := strings.TrimSpace(q.Answer)
		if answer == "" {
			answer = "(no answer)"
		}
		pdf.MultiCell(0, pdfLine, tr("Answer: "+answer), "", "L", false)
		pdf.MultiCell(0, pdfLine, tr(fmt.Sprintf("Words %d, grammar %d, fluency %d, confidence %d, relevance %d",
			q.WordCount, q.Scores.Grammar, q.Scores.Fluency, q.Scores.Confidence, q.Scores.Relevance)), "", "L", false)
		pdf.Ln(2)
	}

	pdfSection(pdf, tr, "Recommendations")
	for i, rec := range s.Recommendations {
		pdf.MultiCell(0, pdfLine, tr(fmt.Sprintf("%d. %s", i+1, rec)), "", "L", false)
	}

	if pdf.Error() != nil {
		return pdf.Error()
	}
	return pdf.Output(w)
}

// SavePDF writes the PDF report to path.
func SavePDF(path string, r Report) error {
	var buf bytes.Buffer
	if err := WritePDF(&buf, r); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write pdf report: %w", err)
	}
	return nil
}

func pdfSection(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont(pdfFont, "B", 12)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(8)
	pdf.SetFont(pdfFont, "", 10)
}

func pdfScore(pdf *fpdf.Fpdf, tr func(string) string, label string, value int) {
	value = min(max(value, 0), 100)
	pdf.Cell(45, pdfLine, tr(label))
	pdf.Cell(12, pdfLine, fmt.Sprintf("%d", value))

	x, y := pdf.GetX(), pdf.GetY()+(pdfLine-pdfBarHeight)/2
	pdf.SetFillColor(225, 225, 225)
	pdf.Rect(x, y, pdfBarWidth, pdfBarHeight, "F")
	pdf.SetFillColor(37, 99, 235)
	pdf.Rect(x, y, pdfBarWidth*float64(value)/100, pdfBarHeight, "F")
	pdf.Ln(pdfLine)
}
