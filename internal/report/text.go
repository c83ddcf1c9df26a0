package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const noDataText = `No Data Available

Please complete an interview first to view feedback.
Run "mockprep start" to begin.
`

// WriteNoData renders the empty-state page. It never includes scores.
func WriteNoData(w io.Writer) error {
	_, err := io.WriteString(w, noDataText)
	return err
}

// WriteText renders r as plain text.
func WriteText(w io.Writer, r Report) error {
	tw := &textWriter{w: w}
	s := r.Scores

	tw.linef("Interview Analysis Report")
	tw.linef("Generated on %s", s.GeneratedAt.Local().Format(time.DateTime))
	tw.linef("")
	tw.linef("Overall: %d (%s)", s.Overall.Score, s.Overall.Grade)
	tw.linef("%s", s.Overall.Summary)
	tw.linef("")

	tw.section("Verbal")
	tw.score("Clarity", s.Verbal.Clarity)
	tw.score("Speaking pace", s.Verbal.Pace)
	tw.score("Volume level", s.Verbal.Volume)
	tw.score("Grammar", s.Verbal.Grammar)
	tw.score("Filler words", s.Verbal.FillerWords)

	tw.section("Non-verbal")
	tw.score("Eye contact", s.NonVerbal.EyeContact)
	tw.score("Posture", s.NonVerbal.Posture)
	tw.score("Hand gestures", s.NonVerbal.Gestures)
	tw.score("Facial expression", s.NonVerbal.FacialExpression)

	tw.section("Content")
	tw.score("Relevance", s.Content.Relevance)
	tw.score("Structure", s.Content.Structure)
	tw.score("Examples used", s.Content.Examples)
	tw.score("Answer depth", s.Content.Depth)

	if a := r.Bundle.VoiceAnalysis; a != nil {
		tw.section("Voice analysis")
		tw.linef("  %-18s %d", "Words per minute", a.WordsPerMinute)
		tw.linef("  %-18s %d", "Filler words", a.FillerWords)
		tw.linef("  %-18s %d", "Pauses", a.PauseCount)
		tw.linef("  %-18s %d", "Volume", a.VolumeLevel)
	}

	tw.section("Strengths")
	for _, strength := range s.Strengths {
		tw.linef("  + %s", strength)
	}

	tw.section("Areas for improvement")
	for _, imp := range s.Improvements {
		tw.linef("  [%s] %s: %s", imp.Priority, imp.Category, imp.Issue)
		tw.linef("      %s", imp.Suggestion)
	}

	tw.section("Question-by-question analysis")
	for i, q := range s.Questions {
		tw.linef("  Q%d [%s, %s] %s", i+1, q.Type, q.Difficulty, q.Question)
		answer := strings.TrimSpace(q.Answer)
		if answer == "" {
			answer = "(no answer)"
		}
		tw.linef("      Answer: %s", strings.ReplaceAll(answer, "\n", "\n              "))
		if q.Transcript != "" {
			tw.linef("      Transcript: %s", q.Transcript)
		}
		tw.linef("      Words: %d  Grammar: %d  Fluency: %d  Confidence: %d  Relevance: %d",
			q.WordCount, q.Scores.Grammar, q.Scores.Fluency, q.Scores.Confidence, q.Scores.Relevance)
		tw.linef("      Strengths: %s", strings.Join(q.Strengths, "; "))
		tw.linef("      Improve: %s", strings.Join(q.Improvements, "; "))
	}

	tw.section("Recommendations")
	for i, rec := range s.Recommendations {
		tw.linef("  %d. %s", i+1, rec)
	}
	return tw.err
}

// textWriter keeps the first write error so rendering stays linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) linef(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *textWriter) section(title string) {
	t.linef("")
	t.linef("%s", title)
}

func (t *textWriter) score(label string, value int) {
	t.linef("  %-18s %3d  %s", label, value, bar(value))
}

// bar draws a 20-cell progress bar for a 0..100 score.
func bar(value int) string {
	value = min(max(value, 0), 100)
	filled := value / 5
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "]"
}
