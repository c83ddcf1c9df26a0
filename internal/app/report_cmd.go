package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbright/mockprep/internal/report"
)

func (r Runner) commandReport(ctx context.Context, e env, pdfPath string) int {
	rep, err := report.Build(ctx, e.store, r.scorer())
	if errors.Is(err, report.ErrNoData) {
		if writeErr := report.WriteNoData(r.Stdout); writeErr != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", writeErr)
		}
		e.logger.Info("report without data")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		e.logger.Error("build report failed", "error", err.Error())
		return 1
	}

	if err := report.WriteText(r.Stdout, rep); err != nil {
		fmt.Fprintf(r.Stderr, "error: write report: %v\n", err)
		return 1
	}
	e.logger.Info("report rendered",
		"session_id", rep.Bundle.ID,
		"overall", rep.Scores.Overall.Score,
		"grade", rep.Scores.Overall.Grade,
	)

	if pdfPath != "" {
		if err := report.SavePDF(pdfPath, rep); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			e.logger.Error("save pdf failed", "path", pdfPath, "error", err.Error())
			return 1
		}
		fmt.Fprintf(r.Stdout, "\nSaved PDF report to %s\n", pdfPath)
	}

	outcome, err := report.PromptFeedback(ctx, r.Stdin, r.Stdout, e.store)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: feedback: %v\n", err)
		return 1
	}
	e.logger.Info("feedback prompt", "outcome", string(outcome))
	return 0
}
