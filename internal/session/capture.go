package session

import (
	"context"

	"github.com/rbright/mockprep/internal/capture"
)

// Capture is the session-facing subset of the capture adapter.
type Capture interface {
	StartCapture(context.Context)
	StopCapture() *capture.Analysis
	TranscriptMark() int
	TranscriptSince(mark int) string
	Metrics() capture.Metrics
	Status() capture.Status
}

// noCapture keeps sessions text-only when no adapter is wired.
type noCapture struct{}

func (noCapture) StartCapture(context.Context)   {}
func (noCapture) StopCapture() *capture.Analysis { return nil }
func (noCapture) TranscriptMark() int            { return 0 }
func (noCapture) TranscriptSince(int) string     { return "" }
func (noCapture) Metrics() capture.Metrics       { return capture.Metrics{} }
func (noCapture) Status() capture.Status {
	return capture.Status{State: capture.StateUnsupported, Speech: capture.SpeechUnsupported}
}
