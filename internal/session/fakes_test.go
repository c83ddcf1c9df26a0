package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rbright/mockprep/internal/capture"
	"github.com/rbright/mockprep/internal/fsm"
	"github.com/rbright/mockprep/internal/questions"
	"github.com/rbright/mockprep/internal/store"
)

type fakeCapture struct {
	mu       sync.Mutex
	active   bool
	denied   bool
	level    int
	segments []string
	analysis *capture.Analysis

	starts atomic.Int32
	stops  atomic.Int32
}

func (f *fakeCapture) StartCapture(context.Context) {
	f.starts.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied || f.active {
		return
	}
	f.active = true
	f.segments = nil
}

func (f *fakeCapture) StopCapture() *capture.Analysis {
	f.stops.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return nil
	}
	f.active = false
	if f.analysis == nil {
		return nil
	}
	out := *f.analysis
	return &out
}

func (f *fakeCapture) say(segment string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.segments = append(f.segments, segment)
}

func (f *fakeCapture) TranscriptMark() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.segments)
}

func (f *fakeCapture) TranscriptSince(mark int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if mark >= len(f.segments) {
		return ""
	}
	out := ""
	for i, s := range f.segments[mark:] {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

func (f *fakeCapture) Metrics() capture.Metrics {
	return capture.Metrics{PeakVolume: 80, AverageVolume: 40, Samples: 10}
}

func (f *fakeCapture) Status() capture.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case f.active:
		return capture.Status{State: capture.StateActive, Speech: capture.SpeechListening, Level: f.level}
	case f.denied:
		return capture.Status{State: capture.StateDenied, Speech: capture.SpeechReady}
	default:
		return capture.Status{State: capture.StateIdle, Speech: capture.SpeechReady}
	}
}

func (f *fakeCapture) isActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

type fakeIndicator struct {
	questionsShown atomic.Int32
	countdowns     atomic.Int32
	finished       atomic.Int32
	restarted      atomic.Int32
}

func (f *fakeIndicator) ShowQuestion(context.Context, Snapshot)     { f.questionsShown.Add(1) }
func (f *fakeIndicator) ShowCountdown(context.Context, Snapshot)    { f.countdowns.Add(1) }
func (f *fakeIndicator) ShowFinished(context.Context, store.Bundle) { f.finished.Add(1) }
func (f *fakeIndicator) ShowRestarted(context.Context)              { f.restarted.Add(1) }

type commitLog struct {
	mu      sync.Mutex
	bundles []store.Bundle
	err     error
}

func (l *commitLog) Commit(_ context.Context, bundle store.Bundle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bundles = append(l.bundles, bundle)
	return l.err
}

func (l *commitLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bundles)
}

func questionList(n int) []questions.Question {
	list := questions.Default()
	if n <= len(list) {
		return list[:n]
	}
	return list
}

func newTestController(t *testing.T, n int, capture Capture, committer Committer, indicator Indicator) *Controller {
	t.Helper()
	ctrl := NewController(nil, Config{Questions: questionList(n)}, capture, committer, indicator)
	ctrl.newID = func() string { return "session-1" }
	ctrl.now = func() time.Time { return time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC) }
	return ctrl
}

func tickN(t *testing.T, ctrl *Controller, n int) *store.Bundle {
	t.Helper()
	var last *store.Bundle
	for i := 0; i < n; i++ {
		bundle, err := ctrl.Tick(context.Background())
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if bundle != nil {
			last = bundle
		}
	}
	return last
}

func waitForState(t *testing.T, ctrl *Controller, want fsm.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ctrl.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state did not become %s (current=%s)", want, ctrl.State())
}
