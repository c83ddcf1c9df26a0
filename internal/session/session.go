// Package session drives a timed interview through an ordered question list.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rbright/mockprep/internal/capture"
	"github.com/rbright/mockprep/internal/fsm"
	"github.com/rbright/mockprep/internal/questions"
	"github.com/rbright/mockprep/internal/store"
)

const (
	// DefaultQuestionSeconds is the per-question time limit.
	DefaultQuestionSeconds = 120
	defaultTickInterval    = time.Second
)

var (
	// ErrNoQuestions is a configuration error: a session needs at least one question.
	ErrNoQuestions = errors.New("no questions configured")
	// ErrEmptyDraft blocks an explicit advance while the draft is blank.
	ErrEmptyDraft = errors.New("answer is empty; type a response or wait for the timer")
	// ErrNotActive rejects session operations outside an active run.
	ErrNotActive = errors.New("session is not active")
	// ErrEnded rejects mutation after the session finalized.
	ErrEnded = errors.New("session has ended")
)

// Indicator is the session-facing presentation contract.
type Indicator interface {
	ShowQuestion(context.Context, Snapshot)
	ShowCountdown(context.Context, Snapshot)
	ShowFinished(context.Context, store.Bundle)
	ShowRestarted(context.Context)
}

// noopIndicator preserves session flow when no indicator is wired.
type noopIndicator struct{}

func (noopIndicator) ShowQuestion(context.Context, Snapshot)     {}
func (noopIndicator) ShowCountdown(context.Context, Snapshot)    {}
func (noopIndicator) ShowFinished(context.Context, store.Bundle) {}
func (noopIndicator) ShowRestarted(context.Context)              {}

// Config holds the session timing and question list.
type Config struct {
	Questions       []questions.Question
	QuestionSeconds int
	TickInterval    time.Duration
}

// Snapshot is a read-only view of controller state. Transcript holds the
// speech heard since the current question began.
type Snapshot struct {
	State      fsm.State
	Position   int
	Total      int
	Question   questions.Question
	Draft      string
	Countdown  int
	Answers    []string
	Capture    capture.Status
	Transcript string
}

// Controller owns one interview session. All mutations are serialized so a
// timeout and an explicit advance can never both commit the same answer.
type Controller struct {
	logger    *slog.Logger
	questions []questions.Question
	duration  int
	interval  time.Duration
	capture   Capture
	commit    Committer
	indicator Indicator
	newID     func() string
	now       func() time.Time

	// ops serializes every state mutation, including capture stop and commit.
	ops sync.Mutex

	mu          sync.RWMutex
	state       fsm.State
	position    int
	answers     []string
	draft       string
	countdown   int
	mark        int
	transcripts map[int]string
	startedAt   time.Time
	last        *store.Bundle

	actions chan actionRequest
}

// NewController constructs a session controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	cfg Config,
	capture Capture,
	committer Committer,
	indicator Indicator,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.QuestionSeconds <= 0 {
		cfg.QuestionSeconds = DefaultQuestionSeconds
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if capture == nil {
		capture = noCapture{}
	}
	if committer == nil {
		committer = CommitFunc(func(context.Context, store.Bundle) error { return nil })
	}
	if indicator == nil {
		indicator = noopIndicator{}
	}

	c := &Controller{
		logger:    logger,
		questions: questions.Clone(cfg.Questions),
		duration:  cfg.QuestionSeconds,
		interval:  cfg.TickInterval,
		capture:   capture,
		commit:    committer,
		indicator: indicator,
		newID:     func() string { return uuid.New().String() },
		now:       time.Now,
		actions:   make(chan actionRequest),
	}
	c.reset()
	return c
}

// reset restores the post-construction state. Callers hold mu or own c exclusively.
func (c *Controller) reset() {
	c.state = fsm.StateNotStarted
	c.position = 0
	c.answers = nil
	c.draft = ""
	c.countdown = c.duration
	c.mark = 0
	c.transcripts = nil
	c.startedAt = time.Time{}
	c.last = nil
}

// State returns the current FSM state.
func (c *Controller) State() fsm.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Snapshot returns a consistent copy of session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	snap := Snapshot{
		State:     c.state,
		Position:  c.position,
		Total:     len(c.questions),
		Draft:     c.draft,
		Countdown: c.countdown,
		Answers:   append([]string(nil), c.answers...),
	}
	active, mark := c.state == fsm.StateActive, c.mark
	if active {
		snap.Question = c.questions[c.position]
	}
	c.mu.RUnlock()

	snap.Capture = c.capture.Status()
	if active {
		snap.Transcript = c.capture.TranscriptSince(mark)
	}
	return snap
}

// LastBundle returns the bundle of the most recent finalize.
func (c *Controller) LastBundle() (store.Bundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return store.Bundle{}, false
	}
	return *c.last, true
}

// transition applies one FSM event. Callers hold mu.
func (c *Controller) transition(event fsm.Event) error {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Start begins a session at position 0 with a full countdown and starts capture.
func (c *Controller) Start(ctx context.Context) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	if len(c.questions) == 0 {
		return ErrNoQuestions
	}

	c.mu.Lock()
	if err := c.transition(fsm.EventStart); err != nil {
		c.mu.Unlock()
		return err
	}
	c.position = 0
	c.countdown = c.duration
	c.answers = make([]string, len(c.questions))
	c.draft = ""
	c.transcripts = map[int]string{}
	c.startedAt = c.now()
	c.mu.Unlock()

	c.capture.StartCapture(ctx)
	mark := c.capture.TranscriptMark()

	c.mu.Lock()
	c.mark = mark
	c.mu.Unlock()

	c.logger.Info("session started", "questions", len(c.questions), "question_seconds", c.duration)
	c.indicator.ShowQuestion(ctx, c.Snapshot())
	return nil
}

// SetDraftAnswer replaces the draft of the current question.
func (c *Controller) SetDraftAnswer(text string) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	c.draft = text
	return nil
}

// AppendDraft adds one line to the current draft.
func (c *Controller) AppendDraft(line string) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.activeLocked(); err != nil {
		return err
	}
	if c.draft == "" {
		c.draft = line
	} else {
		c.draft += "\n" + line
	}
	return nil
}

// Tick decrements the countdown; reaching zero advances exactly like an explicit
// "next" with the current draft, except that a blank draft is never blocked.
// The returned bundle is non-nil when the tick finalized the session.
func (c *Controller) Tick(ctx context.Context) (*store.Bundle, error) {
	c.ops.Lock()
	defer c.ops.Unlock()

	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if err := c.transition(fsm.EventTick); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.countdown > 0 {
		c.countdown--
	}
	expired := c.countdown == 0
	c.mu.Unlock()

	if !expired {
		c.indicator.ShowCountdown(ctx, c.Snapshot())
		return nil, nil
	}
	return c.advance(ctx, false)
}

// Advance commits the draft and moves to the next question, or finalizes after
// the last one. A blank draft returns ErrEmptyDraft.
func (c *Controller) Advance(ctx context.Context) (*store.Bundle, error) {
	c.ops.Lock()
	defer c.ops.Unlock()
	return c.advance(ctx, true)
}

// advance is the single commit point for timeout and explicit advances. Callers hold ops.
func (c *Controller) advance(ctx context.Context, explicit bool) (*store.Bundle, error) {
	c.mu.Lock()
	if err := c.activeLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if explicit && strings.TrimSpace(c.draft) == "" {
		c.mu.Unlock()
		return nil, ErrEmptyDraft
	}

	position := c.position
	c.answers[position] = c.draft
	if excerpt := c.capture.TranscriptSince(c.mark); excerpt != "" {
		c.transcripts[position] = excerpt
	}
	c.mark = c.capture.TranscriptMark()
	last := position == len(c.questions)-1

	if !last {
		if err := c.transition(fsm.EventAdvance); err != nil {
			c.mu.Unlock()
			return nil, err
		}
		c.position++
		c.countdown = c.duration
		c.draft = ""
	}
	answerLen := len(c.answers[position])
	c.mu.Unlock()

	c.logger.Info("answer committed",
		"position", position,
		"explicit", explicit,
		"answer_chars", answerLen,
	)

	if last {
		bundle, err := c.finalize(ctx)
		return &bundle, err
	}
	c.indicator.ShowQuestion(ctx, c.Snapshot())
	return nil, nil
}

// Finalize stops capture, saves the result bundle, and ends the session.
// Uncommitted positions are stored as empty answers.
func (c *Controller) Finalize(ctx context.Context) (store.Bundle, error) {
	c.ops.Lock()
	defer c.ops.Unlock()

	c.mu.RLock()
	err := c.activeLocked()
	c.mu.RUnlock()
	if err != nil {
		return store.Bundle{}, err
	}
	return c.finalize(ctx)
}

// finalize builds and commits the bundle. Callers hold ops and have checked the session is active.
func (c *Controller) finalize(ctx context.Context) (store.Bundle, error) {
	analysis := c.capture.StopCapture()
	metrics := c.capture.Metrics()

	c.mu.Lock()
	bundle := store.Bundle{
		ID:            c.newID(),
		Questions:     questions.Clone(c.questions),
		Answers:       append([]string(nil), c.answers...),
		VoiceAnalysis: analysis,
		Timestamp:     c.now().UTC(),
	}
	if analysis != nil || len(c.transcripts) > 0 {
		transcripts := make(map[int]string, len(c.transcripts))
		for k, v := range c.transcripts {
			transcripts[k] = v
		}
		bundle.RealTimeMetrics = &store.RealTimeMetrics{Metrics: metrics, Transcripts: transcripts}
	}
	duration := c.now().Sub(c.startedAt)
	if err := c.transition(fsm.EventFinish); err != nil {
		c.mu.Unlock()
		return store.Bundle{}, err
	}
	c.draft = ""
	c.last = &bundle
	c.mu.Unlock()

	c.logger.Info("session finished",
		"session_id", bundle.ID,
		"answers", countAnswered(bundle.Answers),
		"questions", len(bundle.Questions),
		"voice_analysis", analysis != nil,
		"duration_ms", duration.Milliseconds(),
	)

	if err := c.commit.Commit(ctx, bundle); err != nil {
		c.logger.Error("save result bundle failed", "session_id", bundle.ID, "error", err.Error())
		return bundle, fmt.Errorf("save result bundle: %w", err)
	}
	c.indicator.ShowFinished(ctx, bundle)
	return bundle, nil
}

// Restart stops capture and returns the controller to its post-construction state.
func (c *Controller) Restart(ctx context.Context) {
	c.ops.Lock()
	defer c.ops.Unlock()

	c.capture.StopCapture()

	c.mu.Lock()
	prior := c.state
	_ = c.transition(fsm.EventRestart)
	c.reset()
	c.mu.Unlock()

	c.logger.Info("session restarted", "from_state", string(prior))
	c.indicator.ShowRestarted(ctx)
}

// activeLocked reports why the session cannot be mutated. Callers hold mu.
func (c *Controller) activeLocked() error {
	switch c.state {
	case fsm.StateActive:
		return nil
	case fsm.StateEnded:
		return ErrEnded
	default:
		return ErrNotActive
	}
}

func countAnswered(answers []string) int {
	n := 0
	for _, answer := range answers {
		if strings.TrimSpace(answer) != "" {
			n++
		}
	}
	return n
}
