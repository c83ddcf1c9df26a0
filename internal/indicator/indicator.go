// Package indicator renders session progress to the terminal, with optional
// desktop notifications and audio cues.
package indicator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/mockprep/internal/capture"
	"github.com/rbright/mockprep/internal/config"
	"github.com/rbright/mockprep/internal/session"
	"github.com/rbright/mockprep/internal/store"
	"github.com/rbright/mockprep/internal/transcript"
)

const (
	warningSeconds  = 10
	noticeTimeoutMS = 5000
	finishTimeoutMS = 8000

	liveEverySeconds  = 15
	heardExcerptRunes = 48
)

// Notifier implements session.Indicator and capture.PreviewSink. Question and
// completion lines are always written; countdown milestones, capture preview
// lines and desktop notifications require cfg.Enable.
type Notifier struct {
	cfg      config.IndicatorConfig
	logger   *slog.Logger
	out      io.Writer
	messages messages

	notify  func(ctx context.Context, appName string, replaceID uint32, summary string, body string, timeoutMS int) (uint32, error)
	dismiss func(ctx context.Context, id uint32) error
	cue     func(context.Context, cueKind) error

	mu                    sync.Mutex
	desktopNotificationID uint32

	soundMu sync.Mutex
	cues    sync.WaitGroup
}

var (
	_ session.Indicator   = (*Notifier)(nil)
	_ capture.PreviewSink = (*Notifier)(nil)
)

// New creates a notifier writing to out.
func New(cfg config.IndicatorConfig, out io.Writer, logger *slog.Logger) *Notifier {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		messages: indicatorMessagesFromEnv(),
		notify:   desktopNotify,
		dismiss:  desktopDismiss,
		cue:      emitCue,
	}
}

// ShowQuestion announces the current question and emits the question cue.
func (n *Notifier) ShowQuestion(ctx context.Context, snap session.Snapshot) {
	n.playCue(cueQuestion)

	q := snap.Question
	header := fmt.Sprintf(n.messages.question, snap.Position+1, snap.Total)
	tags := []string{header, string(q.Type)}
	if q.Difficulty != "" {
		tags = append(tags, string(q.Difficulty))
	}
	if q.Category != "" {
		tags = append(tags, q.Category)
	}

	n.printf("\n%s\n%s\n%s (%ds)\n", strings.Join(tags, " | "), q.Question, n.messages.instructions, snap.Countdown)
	n.desktop(ctx, header, q.Question, snap.Countdown*1000)
}

// ShowCountdown reports countdown milestones: one minute, thirty seconds, ten
// seconds and the final five. While capture is active the terminal line also
// carries the mic level and the latest speech, every liveEverySeconds at least.
func (n *Notifier) ShowCountdown(ctx context.Context, snap session.Snapshot) {
	due := milestone(snap.Countdown)
	if due && snap.Countdown == warningSeconds {
		n.playCue(cueWarning)
	}
	if !n.cfg.Enable {
		return
	}

	live := n.liveLine(snap)
	if !due && (live == "" || snap.Countdown%liveEverySeconds != 0) {
		return
	}

	parts := make([]string, 0, 2)
	remaining := fmt.Sprintf(n.messages.remaining, snap.Countdown)
	if due {
		parts = append(parts, remaining)
	}
	if live != "" {
		parts = append(parts, live)
	}
	n.printf("  %s\n", strings.Join(parts, " | "))
	if due && snap.Countdown >= warningSeconds {
		n.desktop(ctx, fmt.Sprintf(n.messages.question, snap.Position+1, snap.Total), remaining, noticeTimeoutMS)
	}
}

// liveLine renders the meter and heard excerpt, or "" when capture is off.
func (n *Notifier) liveLine(snap session.Snapshot) string {
	if snap.Capture.State != capture.StateActive {
		return ""
	}
	out := fmt.Sprintf(n.messages.level, levelBar(snap.Capture.Level), snap.Capture.Level)
	if heard := transcript.Tail(snap.Transcript, heardExcerptRunes); heard != "" {
		out += " | " + fmt.Sprintf(n.messages.heard, heard)
	}
	return out
}

func levelBar(level int) string {
	filled := min(max(level, 0), 100) / 10
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 10-filled) + "]"
}

// ShowFinished summarizes the committed bundle.
func (n *Notifier) ShowFinished(ctx context.Context, bundle store.Bundle) {
	n.playCue(cueComplete)

	answered := 0
	for _, answer := range bundle.Answers {
		if strings.TrimSpace(answer) != "" {
			answered++
		}
	}
	summary := fmt.Sprintf(n.messages.finished, answered, len(bundle.Questions))
	n.printf("\n%s\n%s\n", summary, n.messages.reportHint)
	n.desktop(ctx, summary, n.messages.reportHint, finishTimeoutMS)
}

// ShowRestarted confirms a reset and dismisses any desktop notification.
func (n *Notifier) ShowRestarted(ctx context.Context) {
	n.playCue(cueCancel)
	n.printf("\n%s\n", n.messages.restarted)
	if n.desktopEnabled() {
		n.run(ctx, n.dismissDesktop)
	}
}

// Notice prints a non-fatal capture notice.
func (n *Notifier) Notice(notice capture.Notice) {
	n.printf("! %s\n", notice.Message)
	n.desktop(context.Background(), "mockprep", notice.Message, noticeTimeoutMS)
	if notice.Err != nil {
		n.logger.Debug("capture notice", "kind", string(notice.Kind), "error", notice.Err.Error())
	}
}

// Attach reports the tracks of a newly active capture stream.
func (n *Notifier) Attach(kinds []capture.Kind) {
	if !n.cfg.Enable {
		return
	}
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	n.printf("%s %s\n", n.messages.captureOn, strings.Join(names, ", "))
}

// Detach reports that capture stopped.
func (n *Notifier) Detach() {
	if !n.cfg.Enable {
		return
	}
	n.printf("%s\n", n.messages.captureOff)
}

// Wait blocks until queued audio cues finish.
func (n *Notifier) Wait() {
	n.cues.Wait()
}

func milestone(countdown int) bool {
	switch {
	case countdown == 60, countdown == 30, countdown == warningSeconds:
		return true
	default:
		return countdown > 0 && countdown <= 5
	}
}

func (n *Notifier) printf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintf(n.out, format, args...); err != nil {
		n.log("indicator write failed", err)
	}
}

func (n *Notifier) desktopEnabled() bool {
	return n.cfg.Enable && strings.EqualFold(strings.TrimSpace(n.cfg.Backend), "desktop")
}

// desktop sends a replaceable desktop notification when the desktop backend is on.
func (n *Notifier) desktop(ctx context.Context, summary string, body string, timeoutMS int) {
	if !n.desktopEnabled() {
		return
	}
	n.run(ctx, func(ctx context.Context) error {
		return n.notifyDesktop(ctx, summary, body, timeoutMS)
	})
}

// notifyDesktop sends a replaceable desktop notification and stores its ID.
func (n *Notifier) notifyDesktop(ctx context.Context, summary string, body string, timeoutMS int) error {
	n.mu.Lock()
	replaceID := n.desktopNotificationID
	n.mu.Unlock()

	appName := strings.TrimSpace(n.cfg.DesktopAppName)
	if appName == "" {
		appName = "mockprep"
	}

	id, err := n.notify(ctx, appName, replaceID, summary, body, timeoutMS)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.desktopNotificationID = id
	n.mu.Unlock()
	return nil
}

// dismissDesktop closes the current desktop notification ID when present.
func (n *Notifier) dismissDesktop(ctx context.Context) error {
	n.mu.Lock()
	id := n.desktopNotificationID
	n.desktopNotificationID = 0
	n.mu.Unlock()

	if id == 0 {
		return nil
	}
	return n.dismiss(ctx, id)
}

// run executes an indicator operation with a bounded timeout.
func (n *Notifier) run(ctx context.Context, fn func(context.Context) error) {
	runCtx, cancel := context.WithTimeout(ctx, 400*time.Millisecond)
	defer cancel()
	if err := fn(runCtx); err != nil {
		n.log("indicator dispatch failed", err)
	}
}

// playCue serializes cue playback and emits audio asynchronously.
func (n *Notifier) playCue(kind cueKind) {
	if !n.cfg.SoundEnable {
		return
	}
	n.cues.Add(1)
	go func() {
		defer n.cues.Done()
		n.soundMu.Lock()
		defer n.soundMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		if err := n.cue(ctx, kind); err != nil {
			n.log("indicator audio cue failed", err)
		}
	}()
}

// log emits debug-only indicator failures to the runtime logger.
func (n *Notifier) log(message string, err error) {
	if err == nil {
		return
	}
	n.logger.Debug(message, "error", err.Error())
}
