package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rbright/mockprep/internal/audio"
	"github.com/rbright/mockprep/internal/capture"
	"github.com/rbright/mockprep/internal/config"
	"github.com/rbright/mockprep/internal/fsm"
	"github.com/rbright/mockprep/internal/indicator"
	"github.com/rbright/mockprep/internal/ipc"
	"github.com/rbright/mockprep/internal/questions"
	"github.com/rbright/mockprep/internal/session"
	"github.com/rbright/mockprep/internal/speech"
	"github.com/rbright/mockprep/internal/store"
	"github.com/rbright/mockprep/internal/transcript"
)

const (
	forwardTimeout = 2 * time.Second
	probeTimeout   = 180 * time.Millisecond
	acquireRetries = 8

	heardExcerptRunes = 48
)

const inputHelp = `Type your answer; each line is appended to the draft.
  /next      submit the answer and advance
  /clear     clear the draft
  /status    show progress
  /restart   discard the session
  /start     start again after a restart
  /quit      discard the session and exit`

// commandStart owns the session: it serves IPC, reads answers from stdin, and
// drives the countdown until the last answer is committed.
func (r Runner) commandStart(ctx context.Context, e env, custom bool) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	list, source, err := resolveQuestions(ctx, e, custom)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		e.logger.Error("resolve questions failed", "error", err.Error())
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, ipc.AcquireOptions{
		ProbeTimeout: probeTimeout,
		Retries:      acquireRetries,
		OnStale: func(path string) {
			e.logger.Warn("removed stale session socket", "socket", path)
		},
	})
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintf(r.Stderr, "error: %v; use next, draft, status or restart\n", err)
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	stdout := &lockedWriter{w: r.Stdout}
	stderr := &lockedWriter{w: r.Stderr}

	notifier := indicator.New(e.cfg.Config.Indicator, stdout, e.logger)
	defer notifier.Wait()

	var capt session.Capture
	if e.cfg.Config.Capture.Enable {
		capt = newCaptureAdapter(e.cfg.Config.Capture, notifier, e.logger)
	}

	controller := session.NewController(e.logger, session.Config{
		Questions:       list,
		QuestionSeconds: e.cfg.Config.Session.QuestionSeconds,
		TickInterval:    e.cfg.Config.Session.TickInterval(),
	}, capt, session.StoreCommitter(e.store), notifier)

	e.logger.Info("session owner ready", "socket", socketPath, "questions", len(list), "source", source)
	fmt.Fprintf(stdout, "Mock interview: %d questions from %s, %ds each.\n%s\n", len(list), source, e.cfg.Config.Session.QuestionSeconds, inputHelp)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(runCtx, listener, controller)
	}()

	var inputWG sync.WaitGroup
	inputWG.Add(1)
	go func() {
		defer inputWG.Done()
		r.processInput(runCtx, controller, scanLines(runCtx, r.Stdin), stdout, stderr, cancelRun)
	}()

	result := controller.Run(runCtx)
	cancelRun()
	inputWG.Wait()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logSessionResult(e.logger, result)

	switch {
	case result.Finished && result.Err == nil:
		return 0
	case errors.Is(result.Err, context.Canceled):
		fmt.Fprintln(stdout, "Session discarded.")
		return 0
	case result.Err != nil:
		fmt.Fprintf(stderr, "error: %v\n", result.Err)
		return 1
	default:
		return 0
	}
}

func newCaptureAdapter(cfg config.CaptureConfig, notifier *indicator.Notifier, logger *slog.Logger) *capture.Adapter {
	opts := capture.Options{
		Media:         audio.Media{Input: cfg.AudioInput, Fallback: cfg.AudioFallback, Logger: logger},
		Preview:       notifier,
		Notify:        notifier.Notice,
		Logger:        logger,
		Request:       capture.Request{Audio: true, Video: true},
		MeterInterval: cfg.MeterInterval(),
	}
	if len(cfg.Speech.Argv) > 0 {
		opts.Recognizer = speech.CommandRecognizer{Argv: cfg.Speech.Argv, Logger: logger}
	}
	return capture.NewAdapter(opts)
}

// resolveQuestions picks the prepared custom set, the configured bank file, or
// the built-in bank, in that order of request.
func resolveQuestions(ctx context.Context, e env, custom bool) ([]questions.Question, string, error) {
	if custom {
		set, err := e.store.LoadCustomQuestions(ctx)
		if errors.Is(err, store.ErrNoCustomQuestions) {
			return nil, "", fmt.Errorf("%w; run \"mockprep prepare --role ROLE\" first", err)
		}
		if err != nil {
			return nil, "", fmt.Errorf("load custom questions: %w", err)
		}
		return set.Questions, fmt.Sprintf("the custom set for %s", describeRole(set.JobRole)), nil
	}

	if path := strings.TrimSpace(e.cfg.Config.Questions.File); path != "" {
		list, err := questions.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return list, path, nil
	}
	return questions.Default(), "the built-in bank", nil
}

func describeRole(role string) string {
	if strings.TrimSpace(role) == "" {
		return "your profile"
	}
	return role
}

// scanLines feeds stdin lines until EOF or cancellation. The scanning
// goroutine may outlive ctx while blocked on a terminal read.
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// processInput turns terminal lines into controller commands. Plain text is
// appended to the draft; slash commands map onto IPC commands.
func (r Runner) processInput(ctx context.Context, handler ipc.Handler, lines <-chan string, stdout, stderr io.Writer, quit context.CancelFunc) {
	for {
		var line string
		select {
		case <-ctx.Done():
			return
		case next, ok := <-lines:
			if !ok {
				return
			}
			line = next
		}

		req, local := parseInputLine(line)
		switch local {
		case "skip":
			continue
		case "quit":
			quit()
			return
		case "help":
			fmt.Fprintln(stdout, inputHelp)
			continue
		case "unknown":
			fmt.Fprintf(stderr, "! unknown command %q; /help lists commands\n", strings.TrimSpace(line))
			continue
		}

		resp := handler.Handle(ctx, req)
		if ctx.Err() != nil {
			return
		}
		if !resp.OK {
			fmt.Fprintf(stderr, "! %s\n", resp.Error)
			continue
		}
		if req.Command == ipc.CommandStatus {
			fmt.Fprintln(stdout, formatStatus(resp))
		}
	}
}

// parseInputLine maps one terminal line to a request, or to a local action
// (skip, quit, help, unknown) that never reaches the controller.
func parseInputLine(line string) (ipc.Request, string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ipc.Request{}, "skip"
	}
	if !strings.HasPrefix(trimmed, "/") {
		return ipc.Request{Command: ipc.CommandAppend, Text: trimmed}, ""
	}

	switch strings.ToLower(trimmed) {
	case "/next":
		return ipc.Request{Command: ipc.CommandNext}, ""
	case "/clear":
		return ipc.Request{Command: ipc.CommandDraft}, ""
	case "/status":
		return ipc.Request{Command: ipc.CommandStatus}, ""
	case "/restart":
		return ipc.Request{Command: ipc.CommandRestart}, ""
	case "/start":
		return ipc.Request{Command: ipc.CommandStart}, ""
	case "/quit", "/exit":
		return ipc.Request{}, "quit"
	case "/help":
		return ipc.Request{}, "help"
	default:
		return ipc.Request{}, "unknown"
	}
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "no active session")
		return 0
	}

	resp, err := ipc.Forward(ctx, socketPath, ipc.Request{Command: ipc.CommandStatus}, forwardTimeout)
	if errors.Is(err, ipc.ErrNoSession) {
		fmt.Fprintln(r.Stdout, "no active session")
		return 0
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, formatStatus(resp))
	return 0
}

// formatStatus renders an owner response as one status line.
func formatStatus(resp ipc.Response) string {
	state := resp.State
	if state == "" {
		state = string(fsm.StateNotStarted)
	}
	if fsm.State(state) != fsm.StateActive {
		return state
	}

	parts := []string{
		state,
		fmt.Sprintf("question %d of %d", resp.Position+1, resp.Total),
		fmt.Sprintf("%ds remaining", resp.Countdown),
		fmt.Sprintf("draft %d chars", len(resp.Draft)),
	}
	if resp.Capture != "" {
		parts = append(parts, "capture "+resp.Capture)
	}
	if capture.State(resp.Capture) == capture.StateActive {
		parts = append(parts, fmt.Sprintf("mic %d%%", resp.Level))
	}
	if heard := transcript.Tail(resp.Transcript, heardExcerptRunes); heard != "" {
		parts = append(parts, fmt.Sprintf("heard %q", heard))
	}
	return strings.Join(parts, " | ")
}

func (r Runner) forwardOrFail(ctx context.Context, command string, text string) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, err := ipc.Forward(ctx, socketPath, ipc.Request{Command: command, Text: text}, forwardTimeout)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if !resp.OK {
		fmt.Fprintf(r.Stderr, "error: %s\n", resp.Error)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func logSessionResult(logger *slog.Logger, result session.Result) {
	if logger == nil {
		return
	}
	fields := []any{
		"state", result.State,
		"finished", result.Finished,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}
	if result.Finished {
		answered := 0
		for _, answer := range result.Bundle.Answers {
			if strings.TrimSpace(answer) != "" {
				answered++
			}
		}
		fields = append(fields,
			"session_id", result.Bundle.ID,
			"questions", len(result.Bundle.Questions),
			"answered", answered,
			"voice_analysis", result.Bundle.VoiceAnalysis != nil,
		)
	}

	if result.Err != nil && !errors.Is(result.Err, context.Canceled) {
		logger.Error("session failed", append(fields, "error", result.Err.Error())...)
		return
	}
	logger.Info("session result", fields...)
}

// lockedWriter serializes writes from the indicator and the input loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
