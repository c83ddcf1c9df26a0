// Package app dispatches parsed CLI commands to the session, store, and report layers.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rbright/mockprep/internal/audio"
	"github.com/rbright/mockprep/internal/cli"
	"github.com/rbright/mockprep/internal/config"
	"github.com/rbright/mockprep/internal/doctor"
	"github.com/rbright/mockprep/internal/ipc"
	"github.com/rbright/mockprep/internal/logging"
	"github.com/rbright/mockprep/internal/scoring"
	"github.com/rbright/mockprep/internal/store"
	"github.com/rbright/mockprep/internal/version"
)

const binaryName = "mockprep"

// Runner executes one CLI invocation. Zero-valued fields fall back to process defaults.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	// Scorer overrides the randomized report scorer.
	Scorer scoring.ScoreProvider
	// DotEnvPath overrides the .env file loaded before config resolution.
	DotEnvPath string
}

// env is the per-command runtime shared by handlers.
type env struct {
	cfg    config.Loaded
	logger *slog.Logger
	store  *store.Store
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdin: os.Stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	if r.Stdout == nil {
		r.Stdout = io.Discard
	}
	if r.Stderr == nil {
		r.Stderr = io.Discard
	}
	if r.Stdin == nil {
		r.Stdin = eofReader{}
	}

	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	if err := config.LoadDotEnv(r.dotEnvPath()); err != nil {
		fmt.Fprintf(r.Stderr, "warning: %v\n", err)
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "warning: setup logging: %v\n", err)
		logRuntime = logging.Discard()
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"store_backend", cfgLoaded.Config.Store.Backend,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandNext:
		return r.forwardOrFail(ctx, ipc.CommandNext, "")
	case cli.CommandDraft:
		return r.forwardOrFail(ctx, ipc.CommandDraft, parsed.Text)
	case cli.CommandRestart:
		return r.forwardOrFail(ctx, ipc.CommandRestart, "")
	}

	e, closeStore, err := r.openEnv(cfgLoaded, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("open store failed", "error", err.Error())
		return 1
	}
	defer closeStore()

	switch parsed.Command {
	case cli.CommandStart:
		return r.commandStart(ctx, e, parsed.Custom)
	case cli.CommandReport:
		return r.commandReport(ctx, e, parsed.PDFPath)
	case cli.CommandPrepare:
		return r.commandPrepare(ctx, e, parsed)
	case cli.CommandQuestions:
		return r.commandQuestions(ctx, e)
	case cli.CommandAdmin:
		return r.commandAdmin(ctx, e)
	case cli.CommandRole:
		return r.commandRole(ctx, e, parsed)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) dotEnvPath() string {
	if r.DotEnvPath != "" {
		return r.DotEnvPath
	}
	return filepath.Join(".", ".env")
}

func (r Runner) scorer() scoring.ScoreProvider {
	if r.Scorer != nil {
		return r.Scorer
	}
	return scoring.NewRandomScorer(nil)
}

// openEnv opens the configured store backend.
func (r Runner) openEnv(cfg config.Loaded, logger *slog.Logger) (env, func(), error) {
	kv, err := store.Open(store.OptionsFromConfig(cfg.Config.Store))
	if err != nil {
		return env{}, nil, fmt.Errorf("open store: %w", err)
	}
	closeStore := func() {}
	if closer, ok := kv.(io.Closer); ok {
		closeStore = func() { _ = closer.Close() }
	}
	return env{cfg: cfg, logger: logger, store: store.New(kv)}, closeStore, nil
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			yesNo(device.Available),
			yesNo(device.Muted),
		)
	}

	return 0
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// eofReader stands in for a missing stdin.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
