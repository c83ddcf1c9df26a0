// Package doctor runs runtime readiness diagnostics for config, storage, audio, and speech.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rbright/mockprep/internal/audio"
	"github.com/rbright/mockprep/internal/config"
	"github.com/rbright/mockprep/internal/questions"
	"github.com/rbright/mockprep/internal/store"
)

const storeProbeTimeout = 2 * time.Second

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{checkConfig(cfg)}

	checks = append(checks, checkEnv("XDG_RUNTIME_DIR", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "session socket directory available", "XDG_RUNTIME_DIR is not set; next/status/restart cannot reach a session"))

	checks = append(checks, checkQuestions(cfg.Config.Questions))
	checks = append(checks, checkStore(ctx, cfg.Config.Store))

	if cfg.Config.Capture.Enable {
		checks = append(checks, checkAudioSelection(ctx, cfg.Config.Capture))
		if len(cfg.Config.Capture.Speech.Argv) > 0 {
			checks = append(checks, checkCommand(cfg.Config.Capture.Speech.Argv, "capture.speech_command"))
		}
	}

	if strings.EqualFold(cfg.Config.Indicator.Backend, "desktop") && cfg.Config.Indicator.Enable {
		checks = append(checks, checkBinary("busctl", "desktop notifications use busctl"))
	}

	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	if !cfg.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("no file at %q; using defaults", cfg.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.Path)}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkQuestions loads the configured bank file, or reports the built-in bank.
func checkQuestions(cfg config.QuestionsConfig) Check {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return Check{Name: "questions", Pass: true, Message: fmt.Sprintf("built-in bank (%d questions)", len(questions.Default()))}
	}
	list, err := questions.LoadFile(path)
	if err != nil {
		return Check{Name: "questions", Pass: false, Message: err.Error()}
	}
	return Check{Name: "questions", Pass: true, Message: fmt.Sprintf("%d questions from %q", len(list), path)}
}

// checkStore verifies the configured backend can be reached or written.
func checkStore(ctx context.Context, cfg config.StoreConfig) Check {
	kv, err := store.Open(store.OptionsFromConfig(cfg))
	if err != nil {
		return Check{Name: "store", Pass: false, Message: err.Error()}
	}

	switch backend := kv.(type) {
	case *store.Redis:
		defer func() { _ = backend.Close() }()
		pingCtx, cancel := context.WithTimeout(ctx, storeProbeTimeout)
		defer cancel()
		if err := backend.Ping(pingCtx); err != nil {
			return Check{Name: "store", Pass: false, Message: err.Error()}
		}
		return Check{Name: "store", Pass: true, Message: fmt.Sprintf("redis reachable at %s", cfg.RedisAddr)}
	case *store.File:
		if err := checkWritableDir(filepath.Dir(backend.Path())); err != nil {
			return Check{Name: "store", Pass: false, Message: err.Error()}
		}
		return Check{Name: "store", Pass: true, Message: fmt.Sprintf("file store at %q", backend.Path())}
	default:
		return Check{Name: "store", Pass: true, Message: "memory backend; results are not kept after exit"}
	}
}

func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("store dir not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(ctx context.Context, cfg config.CaptureConfig) Check {
	selection, err := audio.SelectDevice(ctx, cfg.AudioInput, cfg.AudioFallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}
