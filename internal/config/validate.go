package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if cfg.Session.QuestionSeconds <= 0 {
		return nil, fmt.Errorf("session.question_seconds must be > 0")
	}
	if cfg.Session.TickIntervalMS <= 0 {
		return nil, fmt.Errorf("session.tick_interval_ms must be > 0")
	}
	if cfg.Session.TickIntervalMS != 1000 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("session.tick_interval_ms=%d; countdown seconds no longer match wall time", cfg.Session.TickIntervalMS)})
	}
	if cfg.Capture.MeterIntervalMS <= 0 {
		return nil, fmt.Errorf("capture.meter_interval_ms must be > 0")
	}
	if cfg.Capture.Speech.Raw != "" && len(cfg.Capture.Speech.Argv) == 0 {
		return nil, fmt.Errorf("capture.speech_command is configured but empty")
	}
	if cfg.Capture.Enable && len(cfg.Capture.Speech.Argv) == 0 {
		warnings = append(warnings, Warning{Message: "capture.speech_command is unset; live transcripts are disabled"})
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) {
	case "", "file", "memory":
	case "redis":
		if strings.TrimSpace(cfg.Store.RedisAddr) == "" {
			return nil, fmt.Errorf("store.redis_addr must not be empty when store.backend=redis")
		}
	default:
		return nil, fmt.Errorf("store.backend must be one of: file, redis, memory")
	}
	if cfg.Store.RedisDB < 0 {
		return nil, fmt.Errorf("store.redis_db must be >= 0")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	if backend == "" {
		return nil, fmt.Errorf("indicator.backend must not be empty")
	}
	if backend != "terminal" && backend != "desktop" {
		return nil, fmt.Errorf("indicator.backend must be one of: terminal, desktop")
	}
	if backend == "desktop" && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.backend=desktop")
	}

	return warnings, nil
}
