package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "MOCKPREP_"

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays MOCKPREP_* variables onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) ([]Warning, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(value), ok
	}

	var warnings []Warning

	if value, ok := get("STORE_BACKEND"); ok {
		cfg.Store.Backend = strings.ToLower(value)
	}
	if value, ok := get("STORE_PATH"); ok {
		cfg.Store.Path = value
	}
	if value, ok := get("REDIS_ADDR"); ok {
		cfg.Store.RedisAddr = value
	}
	if value, ok := lookup(EnvPrefix + "REDIS_PASSWORD"); ok {
		cfg.Store.RedisPassword = value
	}
	if value, ok := get("REDIS_DB"); ok && value != "" {
		db, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%sREDIS_DB must be an integer: %w", EnvPrefix, err)
		}
		cfg.Store.RedisDB = db
	}
	if value, ok := get("SPEECH_COMMAND"); ok {
		argv, err := parseArgv(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %sSPEECH_COMMAND: %w", EnvPrefix, err)
		}
		cfg.Capture.Speech = CommandConfig{Raw: value, Argv: argv}
	}
	if value, ok := get("QUESTIONS_FILE"); ok {
		cfg.Questions.File = value
	}
	if value, ok := get("QUESTION_SECONDS"); ok && value != "" {
		seconds, err := strconv.Atoi(value)
		if err != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("ignoring %sQUESTION_SECONDS=%q: not an integer", EnvPrefix, value)})
		} else {
			cfg.Session.QuestionSeconds = seconds
		}
	}

	return warnings, nil
}
