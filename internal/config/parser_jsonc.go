package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

type jsoncConfig struct {
	Session   *jsoncSession   `json:"session"`
	Questions *jsoncQuestions `json:"questions"`
	Capture   *jsoncCapture   `json:"capture"`
	Store     *jsoncStore     `json:"store"`
	Indicator *jsoncIndicator `json:"indicator"`
}

type jsoncSession struct {
	QuestionSeconds *int `json:"question_seconds"`
	TickIntervalMS  *int `json:"tick_interval_ms"`
}

type jsoncQuestions struct {
	File *string `json:"file"`
}

type jsoncCapture struct {
	Enable          *bool   `json:"enable"`
	MeterIntervalMS *int    `json:"meter_interval_ms"`
	SpeechCommand   *string `json:"speech_command"`
	AudioInput      *string `json:"audio_input"`
	AudioFallback   *string `json:"audio_fallback"`
}

type jsoncStore struct {
	Backend       *string `json:"backend"`
	Path          *string `json:"path"`
	RedisAddr     *string `json:"redis_addr"`
	RedisPassword *string `json:"redis_password"`
	RedisDB       *int    `json:"redis_db"`
	KeyPrefix     *string `json:"key_prefix"`
}

type jsoncIndicator struct {
	Enable         *bool   `json:"enable"`
	Backend        *string `json:"backend"`
	DesktopAppName *string `json:"desktop_app_name"`
	SoundEnable    *bool   `json:"sound_enable"`
}

// parseJSONC decodes content over base. Unknown keys are rejected so typos
// surface instead of silently keeping defaults.
func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, locateDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, locateDecodeError(normalized, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	var warnings []Warning
	if cfg.Store.RedisPassword != "" && cfg.Store.Backend != "redis" {
		warnings = append(warnings, Warning{Message: "store.redis_password is set but store.backend is not redis"})
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if s := payload.Session; s != nil {
		assign(&cfg.Session.QuestionSeconds, s.QuestionSeconds)
		assign(&cfg.Session.TickIntervalMS, s.TickIntervalMS)
	}

	if q := payload.Questions; q != nil {
		assignWith(&cfg.Questions.File, q.File, strings.TrimSpace)
	}

	if c := payload.Capture; c != nil {
		assign(&cfg.Capture.Enable, c.Enable)
		assign(&cfg.Capture.MeterIntervalMS, c.MeterIntervalMS)
		assign(&cfg.Capture.AudioInput, c.AudioInput)
		assign(&cfg.Capture.AudioFallback, c.AudioFallback)
		if c.SpeechCommand != nil {
			argv, err := parseArgv(*c.SpeechCommand)
			if err != nil {
				return fmt.Errorf("invalid capture.speech_command: %w", err)
			}
			cfg.Capture.Speech = CommandConfig{Raw: *c.SpeechCommand, Argv: argv}
		}
	}

	if st := payload.Store; st != nil {
		assignWith(&cfg.Store.Backend, st.Backend, normalizeName)
		assignWith(&cfg.Store.Path, st.Path, strings.TrimSpace)
		assignWith(&cfg.Store.RedisAddr, st.RedisAddr, strings.TrimSpace)
		assign(&cfg.Store.RedisPassword, st.RedisPassword)
		assign(&cfg.Store.RedisDB, st.RedisDB)
		assign(&cfg.Store.KeyPrefix, st.KeyPrefix)
	}

	if ind := payload.Indicator; ind != nil {
		assign(&cfg.Indicator.Enable, ind.Enable)
		assignWith(&cfg.Indicator.Backend, ind.Backend, strings.TrimSpace)
		assignWith(&cfg.Indicator.DesktopAppName, ind.DesktopAppName, strings.TrimSpace)
		assign(&cfg.Indicator.SoundEnable, ind.SoundEnable)
	}
	return nil
}

// assign copies a present optional value over its default.
func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func assignWith[T any](dst *T, src *T, clean func(T) T) {
	if src != nil {
		*dst = clean(*src)
	}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
