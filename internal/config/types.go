// Package config resolves, parses, validates, and defaults mockprep configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by mockprep.
type Config struct {
	Session   SessionConfig
	Questions QuestionsConfig
	Capture   CaptureConfig
	Store     StoreConfig
	Indicator IndicatorConfig
}

// SessionConfig controls interview timing.
type SessionConfig struct {
	QuestionSeconds int
	TickIntervalMS  int
}

// TickInterval returns the countdown tick period.
func (c SessionConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// QuestionsConfig selects the question bank.
type QuestionsConfig struct {
	File string
}

// CaptureConfig controls best-effort media capture and speech recognition.
type CaptureConfig struct {
	Enable          bool
	MeterIntervalMS int
	Speech          CommandConfig
	AudioInput      string
	AudioFallback   string
}

// MeterInterval returns the amplitude sampling period.
func (c CaptureConfig) MeterInterval() time.Duration {
	return time.Duration(c.MeterIntervalMS) * time.Millisecond
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// IndicatorConfig controls session progress output and audio cue behavior.
type IndicatorConfig struct {
	Enable         bool
	Backend        string
	DesktopAppName string
	SoundEnable    bool
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
