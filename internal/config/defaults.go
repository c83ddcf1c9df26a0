package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Session: SessionConfig{
			QuestionSeconds: 120,
			TickIntervalMS:  1000,
		},
		Capture: CaptureConfig{
			Enable:          true,
			MeterIntervalMS: 16,
			AudioInput:      "default",
			AudioFallback:   "default",
		},
		Store: StoreConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			KeyPrefix: "mockprep:",
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "terminal",
			DesktopAppName: "mockprep",
			SoundEnable:    true,
		},
	}
}
