package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:", // tests open their own store under t.TempDir()
			Timeout: 1 * time.Second,
		},
		Shell: ShellConfig{
			CarouselInterval: 5 * time.Second,
			CountdownSeconds: 9000,
			SwipeThreshold:   50,
			ToastDuration:    3 * time.Second,
			ShareURL:         "https://nds.test/community",
		},
		News: NewsConfig{
			HTTPTimeout:     5 * time.Second,
			RefreshInterval: 1 * time.Minute,
			UserAgent:       "nds-test/1.0",
		},
		UI:   defaultConfig().UI,
		Keys: defaultConfig().Keys,
		Log:  LogConfig{Level: "off"},
	}
}
