package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Timeout != 1*time.Second {
		t.Errorf("Database.Timeout = %v, want 1s", cfg.Database.Timeout)
	}
	if filepath.Base(cfg.Database.Path) != ".nds.db" {
		t.Errorf("Database.Path = %s, want ~/.nds.db", cfg.Database.Path)
	}

	if cfg.Shell.CarouselInterval != 5*time.Second {
		t.Errorf("Shell.CarouselInterval = %v, want 5s", cfg.Shell.CarouselInterval)
	}
	if cfg.Shell.CountdownSeconds != 9000 {
		t.Errorf("Shell.CountdownSeconds = %d, want 9000", cfg.Shell.CountdownSeconds)
	}
	if cfg.Shell.SwipeThreshold != 50 {
		t.Errorf("Shell.SwipeThreshold = %d, want 50", cfg.Shell.SwipeThreshold)
	}
	if cfg.Shell.ToastDuration != 3*time.Second {
		t.Errorf("Shell.ToastDuration = %v, want 3s", cfg.Shell.ToastDuration)
	}

	if cfg.News.HTTPTimeout != 30*time.Second {
		t.Errorf("News.HTTPTimeout = %v, want 30s", cfg.News.HTTPTimeout)
	}
	if cfg.News.UserAgent == "" {
		t.Error("News.UserAgent should not be empty")
	}

	if cfg.UI.CellWidthPx != 8 || cfg.UI.CellHeightPx != 16 {
		t.Errorf("UI cell = %dx%d, want 8x16", cfg.UI.CellWidthPx, cfg.UI.CellHeightPx)
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 5*time.Minute, cfg.News.RefreshInterval)
	assert.Equal(t, 5*time.Second, cfg.Shell.CarouselInterval)
}

func TestLoad_FromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.toml")
	configContent := `
[database]
path = "/tmp/test.db"
timeout = "10s"

[shell]
carousel_interval = "2s"
countdown_seconds = 60

[news]
feeds = ["news.nds.org/rss"]
http_timeout = "60s"
user_agent = "test-agent"

[ui.colors]
primary = "#FF0000"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Database.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Shell.CarouselInterval)
	assert.Equal(t, 60, cfg.Shell.CountdownSeconds)
	assert.Equal(t, 50, cfg.Shell.SwipeThreshold, "unset sibling keeps default")
	assert.Equal(t, []string{"https://news.nds.org/rss"}, cfg.News.Feeds)
	assert.Equal(t, 60*time.Second, cfg.News.HTTPTimeout)
	assert.Equal(t, "test-agent", cfg.News.UserAgent)
	assert.Equal(t, "#FF0000", cfg.UI.Colors.Primary)
	assert.Equal(t, defaultConfig().UI.Colors.Secondary, cfg.UI.Colors.Secondary)
	assert.Equal(t, 8, cfg.UI.CellWidthPx)
}

func TestLoad_EnvOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[shell]\n"), 0o644))
	t.Setenv("NDS_SHELL_SWIPE_THRESHOLD", "80")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Shell.SwipeThreshold)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero carousel interval", "[shell]\ncarousel_interval = \"0s\"\n"},
		{"negative countdown", "[shell]\ncountdown_seconds = -1\n"},
		{"localhost feed", "[news]\nfeeds = [\"http://localhost/rss\"]\n"},
		{"zero cell width", "[ui]\ncell_width_px = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "bad.toml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0o644))

			_, err := Load(configPath)
			assert.Error(t, err)
		})
	}
}

func TestSave(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Path = "/test/path.db"
	cfg.Database.Timeout = 10 * time.Second
	cfg.Shell.CarouselInterval = 7 * time.Second
	cfg.Shell.CountdownSeconds = 120
	cfg.News.Feeds = []string{"https://news.nds.org/rss"}
	cfg.News.UserAgent = "test-save-agent"
	cfg.UI.CellWidthPx = 10
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(t.TempDir(), "saved-config.toml")
	require.NoError(t, Save(cfg, savePath))

	_, statErr := os.Stat(savePath)
	require.NoError(t, statErr, "Save() did not create config file")

	loaded, err := Load(savePath)
	require.NoError(t, err)

	assert.Equal(t, cfg.Database.Path, loaded.Database.Path)
	assert.Equal(t, cfg.Database.Timeout, loaded.Database.Timeout)
	assert.Equal(t, cfg.Shell.CarouselInterval, loaded.Shell.CarouselInterval)
	assert.Equal(t, cfg.Shell.CountdownSeconds, loaded.Shell.CountdownSeconds)
	assert.Equal(t, cfg.News.Feeds, loaded.News.Feeds)
	assert.Equal(t, cfg.News.UserAgent, loaded.News.UserAgent)
	assert.Equal(t, 10, loaded.UI.CellWidthPx)
	assert.Equal(t, "alt", loaded.Keys.Modifier)
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "generated.toml")
	require.NoError(t, GenerateDefaultConfig(configPath))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "ctrl", cfg.Keys.Modifier)
	assert.Equal(t, 9000, cfg.Shell.CountdownSeconds)
	assert.Equal(t, 16, cfg.UI.CellHeightPx)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, filepath.Join(home, ".nds.db"), expandPath("~/.nds.db"))
	assert.Equal(t, "/abs/file", expandPath("/abs/file"))
	assert.True(t, filepath.IsAbs(expandPath("relative.db")))
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()
	require.NotNil(t, cfg)

	if cfg.Database.Path != ":memory:" {
		t.Errorf("TestConfig Database.Path = %s, want ':memory:'", cfg.Database.Path)
	}
	if cfg.News.UserAgent != "nds-test/1.0" {
		t.Errorf("TestConfig News.UserAgent = %s, want 'nds-test/1.0'", cfg.News.UserAgent)
	}
	assert.NoError(t, cfg.Validate())
}
