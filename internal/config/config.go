package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pders01/nds/internal/validation"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Shell    ShellConfig    `mapstructure:"shell"`
	News     NewsConfig     `mapstructure:"news"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ShellConfig struct {
	CarouselInterval time.Duration `mapstructure:"carousel_interval"`
	CountdownSeconds int           `mapstructure:"countdown_seconds"`
	SwipeThreshold   int           `mapstructure:"swipe_threshold"`
	ToastDuration    time.Duration `mapstructure:"toast_duration"`
	ShareURL         string        `mapstructure:"share_url"`
}

type NewsConfig struct {
	Feeds           []string      `mapstructure:"feeds"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	UserAgent       string        `mapstructure:"user_agent"`
}

type UIConfig struct {
	Colors       UIColors `mapstructure:"colors"`
	CellWidthPx  int      `mapstructure:"cell_width_px"`
	CellHeightPx int      `mapstructure:"cell_height_px"`
	WrapWidth    int      `mapstructure:"wrap_width"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type KeyConfig struct {
	Modifier string `mapstructure:"modifier"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(homeDir, ".nds.db"),
			Timeout: 1 * time.Second,
		},
		Shell: ShellConfig{
			CarouselInterval: 5 * time.Second,
			CountdownSeconds: 9000,
			SwipeThreshold:   50,
			ToastDuration:    3 * time.Second,
			ShareURL:         "https://nds.example.org/community",
		},
		News: NewsConfig{
			HTTPTimeout:     30 * time.Second,
			RefreshInterval: 5 * time.Minute,
			UserAgent:       "nds/1.0 (https://github.com/pders01/nds)",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF8C00",
				Secondary:  "#2E7D32",
				Accent:     "#FFD54F",
				Background: "#1B1B1B",
				Surface:    "#262626",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			CellWidthPx:  8,
			CellHeightPx: 16,
			WrapWidth:    100,
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".nds", "nds.log"),
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "nds")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every leaf key so a partial section in the config
// file keeps the defaults of its siblings.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.timeout", cfg.Database.Timeout)

	v.SetDefault("shell.carousel_interval", cfg.Shell.CarouselInterval)
	v.SetDefault("shell.countdown_seconds", cfg.Shell.CountdownSeconds)
	v.SetDefault("shell.swipe_threshold", cfg.Shell.SwipeThreshold)
	v.SetDefault("shell.toast_duration", cfg.Shell.ToastDuration)
	v.SetDefault("shell.share_url", cfg.Shell.ShareURL)

	v.SetDefault("news.feeds", cfg.News.Feeds)
	v.SetDefault("news.http_timeout", cfg.News.HTTPTimeout)
	v.SetDefault("news.refresh_interval", cfg.News.RefreshInterval)
	v.SetDefault("news.user_agent", cfg.News.UserAgent)

	c := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", c.Primary)
	v.SetDefault("ui.colors.secondary", c.Secondary)
	v.SetDefault("ui.colors.accent", c.Accent)
	v.SetDefault("ui.colors.background", c.Background)
	v.SetDefault("ui.colors.surface", c.Surface)
	v.SetDefault("ui.colors.text", c.Text)
	v.SetDefault("ui.colors.muted", c.Muted)
	v.SetDefault("ui.colors.error", c.Error)
	v.SetDefault("ui.colors.success", c.Success)
	v.SetDefault("ui.cell_width_px", cfg.UI.CellWidthPx)
	v.SetDefault("ui.cell_height_px", cfg.UI.CellHeightPx)
	v.SetDefault("ui.wrap_width", cfg.UI.WrapWidth)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// Validate rejects settings the shell cannot run with.
func (c *Config) Validate() error {
	if c.Shell.CarouselInterval <= 0 {
		return fmt.Errorf("shell.carousel_interval must be positive, got %s", c.Shell.CarouselInterval)
	}
	if c.Shell.CountdownSeconds < 0 {
		return fmt.Errorf("shell.countdown_seconds must not be negative, got %d", c.Shell.CountdownSeconds)
	}
	if c.Shell.SwipeThreshold < 0 {
		return fmt.Errorf("shell.swipe_threshold must not be negative, got %d", c.Shell.SwipeThreshold)
	}
	if c.UI.CellWidthPx <= 0 || c.UI.CellHeightPx <= 0 {
		return fmt.Errorf("ui cell size must be positive, got %dx%d", c.UI.CellWidthPx, c.UI.CellHeightPx)
	}

	validator := validation.NewFeedURLValidator()
	for i, raw := range c.News.Feeds {
		normalized, err := validator.ValidateAndNormalize(raw)
		if err != nil {
			return fmt.Errorf("news.feeds[%d]: %w", i, err)
		}
		c.News.Feeds[i] = normalized
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations as strings keep the TOML readable
	dbCfg := map[string]interface{}{
		"path":    config.Database.Path,
		"timeout": config.Database.Timeout.String(),
	}

	shellCfg := map[string]interface{}{
		"carousel_interval": config.Shell.CarouselInterval.String(),
		"countdown_seconds": config.Shell.CountdownSeconds,
		"swipe_threshold":   config.Shell.SwipeThreshold,
		"toast_duration":    config.Shell.ToastDuration.String(),
		"share_url":         config.Shell.ShareURL,
	}

	feeds := config.News.Feeds
	if feeds == nil {
		feeds = []string{}
	}
	newsCfg := map[string]interface{}{
		"feeds":            feeds,
		"http_timeout":     config.News.HTTPTimeout.String(),
		"refresh_interval": config.News.RefreshInterval.String(),
		"user_agent":       config.News.UserAgent,
	}

	v.Set("database", dbCfg)
	v.Set("shell", shellCfg)
	v.Set("news", newsCfg)

	uiCfg := map[string]interface{}{
		"colors":         config.UI.Colors,
		"cell_width_px":  config.UI.CellWidthPx,
		"cell_height_px": config.UI.CellHeightPx,
		"wrap_width":     config.UI.WrapWidth,
	}
	v.Set("ui", uiCfg)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
