package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pders01/nds/internal/config"
	"github.com/pders01/nds/internal/content"
	"github.com/pders01/nds/internal/debuglog"
	"github.com/pders01/nds/internal/shell"
	"github.com/pders01/nds/internal/storage"
	"github.com/pders01/nds/internal/tui"
	"github.com/pders01/nds/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath  string
	dbPath      string
	contentPath string
	quiet       bool
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:   "nds",
	Short: "Native Dravidian Sports in your terminal",
	Long: `nds is a terminal app for native sports: live scores, venues, news,
articles and a community board.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal.
		_ = godotenv.Load()
	},
	RunE: runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nds %s\n", Version)
		fmt.Println(tui.Tagline)
		fmt.Println("github.com/pders01/nds")
	},
}

var configGenCmd = &cobra.Command{
	Use:   "generate-config",
	Short: "Generate default config file",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "nds", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the navigable sections",
	Run: func(cmd *cobra.Command, args []string) {
		for i, s := range shell.Sections() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %-11s %s\n", i+1, s, s.Title())
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "", "Path to a content TOML file (defaults to the bundled content)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug logs to the log file")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip startup banner")

	rootCmd.AddCommand(versionCmd, configGenCmd, sectionsCmd, simulateCmd, refreshCmd)
}

// loadConfig reads the config, applies flag overrides and prepares the
// on-disk paths.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if debug {
		cfg.Log.Level = debuglog.LevelDebug.String()
	}

	paths := validation.NewDataPath()
	if cfg.Database.Path, err = paths.PrepareFile(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	if level := debuglog.ParseLogLevel(cfg.Log.Level); level != debuglog.LevelOff {
		if cfg.Log.File, err = paths.PrepareFile(cfg.Log.File); err != nil {
			return nil, fmt.Errorf("log path: %w", err)
		}
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return err
	}
	defer debuglog.Close()

	c, err := content.Load(contentPath)
	if err != nil {
		return err
	}

	if !quiet {
		tui.ShowBanner(Version)
	}
	tui.ApplyColors(cfg.UI.Colors)

	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	app := tui.NewApp(store, cfg, c)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
