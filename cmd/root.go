package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/worklens/worklens/internal/config"
)

// rootCmd represents the base command for the worklens application
var rootCmd = &cobra.Command{
	Use:   "worklens",
	Short: "Local calendar context for AI assistants",
	Long: `worklens acquires calendar events from locally installed calendar
applications (Outlook on Windows, Calendar.app on macOS). No cloud API,
no OAuth flow; the data never leaves the machine.

It can run as:
  - A standalone CLI tool (default: print upcoming events)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// configPath overrides the default per-user configuration file location.
var configPath string

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "worklens version %s\n" .Version}}`)

	// If no subcommand is provided, run the events command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "events")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file (default: per-user config directory)")

	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

// loadConfig resolves the configuration path from the --config flag or the
// per-user default and loads it, creating a default file on first run.
func loadConfig() (*config.Config, string, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, "", fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, path, nil
}

// newLogger builds the application logger. Logs always go to stderr so the
// stdio MCP transport and the JSON output mode keep stdout clean.
func newLogger(debugMode bool) *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
