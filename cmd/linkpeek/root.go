// Package main provides the CLI entrypoint for linkpeek.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/linkpeek/internal/config"
	"github.com/1broseidon/linkpeek/internal/ipc"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		socketPath string
		logLevel   string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "linkpeek",
	Short: "Floating link-preview overlay manager",
	Long: `linkpeek manages floating link-preview windows: it opens previews for
links (subject to a ban list and a preview mode), stacks and focuses them,
snaps them to a 3x3 screen grid, parks them in a taskbar and drives all of it
from the keyboard.

Start the daemon with "linkpeek daemon"; every other command talks to it over
a Unix socket.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		setupLogger(cfg)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/linkpeek/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.socketPath, "socket", "",
		"Daemon socket (default: $XDG_RUNTIME_DIR/linkpeek.sock)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default: config log_level)")
}

func loadConfig() (*config.Config, error) {
	if globalOpts.configPath == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(globalOpts.configPath)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// setupLogger configures the global slog logger.
func setupLogger(c *config.Config) {
	name := c.LogLevel
	if globalOpts.logLevel != "" {
		name = globalOpts.logLevel
	}
	level := parseLevel(name)
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newClient returns an IPC client honoring --socket.
func newClient() *ipc.Client {
	if globalOpts.socketPath != "" {
		return ipc.NewClientWithPath(globalOpts.socketPath)
	}
	return ipc.NewClient()
}
