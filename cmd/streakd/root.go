package main

import (
	"github.com/spf13/cobra"

	"github.com/streakd/streakd/internal/config"
	"github.com/streakd/streakd/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "streakd",
	Short: "Habit streak and progression engine",
	Long: `streakd tracks habits, their streaks and the experience points and
levels earned by completing them. Run "streakd serve" to start the server and
use the habit, user and stats commands as a client.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadConfig() },
}

// Global flags
var (
	jsonOutput bool
	configPath string
	debugMode  bool
	userFlag   string
)

// cfg is resolved before any command runs.
var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.streakd/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "User ID to act as (overrides client.user)")
}

// loadConfig resolves configuration and applies flag overrides, which take
// precedence over the file and the environment.
func loadConfig() error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if userFlag != "" {
		loaded.Client.User = userFlag
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  loaded.Log.Level,
		File:   loaded.Log.File,
		Format: loaded.Log.Format,
		Debug:  debugMode,
	}); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		return handleError(err)
	}
	return ExitSuccess
}
