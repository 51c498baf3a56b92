package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jengzang/crimestats-backend-go/internal/config"
	"github.com/jengzang/crimestats-backend-go/internal/logging"
)

var (
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "crimestats",
	Short:         "Crime incident statistics backend",
	Long:          "Serves monthly offense, shooting, offense-group and hour/weekday aggregations over a crime incident store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides CRIMESTATS_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides CRIMESTATS_LOG_LEVEL)")
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}
