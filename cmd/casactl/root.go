package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"casaspese/internal/backend"
	"casaspese/internal/config"
	applog "casaspese/internal/log"
)

var (
	flagBackend string
	flagDBPath  string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "casactl",
	Short: "Household expense tracker admin CLI",
	Long:  "Seed data, run rollover checks, and export months without the HTTP server.",
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "", "Data backend (memory or sqlite), overrides DATA_BACKEND")
	rootCmd.PersistentFlags().StringVarP(&flagDBPath, "db", "d", "", "SQLite database path, overrides SQLITE_DB_PATH")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// newLogger builds the CLI logger, quieter when -q is set.
func newLogger() *applog.Logger {
	cfg := applog.DefaultConfig()
	if flagQuiet {
		cfg.Level = slog.LevelError
		cfg.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})
	}
	return applog.New(cfg)
}

// loadConfig merges flags over the environment config.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if flagBackend != "" {
		cfg.DataBackend = flagBackend
	}
	if flagDBPath != "" {
		cfg.SQLiteDBPath = flagDBPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openBackend is the shared backend setup path used by all commands.
func openBackend(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*backend.Result, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
}
