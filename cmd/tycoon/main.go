// Command tycoon runs the retail tycoon game: play it interactively, let an
// autopilot run it headless, or inspect saved games.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/talgya/retail-tycoon/internal/config"
	"github.com/talgya/retail-tycoon/internal/persistence"
)

var (
	cfg      config.Config
	dbPath   string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tycoon",
		Short: "Retail tycoon business simulation",
		Long: `Run a chain of retail stores one day at a time: buy stock wholesale,
price it, staff your stores, borrow, invest, and stay solvent.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides TYCOON_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides TYCOON_LOG_LEVEL)")

	rootCmd.AddCommand(playCmd(), simulateCmd(), historyCmd(), gamesCmd(), deleteCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(); err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		if cfg.LogLevel, err = config.ParseLevel(logLevel); err != nil {
			return err
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	return nil
}

func openDB() (*persistence.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", cfg.DBPath)
	return db, nil
}
