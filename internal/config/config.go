// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/talgya/retail-tycoon/internal/catalog"
)

// Config holds the settings shared by every command.
type Config struct {
	DBPath       string
	Seed         int64 // 0 picks a random seed
	StartingCash decimal.Decimal
	StoreName    string
	CatalogPath  string // empty uses the built-in catalog
	LogLevel     slog.Level
	Autosave     bool
}

// Load reads TYCOON_* environment variables, falling back to defaults for
// unset ones. A set but malformed value is an error.
func Load() (Config, error) {
	cfg := Config{
		DBPath:      envOrDefault("TYCOON_DB_PATH", "data/tycoon.db"),
		StoreName:   envOrDefault("TYCOON_STORE_NAME", "My First Store"),
		CatalogPath: strings.TrimSpace(os.Getenv("TYCOON_CATALOG")),
	}

	var err error
	if cfg.Seed, err = envInt64("TYCOON_SEED", 0); err != nil {
		return Config{}, err
	}

	cash := envOrDefault("TYCOON_STARTING_CASH", "1000")
	if cfg.StartingCash, err = decimal.NewFromString(cash); err != nil {
		return Config{}, fmt.Errorf("TYCOON_STARTING_CASH: invalid amount %q", cash)
	}
	if !cfg.StartingCash.IsPositive() {
		return Config{}, fmt.Errorf("TYCOON_STARTING_CASH: must be positive, got %s", cash)
	}

	if cfg.LogLevel, err = ParseLevel(envOrDefault("TYCOON_LOG_LEVEL", "warn")); err != nil {
		return Config{}, fmt.Errorf("TYCOON_LOG_LEVEL: %w", err)
	}

	autosave := envOrDefault("TYCOON_AUTOSAVE", "true")
	if cfg.Autosave, err = strconv.ParseBool(autosave); err != nil {
		return Config{}, fmt.Errorf("TYCOON_AUTOSAVE: invalid bool %q", autosave)
	}

	return cfg, nil
}

// Catalog loads the configured product catalog.
func (c Config) Catalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.CatalogPath)
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt64(key string, defaultVal int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}
