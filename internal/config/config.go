// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/roach88/addrhist/internal/pkg/validator"
)

// Prefix is prepended to every environment variable name, e.g. ADDRHIST_DB_PATH.
const Prefix = "ADDRHIST"

// DefaultDBPath is the database file used when ADDRHIST_DB_PATH is unset.
const DefaultDBPath = "doge_wallet.db"

// Config holds settings shared by the history store and the CLI.
type Config struct {
	// DBPath is the SQLite file backing the history store.
	DBPath string `envconfig:"DB_PATH" default:"doge_wallet.db" validate:"required"`

	// BusyTimeout bounds how long a connection waits on a locked database.
	BusyTimeout time.Duration `envconfig:"BUSY_TIMEOUT" default:"5s" validate:"gte=0"`

	// LogLevel is the minimum zap level (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// Load reads Config from ADDRHIST_* environment variables, applying
// defaults for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration Load produces in an empty environment.
func Default() Config {
	return Config{
		DBPath:      DefaultDBPath,
		BusyTimeout: 5 * time.Second,
		LogLevel:    "info",
	}
}
