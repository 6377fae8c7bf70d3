// Package config reads runtime settings from BAKERY_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds every setting the CLI needs before wiring the application.
// Command-line flags override these after parsing.
type Config struct {
	DataDir     string     `env:"BAKERY_DATA_DIR"     envDefault:"data"`
	Storage     string     `env:"BAKERY_STORAGE"      envDefault:"file"`
	RedisURL    string     `env:"BAKERY_REDIS_URL"    envDefault:"redis://localhost:6379"`
	RedisPrefix string     `env:"BAKERY_REDIS_PREFIX" envDefault:"bakery"`
	LogLevel    slog.Level `env:"BAKERY_LOG_LEVEL"    envDefault:"warn"`
	Output      string     `env:"BAKERY_OUTPUT"       envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and validates it
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings
func (c Config) Validate() error {
	if !slices.Contains([]string{StorageFile, StorageMemory, StorageRedis}, c.Storage) {
		return fmt.Errorf("invalid storage %q: must be %s, %s or %s", c.Storage, StorageFile, StorageMemory, StorageRedis)
	}
	if c.Storage == StorageFile && c.DataDir == "" {
		return fmt.Errorf("data directory required for %s storage", StorageFile)
	}
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("invalid output %q: must be %s or %s", c.Output, OutputText, OutputJSON)
	}
	return nil
}
