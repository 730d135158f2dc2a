// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration, loaded from environment
// variables with an optional .env file for local development.
type Config struct {
	Port     string `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upstream metadata provider
	TMDBAPIKey string `env:"TMDB_API_KEY"`

	// Relational store (reviews, viewed markers)
	DatabaseURL string `env:"DATABASE_URL"`

	// Payload cache
	CacheDBPath string        `env:"CACHE_DB_PATH" envDefault:"./cache.db"`
	CacheSize   int           `env:"CACHE_SIZE" envDefault:"1000"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

// Load reads configuration from the environment. A missing .env file is not
// an error. Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required settings are present and sane.
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive, got %d", c.CacheSize)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
