package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	APIBaseURL   string `envconfig:"SCAMSHIELD_API_URL" default:"http://127.0.0.1:8700/api"`
	DBPath       string `envconfig:"SCAMSHIELD_DB_PATH" default:"./data/scamshield.sqlite"`
	KeystoreFile string `envconfig:"SCAMSHIELD_KEYSTORE_FILE" default:"./data/wallet.key"`
	LogLevel     string `envconfig:"SCAMSHIELD_LOG_LEVEL" default:"info"`
	LogDir       string `envconfig:"SCAMSHIELD_LOG_DIR" default:"./logs"`
	Network      string `envconfig:"SCAMSHIELD_NETWORK" default:"testnet"`

	// Dev API server.
	DevAPIPort   int    `envconfig:"SCAMSHIELD_DEVAPI_PORT" default:"8700"`
	DevAPIDBPath string `envconfig:"SCAMSHIELD_DEVAPI_DB_PATH" default:"./data/devapi.sqlite"`
}

// Load reads configuration from .env file (if present) then from environment variables.
// Environment variables override .env values.
func Load() (*Config, error) {
	// godotenv does NOT override already-set env vars, so real environment
	// variables take precedence over .env values.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			slog.Warn("failed to load .env file", "error", err)
		} else {
			slog.Info("loaded .env file")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.Network != "mainnet" && c.Network != "testnet" {
		return fmt.Errorf("%w: network must be \"mainnet\" or \"testnet\", got %q", ErrInvalidConfig, c.Network)
	}
	if c.DevAPIPort < 1 || c.DevAPIPort > 65535 {
		return fmt.Errorf("%w: devapi port must be 1-65535, got %d", ErrInvalidConfig, c.DevAPIPort)
	}
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("%w: invalid API base URL %q: %v", ErrInvalidConfig, c.APIBaseURL, err)
	}
	return nil
}
