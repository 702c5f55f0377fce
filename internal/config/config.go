// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `env:"SPLTR3_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file path. Parent directories are
	// created on startup.
	DBPath string `env:"SPLTR3_DB_PATH" envDefault:"./data/spltr3.db"`

	// JWTSecret is the shared HS256 key used to verify bearer tokens
	// issued by the identity service. Required.
	JWTSecret string `env:"SPLTR3_JWT_SECRET"`

	// CORSOrigin is the value for Access-Control-Allow-Origin.
	CORSOrigin string `env:"SPLTR3_CORS_ORIGIN" envDefault:"*"`

	ReadTimeout     time.Duration `env:"SPLTR3_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SPLTR3_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SPLTR3_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SPLTR3_JWT_SECRET is required")
	}
	return cfg, nil
}
