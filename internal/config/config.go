// Package config loads server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration for the server binary.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"KUTSCHFAHRT_ADDR" envDefault:":8080"`
	// DBPath is the SQLite snapshot database path.
	DBPath string `env:"KUTSCHFAHRT_DB" envDefault:"kutschfahrt.db"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
