// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxReportCount bounds the report count accepted for a baseline profile.
	MaxReportCount int `koanf:"max_report_count"`

	// PreciseBaseline recovers exact fractions from rounded baseline high/low.
	PreciseBaseline bool `koanf:"precise_baseline"`

	// ProjectionRPS and ProjectionBurst rate limit POST /projection.
	ProjectionRPS   float64 `koanf:"projection_rps"`
	ProjectionBurst int     `koanf:"projection_burst"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		MaxReportCount:  500,
		PreciseBaseline: true,
		ProjectionRPS:   20,
		ProjectionBurst: 40,
	}
}

// Validate checks the values that the rest of the process relies on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxReportCount <= 0 {
		return fmt.Errorf("%w: max_report_count must be positive, got %d", ErrInvalidConfig, c.MaxReportCount)
	}
	if c.ProjectionRPS <= 0 {
		return fmt.Errorf("%w: projection_rps must be positive, got %g", ErrInvalidConfig, c.ProjectionRPS)
	}
	if c.ProjectionBurst < 1 {
		return fmt.Errorf("%w: projection_burst must be at least 1, got %d", ErrInvalidConfig, c.ProjectionBurst)
	}
	return nil
}
