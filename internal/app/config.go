package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath string // path to the .hcl grid file

	Workers     int // 0 means host parallelism
	Passes      int
	Watch       bool
	MetricsPort int // 0 disables the metrics/health server

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if cfg.Passes < 1 {
		cfg.Passes = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	return &cfg, nil
}
