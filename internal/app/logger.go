package app

import (
	"fmt"
	"io"
	"log/slog"
)

// newLogger builds the app's logger from its Config. It does not set the
// global logger, allowing for isolated logger instances. An unknown level
// or format is a configuration error and is surfaced to the caller rather
// than silently downgraded to a default.
func newLogger(cfg *Config, outW io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch cfg.LogFormat {
	case "json":
		return slog.New(slog.NewJSONHandler(outW, handlerOpts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(outW, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("log format %q: want 'text' or 'json'", cfg.LogFormat)
	}
}
