package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("level is applied", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&Config{LogLevel: "warn", LogFormat: "text"}, &buf)
		require.NoError(t, err)

		logger.Info("too quiet")
		logger.Warn("loud enough")

		assert.NotContains(t, buf.String(), "too quiet")
		assert.Contains(t, buf.String(), "loud enough")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&Config{LogLevel: "info", LogFormat: "json"}, &buf)
		require.NoError(t, err)

		logger.Info("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("unknown level is rejected", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newLogger(&Config{LogLevel: "shouty", LogFormat: "text"}, &buf)
		assert.ErrorContains(t, err, "log level")
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := newLogger(&Config{LogLevel: "info", LogFormat: "xml"}, &buf)
		assert.ErrorContains(t, err, "log format")
	})

	t.Run("config defaults produce a working logger", func(t *testing.T) {
		cfg, err := NewConfig(Config{GridPath: "grid.hcl"})
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)

		var buf bytes.Buffer
		_, err = newLogger(cfg, &buf)
		assert.NoError(t, err)
	})
}
