package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alkime/opledit/internal/config"
	"github.com/alkime/opledit/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.Level(&config.Config{Env: "development"}))
	assert.Equal(t, slog.LevelInfo, logger.Level(&config.Config{Env: "production"}))
	assert.Equal(t, slog.LevelDebug, logger.Level(&config.Config{Env: "production", LogLevel: "debug"}))
	assert.Equal(t, slog.LevelWarn, logger.Level(&config.Config{Env: "development", LogLevel: "warn"}))
	assert.Equal(t, slog.LevelInfo, logger.Level(&config.Config{Env: config.EnvDevelopment, LogLevel: "info"}),
		"info quiets a development build")
	assert.Equal(t, slog.LevelDebug, logger.Level(&config.Config{Env: config.EnvDevelopment}))
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := logger.SetupLogger(&config.Config{Env: "production"}, &buf)
	l.Debug("hidden")
	l.Info("parameter changed", "name", "OP1 Attack", "value", 15)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "one JSON record")
	assert.Equal(t, "parameter changed", rec["msg"])
	assert.Equal(t, "OP1 Attack", rec["name"])
	assert.Equal(t, float64(15), rec["value"])
}

func TestOpenFile(t *testing.T) {
	cfg := &config.Config{LogFile: filepath.Join(t.TempDir(), "opledit.log")}
	f, err := logger.OpenFile(cfg)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "opledit.log")
	_, err = logger.OpenFile(cfg)
	require.Error(t, err)
}
