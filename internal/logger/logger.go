package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alkime/opledit/internal/config"
)

// Level picks the log level for cfg. Development builds default to debug;
// an explicit LogLevel wins over the environment.
func Level(cfg *config.Config) slog.Level {
	logLevel := slog.LevelInfo
	if cfg.Env == config.EnvDevelopment {
		logLevel = slog.LevelDebug
	}
	switch cfg.LogLevel {
	case "info":
		logLevel = slog.LevelInfo
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	return logLevel
}

// SetupLogger configures structured logging based on environment and
// installs the result as the default logger.
func SetupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: Level(cfg),
	})

	logger := slog.New(handler)

	slog.SetDefault(logger)

	return logger
}

// OpenFile opens cfg.LogFile for appending. The terminal UI owns stdout, so
// it logs here instead.
func OpenFile(cfg *config.Config) (*os.File, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
