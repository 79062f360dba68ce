package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jwebster45206/trail1897/internal/config"
)

// Setup configures the global slog logger based on environment. Output goes
// to w; the terminal belongs to the game screen.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// OpenFile opens the configured log file for appending.
func OpenFile(cfg *config.Config) (*os.File, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
	}
	return f, nil
}

// WithSession adds the session ID to logger context
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session_id", sessionID)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
