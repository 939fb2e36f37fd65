// Package logging builds the service's structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logger settings
type Config struct {
	Level  string // debug, info, warn, error
	Format Format
	Output io.Writer
}

// New creates a logger for the given configuration.
// Unknown levels fall back to info and unknown formats to JSON.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a level name to a slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything, for tests
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
