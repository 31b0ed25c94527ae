package config

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger for the loaded environment.
// Production uses a JSON handler; everything else gets text.
// LOG_LEVEL may be: debug, info, warn, error (default: info).
func (c *Config) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
