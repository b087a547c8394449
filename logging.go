package ecs

import (
	"log/slog"
	"os"
	"strings"
)

// LogConfig configures the slog.Logger used by a ComponentManager/
// ComponentStore when the caller wants more than slog.Default(). Deliberately
// small: no file rotation or sinks, since those are service concerns, not a
// library's.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// Format is "json" or "text". Defaults to "text".
	Format string
}

// NewLogger builds a slog.Logger from cfg, writing to stderr.
func NewLogger(cfg LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
