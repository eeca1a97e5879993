package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Initialize installs the process-wide slog handler. Logs go to stderr so that
// confirmation prompts and summaries on stdout stay readable.
func Initialize(level slog.Level, format string) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, level, format)))
}

func newHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func Named(name string) *slog.Logger {
	logger := slog.Default()
	if logger == nil {
		return nil
	}

	return logger.With("name", name)
}
