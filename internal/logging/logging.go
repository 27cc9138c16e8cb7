package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
)

// ParseLevel converts a string level to slog.Level
// Accepts: "debug", "info", "warn", "warning", "error" (case-insensitive)
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a console logger. Logs go to stderr so command
// output on stdout stays machine-readable.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(ParseLevel(level)),
		clog.WithTimeFmt("15:04:05"),
		clog.WithSource(false),
	)

	return slog.New(handler)
}

// Setup installs a logger built from the level string as the
// process-wide default.
func Setup(level string) *slog.Logger {
	logger := New(level, os.Stderr)
	slog.SetDefault(logger)
	return logger
}
