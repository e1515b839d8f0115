package internal

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger in development and a JSON logger
// otherwise. Unknown levels fall back to info.
func NewLogger(w io.Writer, development bool, level string) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug,
	}

	var handler slog.Handler
	if development {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("service", "pagelinks")
}
