// Package log builds the application's slog loggers with a consistent
// level policy: Debug when verbose, Warn otherwise. Components receive a
// *slog.Logger by injection; nothing in this package is global.
package log

import (
	"io"
	"log/slog"
)

// NewLogger creates a text-format slog.Logger writing to w.
// When verbose is true the level is Debug, otherwise Warn so that a
// normal crawl run stays quiet unless something needs attention.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, handlerOptions(verbose)))
}

// NewJSONLogger creates a JSON-format slog.Logger writing to w.
// Useful when the serve command runs under a log aggregator.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, handlerOptions(verbose)))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
