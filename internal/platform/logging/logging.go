// Package logging installs the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
)

// Setup sets a text logger at the given level as the slog default and returns it.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
