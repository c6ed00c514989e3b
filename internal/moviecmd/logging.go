// Package moviecmd implements the movieetl subcommands.
package moviecmd

import (
	"log/slog"
	"os"
)

// setupLogging installs the default logger. Logs go to stderr so reports on
// stdout stay machine readable.
func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
