// Package diag is flare's diagnostic side-channel. Failures on the dispatch
// path are reported here and nowhere else; the host application's logging
// call never sees them.
package diag

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Init creates and sets the package-level default slog logger.
// When jsonOutput is true, uses JSONHandler on stderr (machine-readable
// diagnostics). Otherwise uses TextHandler on stderr for human readability.
func Init(jsonOutput bool, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// SendFailure emits the single-line report for a swallowed dispatch failure.
// The line format is fixed: operators grep for it.
func SendFailure(err error) {
	slog.Error(fmt.Sprintf("Unable to send request: %s", err))
}
