// Package logx holds the shared slog defaulting convention used across
// internal/workspace and internal/transport, grounded on
// dpotapov-go-pages/pages.go's Handler: a *slog.Logger field that callers
// may leave nil, defaulting lazily to a handler that discards output.
package logx

import (
	"io"
	"log/slog"
)

// Default returns logger if non-nil, otherwise a *slog.Logger that
// discards everything (pages.go's `h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))`
// pattern).
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
