// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cardfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while an engine on another goroutine logs.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for cardfx and its sub-packages.
// By default, cardfx produces no log output. Pass nil to restore that.
//
// Log levels used by cardfx:
//   - [slog.LevelDebug]: per-engine diagnostics (program preparation, tier changes)
//   - [slog.LevelInfo]: lifecycle events (backend attached, context restored)
//   - [slog.LevelWarn]: non-fatal issues (shader failures, CSS fallback)
//
// Example:
//
//	cardfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by cardfx.
// The gpu backend package calls this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
