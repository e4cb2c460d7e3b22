// Package logging owns the process-wide logger and debug flag.
//
// Init is called once at startup. Later calls are ignored, so the debug flag
// is read-only for the rest of the process.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

var (
	once    sync.Once
	debug   atomic.Bool
	current atomic.Pointer[slog.Logger]
)

// Init installs the process logger writing to w (stderr when nil) and fixes
// the debug flag. Only the first call has any effect; every call returns the
// installed logger.
func Init(w io.Writer, debugEnabled bool) *slog.Logger {
	once.Do(func() {
		if w == nil {
			w = os.Stderr
		}
		level := slog.LevelInfo
		if debugEnabled {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
		debug.Store(debugEnabled)
		current.Store(logger)
		slog.SetDefault(logger)
	})
	return Logger()
}

// DebugEnabled reports whether diagnostic lines should be emitted.
func DebugEnabled() bool {
	return debug.Load()
}

// Logger returns the installed logger, or slog.Default before Init.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// OrDefault returns l when non-nil and the process logger otherwise.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger()
}

// Discard returns a logger that drops everything. Tests use it to keep
// output quiet.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
