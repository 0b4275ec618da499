// Package logger provides the process-wide logger for the SmartSync agent.
// Operational visibility depends entirely on this output: every scheduler
// cycle, connector failure and transport failure is reported here.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	mu  sync.RWMutex
	log = newLogger(os.Stderr, slog.LevelInfo)
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

// Init configures the logger. Verbose enables debug-level output.
func Init(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(os.Stderr, level)
}

// SetOutput redirects log output. Debug level is enabled so tests can
// assert on everything the agent reports.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w, slog.LevelDebug)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs at debug level. Args are slog key/value pairs.
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}
