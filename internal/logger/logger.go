// Package logger provides structured logging for lazysheet.
// It wraps log/slog behind a package-level logger. The TUI owns the
// terminal, so output normally goes to a log file rather than stdout.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger is the default logger instance.
var Logger *slog.Logger

var (
	mu     sync.Mutex
	out    io.Writer = io.Discard
	level            = new(slog.LevelVar)
	closer io.Closer
)

func init() {
	level.Set(slog.LevelInfo)
	Logger = newLogger(out)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel configures the logging level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel converts a config string to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// SetOutput redirects log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	Logger = newLogger(w)
}

// OpenFile directs logging to path, creating parent directories as needed.
// The returned function closes the file.
func OpenFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	prev := closer
	closer = f
	out = f
	Logger = newLogger(f)
	mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return f.Close, nil
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// WithComponent returns a logger tagged with a component name.
func WithComponent(name string) *slog.Logger {
	return Logger.With("component", name)
}

// LogLoad records a completed dataset load.
func LogLoad(source string, rows, columns int, duration time.Duration) {
	Logger.Info("dataset loaded",
		slog.String("source", source),
		slog.Int("rows", rows),
		slog.Int("columns", columns),
		slog.Duration("duration", duration),
	)
}
