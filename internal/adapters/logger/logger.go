// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/gauntlet/internal/core/ports"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error (go.trai.ch/zerr v0.3.0+).
// If zerr's API changes, errors gracefully fall back to standard error handling.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	handler := NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &Logger{
		logger: slog.New(handler),
		output: os.Stderr,
	}
}

// SetOutput updates the logger's output destination. It preserves the
// current JSON mode setting. A nil writer falls back to os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.newHandler(w))
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable

	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(l.newHandler(w))
}

// newHandler builds a handler for the current mode. Callers must hold l.mu.
func (l *Logger) newHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatChain(err))
}

// formatChain renders an error chain as a main message followed by an
// indented "Caused by" list. zerr errors contribute their own message
// without the chain; a standard error terminates the walk.
func formatChain(err error) string {
	var messages []string
	current := err

	for current != nil {
		if m, ok := current.(messager); ok {
			messages = append(messages, m.Message())
			current = errors.Unwrap(current)
		} else {
			messages = append(messages, current.Error())
			break
		}
	}

	var lines []string
	for i, msg := range messages {
		parts := strings.Split(msg, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+parts[0])
			for _, part := range parts[1:] {
				lines = append(lines, "       "+part)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+parts[0])
		for _, part := range parts[1:] {
			lines = append(lines, "      "+part)
		}
	}

	return strings.Join(lines, "\n")
}
