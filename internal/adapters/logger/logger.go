// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/apkship/internal/core/ports"
)

// chainLink is an error that reports its own message and metadata without the chain.
// zerr.Error implements it.
type chainLink interface {
	Message() string
	Metadata() map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

var _ ports.Logger = (*Logger)(nil)

// New creates a new Logger instance writing text records to stderr.
func New() *Logger {
	l := &Logger{output: os.Stderr}
	l.logger = slog.New(l.handler())
	return l
}

// SetOutput updates the logger's output destination.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.handler())
}

// SetJSON switches between JSON and text records.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.handler())
}

func (l *Logger) handler() slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return slog.NewTextHandler(l.output, opts)
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

// Error logs an error together with its cause chain and metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}
	l.logger.Error(formatError(err))
}

// errorEntry is one level of an error chain.
type errorEntry struct {
	message  string
	metadata []string
}

// collectErrorEntries flattens err into its chain levels.
// Joined errors are expanded in order.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	current := err
	for current != nil {
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				entries = append(entries, collectErrorEntries(e)...)
			}
			return entries
		}

		link, ok := current.(chainLink)
		if !ok {
			return append(entries, errorEntry{message: current.Error()})
		}

		entry := errorEntry{message: link.Message()}
		for k, v := range link.Metadata() {
			entry.metadata = append(entry.metadata, fmt.Sprintf("%s=%v", k, v))
		}
		slices.Sort(entry.metadata)
		if entry.message != "" || len(entry.metadata) > 0 {
			entries = append(entries, entry)
		}
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders the entries as an "Error: ... Caused by:" report.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.message, "\n")
		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lines = append(lines, "    -> "+msgLines[0])
		}
		for _, line := range msgLines[1:] {
			lines = append(lines, "       "+line)
		}
		for _, meta := range entry.metadata {
			for j, line := range strings.Split(meta, "\n") {
				if j == 0 {
					lines = append(lines, "       "+line)
					continue
				}
				lines = append(lines, "         "+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func formatError(err error) string {
	return formatErrorEntries(collectErrorEntries(err))
}
