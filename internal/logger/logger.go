package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultFile is the log file path, relative to the working directory.
const DefaultFile = "logs/glfwcanvas.log"

// Options configures New.
type Options struct {
	// Level is the minimum record level.
	Level slog.Level
	// File is appended to when not empty. Its directory is created if needed.
	File string
	// Stderr receives every record. Nil means os.Stderr.
	Stderr io.Writer
}

// Logger is the process logger. Records go to stderr, to the log file and
// to an in-memory history.
type Logger struct {
	*slog.Logger

	mu    sync.Mutex
	lines []string
	file  *os.File
}

// New returns a text logger configured by opts.
func New(opts Options) (*Logger, error) {
	l := &Logger{lines: make([]string, 0)}

	out := opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out, historyWriter{l}}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}

	h := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: opts.Level})
	l.Logger = slog.New(h)
	return l, nil
}

// Lines returns a copy of every record written so far, one line each.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel maps debug, info, warn and error (any case) to a level. An
// empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logger: unknown level %q", s)
	}
	return lvl, nil
}

type historyWriter struct{ l *Logger }

// Write receives one formatted record per call from the text handler.
func (w historyWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	w.l.mu.Lock()
	w.l.lines = append(w.l.lines, line)
	w.l.mu.Unlock()
	return len(p), nil
}
