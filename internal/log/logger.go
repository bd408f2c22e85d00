package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger and tags every record with a component name
type Logger struct {
	*slog.Logger
	root *slog.Logger
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
}

// DefaultConfig logs info and above to stderr
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: "capview",
		Output:    os.Stderr,
	}
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	root := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: config.Level}))

	return &Logger{
		Logger: root.With("component", config.Component),
		root:   root,
	}
}

// Discard returns a logger that drops everything. Used where the terminal
// belongs to the TUI and no log file was configured.
func Discard() *Logger {
	return New(Config{Level: slog.LevelError, Component: "capview", Output: io.Discard})
}

// WithComponent returns a new logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.root.With("component", component),
		root:   l.root,
	}
}

// With returns a new logger with the given attributes. They survive a
// later WithComponent.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		root:   l.root.With(args...),
	}
}

// ParseLevel accepts debug, info, warn/warning and error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
