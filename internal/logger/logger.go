// Package logger provides a simple logging interface for mdash components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation. The default
// implementation writes through zerolog's console writer.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// DebugEnv enables debug output for env-based loggers when set to any value.
const DebugEnv = "MDASH_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// zeroLogger implements Logger on top of a zerolog.Logger.
type zeroLogger struct {
	zl     zerolog.Logger
	prefix string
}

// NewEnvLogger creates a logger that writes to stderr and respects the
// MDASH_DEBUG environment variable. The prefix is prepended to all log
// messages (e.g., "[store]" or "[dashboard]").
func NewEnvLogger(prefix string) Logger {
	return New(os.Stderr, prefix, os.Getenv(DebugEnv) != "")
}

// New creates a zerolog-backed logger writing human-readable lines to w.
// Debug messages are dropped unless debug is true.
func New(w io.Writer, prefix string, debug bool) Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	return &zeroLogger{
		zl:     zerolog.New(out).Level(level).With().Timestamp().Logger(),
		prefix: prefix,
	}
}

func (l *zeroLogger) msg(format string, args ...interface{}) string {
	m := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		return m
	}
	return l.prefix + " " + m
}

func (l *zeroLogger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msg(l.msg(format, args...))
}

func (l *zeroLogger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(l.msg(format, args...))
}

func (l *zeroLogger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(l.msg(format, args...))
}

func (l *zeroLogger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(l.msg(format, args...))
}

// SetLevel sets the process-wide minimum level from a config string
// ("debug", "info", "warn", "error"). Unknown values fall back to info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
// Used by the dashboard, where stderr output would tear the alt screen.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

var defaultLogger = NewEnvLogger("")

// Default returns the package-level default logger.
func Default() Logger {
	return defaultLogger
}

// SetDefault replaces the package-level default logger.
func SetDefault(l Logger) {
	defaultLogger = l
}
