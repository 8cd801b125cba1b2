package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger writes leveled, optionally colored messages to stderr. Debug
// output is suppressed unless enabled.
type Logger struct {
	debug   bool
	noColor bool
	out     io.Writer
}

// New creates a new logger instance
func New(debug, noColor bool) *Logger {
	return &Logger{
		debug:   debug,
		noColor: noColor,
		out:     os.Stderr,
	}
}

// NewWithWriter creates a logger that writes to out, for tests.
func NewWithWriter(debug, noColor bool, out io.Writer) *Logger {
	return &Logger{debug: debug, noColor: noColor, out: out}
}

func (l *Logger) log(symbol, color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.noColor || color == "" {
		fmt.Fprintf(l.out, "%s %s\n", symbol, msg)
		return
	}
	fmt.Fprintf(l.out, "%s%s\033[0m %s\n", color, symbol, msg)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("✓", "\033[32m", format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("⚠", "\033[33m", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("✗", "\033[31m", format, args...)
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.log("[DEBUG]", "\033[36m", format, args...)
}

// Secret represents a value that should be redacted in logs
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Redact replaces sensitive values in a string with [REDACTED]
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if secret != "" && len(secret) > 3 { // Only redact non-trivial secrets
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
