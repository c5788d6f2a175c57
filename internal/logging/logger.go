// Package logging wraps charmbracelet/log with the options used across
// the GUI, CLI and HTTP server.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
}

// DebugEnv set to 1 forces debug output.
const DebugEnv = "DEBUG"

// Options configure New.
type Options struct {
	Level  string
	Prefix string
	// Output defaults to stderr.
	Output io.Writer
	// Caller reports the calling file and line.
	Caller bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// New builds a logger. DEBUG=1 or a debug level adds caller and timestamps.
func New(opts Options) *Logger {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if opts.Level != "" {
		if parsed, err := log.ParseLevel(strings.ToLower(opts.Level)); err == nil {
			level = parsed
		}
	}
	if os.Getenv(DebugEnv) == "1" {
		level = log.DebugLevel
	}
	debug := level == log.DebugLevel

	base := log.NewWithOptions(w, log.Options{
		ReportCaller:    opts.Caller || debug,
		ReportTimestamp: debug,
		Prefix:          opts.Prefix,
	})
	base.SetLevel(level)

	return &Logger{Logger: base}
}

// Default returns the process-wide stderr logger.
func Default() *Logger {
	once.Do(func() {
		defaultLogger = New(Options{Prefix: "tubeloader"})
	})
	return defaultLogger
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *Logger {
	return New(Options{Level: "error", Output: io.Discard})
}

// With returns a child logger carrying keyvals.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{Logger: l.Logger.With(keyvals...)}
}

// OrDefault returns l, or Default when l is nil.
func (l *Logger) OrDefault() *Logger {
	if l == nil {
		return Default()
	}
	return l
}

// ValidLevel reports whether s names a charmbracelet log level.
func ValidLevel(s string) bool {
	_, err := log.ParseLevel(strings.ToLower(s))
	return err == nil
}
