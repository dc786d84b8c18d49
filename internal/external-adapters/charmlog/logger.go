// Package charmlog adapts github.com/charmbracelet/log to the domain Logger contract.
package charmlog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ochairo/wheelwright/internal/domain/interfaces"
)

// Logger writes leveled, key/value log lines
type Logger struct {
	inner *log.Logger
}

// Options configures a Logger
type Options struct {
	// Verbose enables debug output
	Verbose bool
	// Prefix is printed before every message when set
	Prefix string
}

// New creates a logger writing to stdout, where the build's progress is expected
func New(opts Options) *Logger {
	return NewWithWriter(os.Stdout, opts)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, opts Options) *Logger {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	return &Logger{
		inner: log.NewWithOptions(w, log.Options{
			Level:           level,
			Prefix:          opts.Prefix,
			ReportTimestamp: opts.Verbose,
		}),
	}
}

// Debug implements interfaces.Logger
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.inner.Debug(msg, keyvals(fields)...)
}

// Info implements interfaces.Logger
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.inner.Info(msg, keyvals(fields)...)
}

// Warn implements interfaces.Logger
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.inner.Warn(msg, keyvals(fields)...)
}

// Error implements interfaces.Logger
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.inner.Error(msg, keyvals(fields)...)
}

func keyvals(fields []interfaces.Field) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
