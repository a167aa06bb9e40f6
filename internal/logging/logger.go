// Package logging provides the leveled logger used across every package in
// this module. It keeps the same four-method call surface the teacher's
// hand-rolled utils.Logger exposed, backed by zap instead of the standard
// library log package.
package logging

import (
	"go.uber.org/zap"
)

// Logger is a thin, leveled wrapper around a zap.SugaredLogger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a production-configured Logger writing structured JSON to
// stdout/stderr, with stack traces on Error and above suppressed (the deal
// engine never panics on recoverable conditions — see internal/schema
// rejection codes).
func New() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar()}
}

// NewDevelopment builds a human-readable console Logger suitable for the
// cmd/dealengine demo binary and local runs.
func NewDevelopment() *Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar()}
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// With returns a Logger with the given structured key/value pairs attached
// to every subsequent log line — used to thread asset_id/property_id
// through a pipeline run without reformatting every call site.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.sugar.With(kv...)}
}

// Sync flushes any buffered log entries. Call before process exit.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
