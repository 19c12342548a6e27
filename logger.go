package desim

import (
	"log/slog"
	"os"
)

// Logger defines the logging interface used throughout the engine. It uses
// variadic key-value pairs rather than a formatted string so implementations
// can plug in whatever structured logger an application already uses
// (slog, zap, logrus, ...) without the engine depending on any of them.
//
//	logger.Debug("dispatching frontier", "receiver", name, "time", t)
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// slogLogger adapts *slog.Logger to the Logger interface. It is the
// default used when a Simulator is constructed without WithLogger.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l as a Logger. A nil l falls back to a text logger on
// os.Stderr.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{}))
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }

// noopLogger discards everything. Used only by tests that don't want log
// noise on stderr.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}

// NewNoopLogger returns a Logger that discards all messages.
func NewNoopLogger() Logger { return noopLogger{} }
