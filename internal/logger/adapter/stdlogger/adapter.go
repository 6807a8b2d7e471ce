// Package stdlogger adapts the global zerolog logger to the logging shapes
// third-party dependencies expect: the printf style Infof/Warningf/Errorf/
// Debugf interface, and the standard library *log.Logger.
package stdlogger

import (
	"bytes"
	stdlog "log"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StdLogger forwards printf style calls to the global zerolog logger.
type StdLogger struct {
	logger *zerolog.Logger
}

// New creates a StdLogger backed by the global zerolog logger.
func New() *StdLogger {
	return &StdLogger{logger: &log.Logger}
}

// Debugf logs a formatted message at debug level.
func (l *StdLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Infof logs a formatted message at info level.
func (l *StdLogger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

// Warningf logs a formatted message at warn level.
func (l *StdLogger) Warningf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

// Errorf logs a formatted message at error level.
func (l *StdLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

type levelWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.logger.WithLevel(w.level).Msg(string(bytes.TrimRight(p, "\n")))

	return len(p), nil
}

// NewStd creates a standard library logger that forwards each line to the
// global zerolog logger at the given level, for dependencies that only
// accept a *log.Logger.
func NewStd(level zerolog.Level) *stdlog.Logger {
	return stdlog.New(levelWriter{logger: &log.Logger, level: level}, "", 0)
}
