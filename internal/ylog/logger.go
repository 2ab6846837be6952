// Package ylog adapts logrus to ymodem.Logger.
package ylog

import (
	"github.com/sirupsen/logrus"
)

// Logger implements ymodem.Logger over a logrus.FieldLogger, tagging every
// line with component=ymodem so a mixed log stream stays greppable.
type Logger struct {
	entry *logrus.Entry
}

// New wraps logger (nil means logrus.StandardLogger()) as a ymodem.Logger.
func New(logger *logrus.Logger) *Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Logger{entry: logger.WithField("component", "ymodem")}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// WithField returns a derived Logger carrying an extra field, for tagging
// a specific transfer (e.g. filename) across its whole lifetime.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}
