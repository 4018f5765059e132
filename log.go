package fat16

import (
	log "github.com/dsoprea/go-logging"
)

// Logger is a thin, optional tracer. A nil *Logger is a valid, silent
// no-op; Volume and BlockDevice never require one.
type Logger struct {
	inner *log.Logger
}

// NewLogger wraps a named go-logging logger for attaching to a Volume or
// BlockDevice via WithLogger. It never substitutes for an error return:
// callers still get a typed error back from every operation regardless
// of whether a Logger is attached.
func NewLogger(name string) *Logger {
	return &Logger{inner: log.NewLogger(name)}
}

func (l *Logger) debugf(format string, args ...interface{}) {
	if l == nil || l.inner == nil {
		return
	}
	l.inner.Debugf(nil, format, args...)
}
