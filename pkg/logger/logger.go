package logger

import (
	"fmt"
	"log"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

func (l Level) tag() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger is the leveled printf logger carried through request contexts.
type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level Level
}

// NewLogger returns a logger that drops everything below the given level.
// SILENCE drops all output.
func NewLogger(level Level) *defaultLogger {
	return &defaultLogger{level: level}
}

func (l *defaultLogger) logf(level Level, msg string, a ...any) {
	if level < l.level {
		return
	}

	log.Printf("[%s] %s", level.tag(), fmt.Sprintf(msg, a...))
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.logf(DEBUG, msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.logf(INFO, msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.logf(WARNING, msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.logf(ERROR, msg, a...)
}
