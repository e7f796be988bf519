package viewcache

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the logging surface used by the caches.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

// Level filters the messages a StdLogger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelSilent
)

// StdLogger writes through the standard library logger.
type StdLogger struct {
	level Level
	out   *log.Logger
}

// NewStdLogger creates a logger writing messages at or above level to w.
func NewStdLogger(w io.Writer, level Level) *StdLogger {
	return &StdLogger{level: level, out: log.New(w, "[viewcache] ", log.LstdFlags)}
}

// SetLevel changes the minimum level written.
func (l *StdLogger) SetLevel(level Level) {
	l.level = level
}

func (l *StdLogger) Debugf(format string, v ...any) { l.printf(LevelDebug, "DEBUG", format, v...) }
func (l *StdLogger) Infof(format string, v ...any)  { l.printf(LevelInfo, "INFO", format, v...) }
func (l *StdLogger) Errorf(format string, v ...any) { l.printf(LevelError, "ERROR", format, v...) }

func (l *StdLogger) printf(level Level, tag, format string, v ...any) {
	if level < l.level {
		return
	}
	l.out.Output(3, tag+" "+fmt.Sprintf(format, v...))
}

// NopLogger drops every message.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// DefaultLogger is used by caches created without WithLogger.
var DefaultLogger Logger = NewStdLogger(os.Stderr, LevelError)
