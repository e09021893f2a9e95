package forwardplus

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is the logging surface shared by the renderer, the pipeline and the tools.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders log severities. Messages below a logger's threshold are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// DefaultLogger writes debug and info to one sink and warnings and errors to another.
type DefaultLogger struct {
	mu        sync.Mutex
	threshold Level
	prefix    string
	out       *log.Logger
	err       *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return newLogger(prefix, debug, log.New(os.Stdout, "", flags), log.New(os.Stderr, "", flags))
}

// NewWriterLogger logs every level to one logger.
func NewWriterLogger(prefix string, debug bool, out *log.Logger) *DefaultLogger {
	return newLogger(prefix, debug, out, out)
}

func newLogger(prefix string, debug bool, out, err *log.Logger) *DefaultLogger {
	l := &DefaultLogger{prefix: prefix, out: out, err: err}
	l.SetDebug(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.Enabled(LevelDebug)
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.SetLevel(LevelDebug)
	} else {
		l.SetLevel(LevelInfo)
	}
}

// SetLevel drops every message below lvl.
func (l *DefaultLogger) SetLevel(lvl Level) {
	l.mu.Lock()
	l.threshold = lvl
	l.mu.Unlock()
}

func (l *DefaultLogger) Enabled(lvl Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lvl >= l.threshold
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *DefaultLogger) logf(lvl Level, format string, args ...any) {
	if !l.Enabled(lvl) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s: %s", l.prefix, lvl, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", lvl, msg)
	}

	sink := l.out
	if lvl >= LevelWarn {
		sink = l.err
	}
	sink.Print(msg)
}

type nopLogger struct{}

func NewNopLogger() Logger                          { return nopLogger{} }
func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

func orNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
