package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level orders message severities from chattiest to most severe.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes printf-style messages to a single stream, dropping
// anything below its threshold. Commands print their results on
// stdout; the logger carries progress and diagnostics on stderr.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
	min Level
}

// New returns a logger that writes messages at or above min to out.
func New(out io.Writer, min Level) *Logger {
	return &Logger{out: out, min: min}
}

// SetVerbose lowers the threshold so debug messages show up.
func (l *Logger) SetVerbose(on bool) {
	if on {
		l.setMin(LevelDebug)
	}
}

// SetQuiet raises the threshold so only errors show up.
func (l *Logger) SetQuiet(on bool) {
	if on {
		l.setMin(LevelError)
	}
}

func (l *Logger) setMin(min Level) {
	l.mu.Lock()
	l.min = min
	l.mu.Unlock()
}

func (l *Logger) printf(lvl Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lvl < l.min {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}

func (l *Logger) Debug(format string, args ...interface{}) { l.printf(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.printf(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.printf(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.printf(LevelError, format, args...) }

// std backs the package-level functions every command logs through.
var std = New(os.Stderr, LevelInfo)

func Debug(format string, args ...interface{}) { std.Debug(format, args...) }
func Info(format string, args ...interface{})  { std.Info(format, args...) }
func Warn(format string, args ...interface{})  { std.Warn(format, args...) }
func Error(format string, args ...interface{}) { std.Error(format, args...) }
func SetVerbose(on bool)                       { std.SetVerbose(on) }
func SetQuiet(on bool)                         { std.SetQuiet(on) }
