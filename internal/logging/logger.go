package logging

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/fatih/color"
)

// globalLevel is the process-wide logging level. It is set once via
// SetLevel, typically from the CLI's flag parsing or from an environment
// variable, and read atomically thereafter so that loggers created on
// background goroutines (the watcher, in-flight loads) observe updates.
var globalLevel atomic.Uint32

func init() {
	globalLevel.Store(uint32(LevelInfo))
}

// SetLevel sets the process-wide logging level.
func SetLevel(level Level) {
	globalLevel.Store(uint32(level))
}

// CurrentLevel returns the process-wide logging level.
func CurrentLevel() Level {
	return Level(globalLevel.Load())
}

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything. It is designed to use the
// standard logger provided by the log package, so it respects any flags set
// for that logger. It is safe for concurrent usage.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
}

// RootLogger is the root logger from which all other loggers derive.
var RootLogger = &Logger{}

// Sublogger creates a new sublogger with the specified name. Sublogger
// chains are used to namespace log output by component and, for the
// reload controller, by reload cycle correlation ID.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{prefix: prefix}
}

func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// Error logs at LevelError or above.
func (l *Logger) Error(v ...any) {
	if l != nil && CurrentLevel() >= LevelError {
		l.output(3, color.RedString("error: %s", fmt.Sprint(v...)))
	}
}

// Errorf logs a formatted message at LevelError or above.
func (l *Logger) Errorf(format string, v ...any) {
	if l != nil && CurrentLevel() >= LevelError {
		l.output(3, color.RedString("error: "+format, v...))
	}
}

// Warn logs an error with warning severity at LevelWarn or above.
func (l *Logger) Warn(err error) {
	if l != nil && CurrentLevel() >= LevelWarn {
		l.output(3, color.YellowString("warning: %v", err))
	}
}

// Warnf logs a formatted message at LevelWarn or above.
func (l *Logger) Warnf(format string, v ...any) {
	if l != nil && CurrentLevel() >= LevelWarn {
		l.output(3, color.YellowString("warning: "+format, v...))
	}
}

// Info logs at LevelInfo or above.
func (l *Logger) Info(v ...any) {
	if l != nil && CurrentLevel() >= LevelInfo {
		l.output(3, fmt.Sprint(v...))
	}
}

// Infof logs a formatted message at LevelInfo or above.
func (l *Logger) Infof(format string, v ...any) {
	if l != nil && CurrentLevel() >= LevelInfo {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Debug logs at LevelDebug or above.
func (l *Logger) Debug(v ...any) {
	if l != nil && CurrentLevel() >= LevelDebug {
		l.output(3, fmt.Sprint(v...))
	}
}

// Debugf logs a formatted message at LevelDebug or above.
func (l *Logger) Debugf(format string, v ...any) {
	if l != nil && CurrentLevel() >= LevelDebug {
		l.output(3, fmt.Sprintf(format, v...))
	}
}
