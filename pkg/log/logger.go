// Package log is the small leveled logger shared by the collector's
// long-lived goroutines (receiver, writer, metrics server).
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the leveled logging surface every collector component takes as
// a dependency, so tests can substitute a discarding logger without
// touching call sites.
type Logger interface {
	// Error logs an error message
	Error(args ...interface{})

	// Errorf logs a formatted error message
	Errorf(format string, args ...interface{})

	// Warn logs a warning message
	Warn(args ...interface{})

	// Warnf logs a formatted warning message
	Warnf(format string, args ...interface{})

	// Info logs an informational message
	Info(args ...interface{})

	// Infof logs a formatted informational message
	Infof(format string, args ...interface{})

	// Debug logs a debug message
	Debug(args ...interface{})

	// Debugf logs a formatted debug message
	Debugf(format string, args ...interface{})
}

// defaultLogger implements Logger using Go's standard log package.
type defaultLogger struct {
	errorLogger *log.Logger
	warnLogger  *log.Logger
	infoLogger  *log.Logger
	debugLogger *log.Logger
}

// New creates a Logger writing INFO/DEBUG to out and WARN/ERROR to errOut.
func New(out, errOut io.Writer) Logger {
	return &defaultLogger{
		errorLogger: log.New(errOut, "[ERROR] ", log.LstdFlags|log.Lshortfile),
		warnLogger:  log.New(errOut, "[WARN] ", log.LstdFlags|log.Lshortfile),
		infoLogger:  log.New(out, "[INFO] ", log.LstdFlags|log.Lshortfile),
		debugLogger: log.New(out, "[DEBUG] ", log.LstdFlags|log.Lshortfile),
	}
}

// NewDefault creates a Logger writing to stdout/stderr.
func NewDefault() Logger {
	return New(os.Stdout, os.Stderr)
}

// Error logs an error message
func (l *defaultLogger) Error(args ...interface{}) {
	_ = l.errorLogger.Output(3, fmt.Sprint(args...))
}

// Errorf logs a formatted error message
func (l *defaultLogger) Errorf(format string, args ...interface{}) {
	_ = l.errorLogger.Output(3, fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *defaultLogger) Warn(args ...interface{}) {
	_ = l.warnLogger.Output(3, fmt.Sprint(args...))
}

// Warnf logs a formatted warning message
func (l *defaultLogger) Warnf(format string, args ...interface{}) {
	_ = l.warnLogger.Output(3, fmt.Sprintf(format, args...))
}

// Info logs an informational message
func (l *defaultLogger) Info(args ...interface{}) {
	_ = l.infoLogger.Output(3, fmt.Sprint(args...))
}

// Infof logs a formatted informational message
func (l *defaultLogger) Infof(format string, args ...interface{}) {
	_ = l.infoLogger.Output(3, fmt.Sprintf(format, args...))
}

// Debug logs a debug message
func (l *defaultLogger) Debug(args ...interface{}) {
	_ = l.debugLogger.Output(3, fmt.Sprint(args...))
}

// Debugf logs a formatted debug message
func (l *defaultLogger) Debugf(format string, args ...interface{}) {
	_ = l.debugLogger.Output(3, fmt.Sprintf(format, args...))
}
