package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/killallgit/agentchat/pkg/config"
	"github.com/sirupsen/logrus"
)

// Logger provides a unified logging interface over a file-backed logrus logger
type Logger struct {
	base *logrus.Logger
	file *os.File
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
	discard       = newDiscard()
)

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init initializes the logger with configuration from global config
func Init() error {
	mu.RLock()
	ready := defaultLogger != nil
	mu.RUnlock()
	if ready {
		return nil
	}

	settings := config.Get()
	l, err := New(settings.Logging.Level, settings.Logging.LogFile, settings.Logging.Preserve)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return nil
}

// New creates a new Logger writing to logFile. When persist is false the
// file is truncated.
func New(level, logFile string, persist bool) (*Logger, error) {
	logPath := config.ResolvePath(logFile)

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if persist {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	base := logrus.New()
	base.SetOutput(file)
	base.SetLevel(parseLevel(level))
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	return &Logger{base: base, file: file}, nil
}

// NewWithWriter creates a Logger that writes to w instead of a file
func NewWithWriter(level string, w io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(parseLevel(level))
	base.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	return &Logger{base: base}
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// parseLevel converts a string level to a logrus level, defaulting to info
func parseLevel(levelStr string) logrus.Level {
	if levelStr == "warning" {
		levelStr = "warn"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func (l *Logger) Debug(format string, args ...interface{}) { l.base.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.base.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.base.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.base.Errorf(format, args...) }

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.base.Fatalf(format, args...)
}

// SetDefault installs l as the package-level logger and returns the previous one
func SetDefault(l *Logger) *Logger {
	mu.Lock()
	defer mu.Unlock()
	prev := defaultLogger
	defaultLogger = l
	return prev
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if defaultLogger == nil {
		return discard
	}
	return defaultLogger.base
}

// Package-level convenience functions using the default logger

func Debug(format string, args ...interface{}) { current().Debugf(format, args...) }
func Info(format string, args ...interface{})  { current().Infof(format, args...) }
func Warn(format string, args ...interface{})  { current().Warnf(format, args...) }
func Error(format string, args ...interface{}) { current().Errorf(format, args...) }

// Fatal logs a fatal message and exits using the default logger
func Fatal(format string, args ...interface{}) {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		fmt.Fprintf(os.Stderr, "[FATAL] "+format+"\n", args...)
		os.Exit(1)
	}
	l.Fatal(format, args...)
}

// SetOutput sets the output writer for the logger (useful for testing)
func SetOutput(w io.Writer) {
	mu.RLock()
	defer mu.RUnlock()
	if defaultLogger != nil {
		defaultLogger.base.SetOutput(w)
	}
}

// Close closes the default logger and the chat history file
func Close() error {
	herr := closeHistory()

	mu.Lock()
	l := defaultLogger
	defaultLogger = nil
	mu.Unlock()

	if l != nil {
		if err := l.Close(); err != nil {
			return err
		}
	}
	return herr
}
