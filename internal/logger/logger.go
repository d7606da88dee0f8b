// Package logger wraps zap with printf-style helpers.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu          sync.RWMutex
	base        = zap.NewNop()
	serviceName = "signals-pro"
)

// Init builds the process logger. Until it is called every helper is a no-op.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Set(l)
	return nil
}

// Set replaces the process logger (tests use zaptest/observer loggers here).
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

// SetServiceName changes the service field on every entry and returns the old name.
func SetServiceName(newName string) string {
	mu.Lock()
	defer mu.Unlock()
	old := serviceName
	serviceName = newName
	return old
}

// L returns the underlying logger with the service field attached.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With(zap.String("service", serviceName))
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

// Debug logs a printf-style message at debug level.
func Debug(format string, args ...interface{}) {
	L().Debug(fmt.Sprintf(format, args...))
}

// Info logs a printf-style message at info level.
func Info(format string, args ...interface{}) {
	L().Info(fmt.Sprintf(format, args...))
}

// Warn logs a printf-style message at warn level.
func Warn(format string, args ...interface{}) {
	L().Warn(fmt.Sprintf(format, args...))
}

// Error logs a printf-style message at error level.
func Error(format string, args ...interface{}) {
	L().Error(fmt.Sprintf(format, args...))
}

// Fatal logs at fatal level and exits the process.
func Fatal(format string, args ...interface{}) {
	L().Fatal(fmt.Sprintf(format, args...))
}
