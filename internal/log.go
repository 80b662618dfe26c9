package internal

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// ParseLogLevel maps LOG_LEVEL names onto levels, defaulting to info
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}

// Logger provides leveled printf-style logging on top of zap
type Logger struct {
	level LogLevel
	zl    *zap.Logger
	sugar *zap.SugaredLogger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.DisableStacktrace = level < LogLevelDebug

	zl, err := cfg.Build()
	if err != nil {
		zl = zap.NewExample()
	}
	return &Logger{level: level, zl: zl, sugar: zl.Sugar()}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	return NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

// NewNopLogger discards everything; used by tests
func NewNopLogger() *Logger {
	zl := zap.NewNop()
	return &Logger{level: LogLevelError, zl: zl, sugar: zl.Sugar()}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Trace logs trace messages. zap has no trace level, so these go out at
// debug level and only when LOG_LEVEL=TRACE.
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		l.sugar.Debugf("[TRACE] "+format, args...)
	}
}

// With returns a child logger carrying structured fields
func (l *Logger) With(fields ...zap.Field) *Logger {
	zl := l.zl.With(fields...)
	return &Logger{level: l.level, zl: zl, sugar: zl.Sugar()}
}

// Zap exposes the underlying zap logger for libraries that take one
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
