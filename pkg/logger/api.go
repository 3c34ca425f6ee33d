package logger

import "go.uber.org/zap"

var defaultLogger = zap.NewNop()
var defaultLoggerL1 = zap.NewNop()

func Default() *Logger {
	return defaultLogger
}

// DefaultL1 供基础组件(gorm、kafka)使用的日志实例
func DefaultL1() *Logger {
	return defaultLoggerL1
}

func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

func SetDefaultL1(logger *Logger) {
	if logger != nil {
		defaultLoggerL1 = logger
	}
}

func Debug(msg string, fields ...Field) {
	defaultLogger.Debug(msg, fields...)
}

// Info logs a message at InfoLevel. The message includes any fields passed
// at the log site, as well as any fields accumulated on the logger.
func Info(msg string, fields ...Field) {
	defaultLogger.Info(msg, fields...)
}

// Warn logs a message at WarnLevel. The message includes any fields passed
// at the log site, as well as any fields accumulated on the logger.
func Warn(msg string, fields ...Field) {
	defaultLogger.Warn(msg, fields...)
}

// Error logs a message at ErrorLevel. The message includes any fields passed
// at the log site, as well as any fields accumulated on the logger.
func Error(msg string, fields ...Field) {
	defaultLogger.Error(msg, fields...)
}

// Fatal logs a message at FatalLevel, then calls os.Exit(1).
func Fatal(msg string, fields ...Field) {
	defaultLogger.Fatal(msg, fields...)
}

// With creates a child logger and adds structured context to it.
func With(fields ...Field) *Logger {
	return defaultLogger.With(fields...)
}

// Named adds a new path segment to the logger's name.
func Named(s string) *Logger {
	return defaultLogger.Named(s)
}

func Level() string {
	return defaultLogger.Level().String()
}

func Close() {
	_ = defaultLogger.Sync()
	_ = defaultLoggerL1.Sync()
}
