package logger

import "context"

type activeLogKey struct{}

// ContextWithLog 将请求级 logger 放入 context
func ContextWithLog(ctx context.Context, l *Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, activeLogKey{}, l)
}

// LogFromContext 取出请求级 logger，没有则返回默认 logger
func LogFromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return defaultLogger
	}
	if l, ok := ctx.Value(activeLogKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}
