package logger

import (
	"fmt"
	"math"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

// SentryCore 将达到等级的日志同步上报到 sentry
type SentryCore struct {
	level        zapcore.Level
	fields       []zapcore.Field
	flushTimeout time.Duration
}

func NewSentryCore(level zapcore.Level) zapcore.Core {
	return &SentryCore{
		level:        level,
		flushTimeout: 5 * time.Second,
		fields:       make([]zapcore.Field, 0),
	}
}

func (c *SentryCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

func (c *SentryCore) With(f []zapcore.Field) zapcore.Core {
	clone := c.clone()
	clone.fields = append(clone.fields, f...)
	return clone
}

func (c *SentryCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *SentryCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)

	sentry.WithScope(func(scope *sentry.Scope) {
		if len(all) > 0 {
			scope.SetExtras(fieldToSentryMeta(all))
		}
		scope.SetLevel(sentryLevel(ent.Level))
		if ent.LoggerName != "" {
			scope.SetTag("logger", ent.LoggerName)
		}
		sentry.CaptureMessage(ent.Message)
	})

	if ent.Level > zapcore.ErrorLevel {
		return c.Sync()
	}
	return nil
}

func (c *SentryCore) Sync() error {
	sentry.Flush(c.flushTimeout)
	return nil
}

func (c *SentryCore) clone() *SentryCore {
	fields := make([]zapcore.Field, 0, len(c.fields))
	fields = append(fields, c.fields...)
	return &SentryCore{
		level:        c.level,
		fields:       fields,
		flushTimeout: c.flushTimeout,
	}
}

func fieldToSentryMeta(fields []zapcore.Field) map[string]interface{} {
	meta := make(map[string]interface{}, len(fields))

	for _, f := range fields {
		switch f.Type {
		case zapcore.BoolType:
			meta[f.Key] = f.Integer == 1
		case zapcore.ByteStringType:
			meta[f.Key] = string(f.Interface.([]byte))
		case zapcore.DurationType:
			meta[f.Key] = time.Duration(f.Integer).String()
		case zapcore.Float64Type:
			meta[f.Key] = math.Float64frombits(uint64(f.Integer))
		case zapcore.Float32Type:
			meta[f.Key] = math.Float32frombits(uint32(f.Integer))
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
			meta[f.Key] = f.Integer
		case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
			meta[f.Key] = uint64(f.Integer)
		case zapcore.StringType:
			meta[f.Key] = f.String
		case zapcore.TimeType:
			if loc, ok := f.Interface.(*time.Location); ok && loc != nil {
				meta[f.Key] = time.Unix(0, f.Integer).In(loc)
			} else {
				meta[f.Key] = time.Unix(0, f.Integer)
			}
		case zapcore.TimeFullType:
			meta[f.Key] = f.Interface.(time.Time)
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok && err != nil {
				meta[f.Key] = err.Error()
			}
		case zapcore.ReflectType, zapcore.ArrayMarshalerType, zapcore.ObjectMarshalerType:
			meta[f.Key] = f.Interface
		case zapcore.NamespaceType, zapcore.SkipType, zapcore.StringerType:
			continue
		default:
			meta[f.Key] = fmt.Sprintf("unknown field type: %v", f)
		}
	}

	return meta
}

func sentryLevel(lvl zapcore.Level) sentry.Level {
	switch lvl {
	case zapcore.DebugLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	default:
		return sentry.LevelFatal
	}
}
