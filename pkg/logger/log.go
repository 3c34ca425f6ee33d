package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	Field  = zap.Field
	Logger = zap.Logger
	Option = zap.Option
)

var (
	String     = zap.String
	Strings    = zap.Strings
	Any        = zap.Any
	Int64      = zap.Int64
	Int        = zap.Int
	Int32      = zap.Int32
	Uint64     = zap.Uint64
	Bool       = zap.Bool
	Time       = zap.Time
	Duration   = zap.Duration
	Reflect    = zap.Reflect
	ByteString = zap.ByteString
	Float64    = zap.Float64
)

func newLogger(c *Config) *zap.Logger {
	zapOptions := make([]zap.Option, 0)
	zapOptions = append(zapOptions, zap.AddStacktrace(zap.DPanicLevel))
	if c.AddCaller {
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(c.CallerSkip))
	}

	var ws zapcore.WriteSyncer = os.Stdout
	if c.Discard {
		ws = zapcore.AddSync(io.Discard)
	} else if c.Output == "file" {
		ws = zapcore.AddSync(newRotate(c))
	}

	lv := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if err := lv.UnmarshalText([]byte(c.Level)); err != nil {
		panic(err)
	}

	if !c.DisableSentry && c.SentryDsn != "" {
		sentryLevel := zapcore.ErrorLevel
		if err := sentryLevel.UnmarshalText([]byte(c.SentryLevel)); err != nil {
			panic("sentry level not valid")
		}
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         c.SentryDsn,
			Environment: c.Environment,
		})
		if err != nil {
			panic(fmt.Sprintf("sentry init failed: %v", err))
		}
		sentryCore := NewSentryCore(sentryLevel)
		zapOptions = append(zapOptions, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, sentryCore)
		}))
	}

	encoderConfig := defaultZapConfig()
	var encoder zapcore.Encoder
	if c.Debug {
		// 调试模式下强制彩色输出
		color.NoColor = false
		encoderConfig.EncodeLevel = debugEncodeLevel
		encoder = zapcore.NewConsoleEncoder(*encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(*encoderConfig)
	}

	core := zapcore.NewCore(encoder, ws, lv)
	return zap.New(core, zapOptions...).Named(c.Name)
}

func defaultZapConfig() *zapcore.EncoderConfig {
	return &zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func debugEncodeLevel(lv zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	colorize := color.RedString
	switch lv {
	case zapcore.DebugLevel:
		colorize = color.BlueString
	case zapcore.InfoLevel:
		colorize = color.GreenString
	case zapcore.WarnLevel:
		colorize = color.YellowString
	}
	enc.AppendString(colorize(fmt.Sprintf("[%s]", lv.CapitalString())))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
}
