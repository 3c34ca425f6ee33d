package polardbx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	gormUtils "gorm.io/gorm/utils"

	"github.com/ninja0404/token-risk/pkg/logger"
)

var _ gormLogger.Interface = (*MysqlLogger)(nil)

const slowThreshold = time.Second

// MysqlLogger 将 gorm 日志转发到 zap
type MysqlLogger struct {
	logger *logger.Logger
	level  gormLogger.LogLevel
}

func NewMysqlLogger(l *logger.Logger, level gormLogger.LogLevel) *MysqlLogger {
	return &MysqlLogger{logger: l, level: level}
}

func (l *MysqlLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	newLogger := *l
	newLogger.level = level
	return &newLogger
}

func (l *MysqlLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Info {
		l.logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *MysqlLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *MysqlLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormLogger.Error {
		l.logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *MysqlLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	fields := func() []logger.Field {
		sql, rows := fc()
		return []logger.Field{
			logger.String("file", gormUtils.FileWithLineNum()),
			logger.String("sql", sql),
			logger.Int64("rows", rows),
			logger.FieldCost(elapsed),
		}
	}

	switch {
	case err != nil && l.level >= gormLogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.Error("sql error", append(fields(), logger.FieldErr(err))...)
	case elapsed > slowThreshold && l.level >= gormLogger.Warn:
		l.logger.Warn("🐢 slow sql", fields()...)
	case l.level == gormLogger.Info:
		l.logger.Info("sql", fields()...)
	}
}

func mappingLoggerLevel(level string, openDebug bool) gormLogger.LogLevel {
	if openDebug {
		return gormLogger.Info
	}
	switch level {
	case "debug", "DEBUG", "info", "INFO", "warn", "WARN", "":
		return gormLogger.Warn
	case "error", "ERROR", "dpanic", "DPANIC", "panic", "PANIC", "fatal", "FATAL":
		return gormLogger.Error
	default:
		return gormLogger.Silent
	}
}
