package kafka

import (
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/ninja0404/token-risk/pkg/logger"
)

var _ sarama.StdLogger = (*LoggerKafka)(nil)

const (
	LOGGER_DEBUG = iota + 1
	LOGGER_INFO
)

// LoggerKafka 实现 sarama.StdLogger，把 kafka 客户端日志打到 zap
type LoggerKafka struct {
	l     *logger.Logger
	level int
}

func NewLoggerKafka(l *logger.Logger, level int) *LoggerKafka {
	return &LoggerKafka{l: l, level: level}
}

func (l *LoggerKafka) write(msg string) {
	msg = strings.TrimRight(msg, "\n")
	if l.level == LOGGER_DEBUG {
		l.l.Debug(msg)
	} else {
		l.l.Info(msg)
	}
}

func (l *LoggerKafka) Print(v ...interface{}) {
	l.write(fmt.Sprint(v...))
}

func (l *LoggerKafka) Printf(format string, v ...interface{}) {
	l.write(fmt.Sprintf(format, v...))
}

func (l *LoggerKafka) Println(v ...interface{}) {
	l.write(fmt.Sprintln(v...))
}

// forwardLogs 转发 librdkafka 日志，syslog 级别 0-3 记为 error，4 记为 warn
func forwardLogs(l *logger.Logger, logs chan kafka.LogEvent) {
	if logs == nil {
		return
	}
	for ev := range logs {
		fields := []logger.Field{
			logger.String("name", ev.Name),
			logger.String("tag", ev.Tag),
		}
		switch {
		case ev.Level <= 3:
			l.Error(ev.Message, fields...)
		case ev.Level == 4:
			l.Warn(ev.Message, fields...)
		default:
			l.Debug(ev.Message, fields...)
		}
	}
}
