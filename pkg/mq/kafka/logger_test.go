package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerKafkaLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	NewLoggerKafka(l, LOGGER_INFO).Printf("connected to %s\n", "broker-1")
	NewLoggerKafka(l, LOGGER_DEBUG).Println("fetch", 3)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "connected to broker-1", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "fetch 3", entries[1].Message)
}

func TestInitKafkaInstallsLoggers(t *testing.T) {
	initKafka()
	assert.IsType(t, &LoggerKafka{}, sarama.Logger)
	assert.IsType(t, &LoggerKafka{}, sarama.DebugLogger)
}

func TestForwardLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ch := make(chan kafka.LogEvent, 3)
	ch <- kafka.LogEvent{Name: "rdkafka", Tag: "FAIL", Message: "broker down", Level: 3}
	ch <- kafka.LogEvent{Name: "rdkafka", Tag: "REQTMOUT", Message: "timed out", Level: 4}
	ch <- kafka.LogEvent{Name: "rdkafka", Tag: "CONNECT", Message: "connecting", Level: 7}
	close(ch)

	forwardLogs(zap.New(core), ch)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Equal(t, "FAIL", entries[0].ContextMap()["tag"])
}
