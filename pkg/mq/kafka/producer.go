package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/ninja0404/token-risk/pkg/logger"
)

type KafkaProducer struct {
	producer   *kafka.Producer
	eventsDone chan struct{}
}

func NewKafkaProducer(brokers []string, cfg KafkaProducerConfig) (*KafkaProducer, error) {
	conf, err := newProducerConfig(brokers, cfg)
	if err != nil {
		return nil, err
	}
	producer, err := kafka.NewProducer(conf)
	if err != nil {
		return nil, err
	}

	p := &KafkaProducer{
		producer:   producer,
		eventsDone: make(chan struct{}),
	}

	go forwardLogs(logger.DefaultL1().Named("kafka-producer"), producer.Logs())
	go p.handleEvents()

	return p, nil
}

// handleEvents 处理异步投递结果
func (p *KafkaProducer) handleEvents() {
	defer close(p.eventsDone)

	for event := range p.producer.Events() {
		switch ev := event.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logger.Error("❌ kafka 消息投递失败",
					logger.FieldErr(ev.TopicPartition.Error),
					logger.String("topic", topicOf(ev)),
					logger.ByteString("key", ev.Key),
				)
			}
		case kafka.Error:
			logger.Error("❌ kafka 生产者错误",
				logger.String("code", ev.Code().String()),
				logger.String("message", ev.Error()),
			)
		default:
			logger.Debug("kafka_event", logger.String("event", fmt.Sprintf("%T", ev)))
		}
	}
	logger.Info("kafka events done")
}

func (p *KafkaProducer) SendMessage(topic string, value []byte) error {
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
}

// SendMessageWithKey 同一个 key 落在同一分区，保证同一合约的报告有序
func (p *KafkaProducer) SendMessageWithKey(topic string, key string, value []byte) error {
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
	}, nil)
}

func (p *KafkaProducer) Close() error {
	logger.Info("closing producer...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		remaining := p.producer.Flush(5 * 1000)
		p.producer.Close()
		<-p.eventsDone
		if remaining > 0 {
			done <- fmt.Errorf("flush incomplete: %d messages remaining", remaining)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close failed: %w", err)
		}
		logger.Info("producer closed successfully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("close timeout after 10s")
	}
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}
