package publisher

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/internal/model"
)

// MessageProducer kafka 生产者
type MessageProducer interface {
	SendMessageWithKey(topic string, key string, value []byte) error
}

// KafkaPublisher 以合约地址为 key 写入报告 JSON
type KafkaPublisher struct {
	producer MessageProducer
	topic    string
}

func NewKafkaPublisher(producer MessageProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) GetType() string {
	return "kafka"
}

func (p *KafkaPublisher) Publish(_ context.Context, report *model.RiskReport) error {
	value, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "marshal risk report")
	}
	if err = p.producer.SendMessageWithKey(p.topic, report.Contract, value); err != nil {
		return errors.Wrapf(err, "produce to %s", p.topic)
	}
	return nil
}

// Close 生产者由 app 统一 flush 关闭
func (p *KafkaPublisher) Close() error {
	return nil
}
