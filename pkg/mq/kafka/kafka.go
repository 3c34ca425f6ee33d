package kafka

import (
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"github.com/ninja0404/token-risk/pkg/logger"
)

var (
	defaultProducer *KafkaProducer

	consumers     = make(map[string]*KafkaConsumer)
	consumerMutex sync.RWMutex

	startOnce sync.Once
)

func initKafka() {
	startOnce.Do(func() {
		sarama.Logger = NewLoggerKafka(logger.DefaultL1().Named("kafka-core"), LOGGER_INFO)
		sarama.DebugLogger = NewLoggerKafka(logger.DefaultL1().Named("kafka-core-debug"), LOGGER_DEBUG)
	})
}

func SetupKafkaProducer(brokers []string, cfg KafkaProducerConfig) (*KafkaProducer, error) {
	initKafka()
	producer, err := NewKafkaProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	defaultProducer = producer
	return producer, nil
}

func DefaultProducer() *KafkaProducer {
	return defaultProducer
}

func CloseProducer() error {
	if defaultProducer == nil {
		return nil
	}
	return defaultProducer.Close()
}

// SetupNamedKafkaConsumer 注册命名消费者
func SetupNamedKafkaConsumer(name string, brokers []string, cfg KafkaConsumerConfig) (*KafkaConsumer, error) {
	initKafka()
	instance, err := NewKafkaConsumer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	consumerMutex.Lock()
	consumers[name] = instance
	consumerMutex.Unlock()

	return instance, nil
}

func GetNamedConsumer(name string) *KafkaConsumer {
	consumerMutex.RLock()
	defer consumerMutex.RUnlock()
	return consumers[name]
}

func CloseNamedConsumer(name string) error {
	consumerMutex.Lock()
	consumer := consumers[name]
	delete(consumers, name)
	consumerMutex.Unlock()

	if consumer == nil {
		logger.Error("命名消费者不存在", logger.String("consumer", name))
		return fmt.Errorf("命名消费者不存在: %s", name)
	}
	return consumer.Close()
}
