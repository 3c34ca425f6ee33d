package kafka

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/ninja0404/token-risk/pkg/logger"
)

// Message 交给业务处理的消息
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

type MessageHandler func(ctx context.Context, msg *Message) error

type KafkaConsumer struct {
	consumer *kafka.Consumer
	cfg      KafkaConsumerConfig

	handlers map[string]MessageHandler

	loopDone   chan struct{}
	logsDone   chan struct{}
	cancelCtx  context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	started    atomic.Bool
}

func NewKafkaConsumer(brokers []string, cfg KafkaConsumerConfig) (*KafkaConsumer, error) {
	cfg = cfg.withDefaults()
	conf, err := newConsumerConfig(brokers, cfg)
	if err != nil {
		return nil, err
	}
	consumer, err := kafka.NewConsumer(conf)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaConsumer{
		consumer:   consumer,
		cfg:        cfg,
		handlers:   make(map[string]MessageHandler),
		loopDone:   make(chan struct{}),
		logsDone:   make(chan struct{}),
		cancelCtx:  ctx,
		cancelFunc: cancel,
	}, nil
}

// RegisterTopicHandler 必须在 Start 之前调用
func (kc *KafkaConsumer) RegisterTopicHandler(topic string, h MessageHandler) error {
	for _, t := range kc.cfg.Topics {
		if t == topic {
			kc.handlers[topic] = h
			return nil
		}
	}
	return errors.New("topic not in consumer list")
}

func (kc *KafkaConsumer) Start() error {
	if err := kc.consumer.SubscribeTopics(kc.cfg.Topics, nil); err != nil {
		return err
	}
	kc.started.Store(true)

	go func() {
		defer close(kc.logsDone)
		forwardLogs(logger.DefaultL1().Named("kafka-consumer"), kc.consumer.Logs())
	}()
	go func() {
		defer close(kc.loopDone)
		kc.loop()
	}()

	logger.Info("🚀 kafka consumer started",
		logger.Strings("topics", kc.cfg.Topics),
		logger.String("group_id", kc.cfg.GroupId))
	return nil
}

func (kc *KafkaConsumer) loop() {
	timeout := time.Duration(kc.cfg.ReadTimeoutMs) * time.Millisecond
	for {
		select {
		case <-kc.cancelCtx.Done():
			return
		default:
		}

		msg, err := kc.consumer.ReadMessage(timeout)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
				continue
			}
			logger.Error("kafka consumer read message error", logger.FieldErr(err))
			continue
		}

		topic := topicOf(msg)
		h, ok := kc.handlers[topic]
		if !ok {
			logger.Warn("kafka consumer no handler for topic", logger.String("topic", topic))
			continue
		}

		kc.handleWithRetry(h, msg)

		if _, cErr := kc.consumer.CommitMessage(msg); cErr != nil {
			logger.Error("commit offset err", logger.FieldErr(cErr))
		}
	}
}

// handleWithRetry 失败时重试，超过 MaxRetries 后放弃这条消息
func (kc *KafkaConsumer) handleWithRetry(h MessageHandler, msg *kafka.Message) {
	m := &Message{Topic: topicOf(msg), Key: msg.Key, Value: msg.Value}
	for attempt := 1; attempt <= kc.cfg.MaxRetries; attempt++ {
		err := kc.safeHandle(h, m)
		if err == nil {
			return
		}
		logger.Error("kafka message handler error",
			logger.FieldErr(err),
			logger.String("topic", m.Topic),
			logger.String("offset", msg.TopicPartition.Offset.String()),
			logger.Int("attempt", attempt))

		select {
		case <-kc.cancelCtx.Done():
			return
		case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
		}
	}
	logger.Warn("⚠️ kafka 消息重试次数耗尽，跳过",
		logger.String("topic", m.Topic),
		logger.String("offset", msg.TopicPartition.Offset.String()))
}

func (kc *KafkaConsumer) safeHandle(h MessageHandler, m *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovery from kafka message handler",
				logger.String("topic", m.Topic),
				logger.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("panic in message handler: %v", r)
		}
	}()
	return h(kc.cancelCtx, m)
}

// Close 先停读循环再关闭底层消费者，未 Start 时直接关闭
func (kc *KafkaConsumer) Close() error {
	var err error
	kc.closeOnce.Do(func() {
		kc.cancelFunc()
		started := kc.started.Load()
		if started {
			<-kc.loopDone
		}
		if cErr := kc.consumer.Close(); cErr != nil {
			err = fmt.Errorf("close consumer error: %w", cErr)
		}
		if started {
			<-kc.logsDone
		}
		logger.Info("consumer closed successfully")
	})
	return err
}
