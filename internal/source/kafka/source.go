package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ninja0404/token-risk/pkg/logger"
	"github.com/ninja0404/token-risk/pkg/mq/kafka"
)

// Source Kafka 分析请求数据源
type Source struct {
	addrChan     chan string
	errChan      chan error
	ctx          context.Context
	cancel       context.CancelFunc
	config       SourceConfig
	consumerName string
}

// SourceConfig Kafka数据源配置
type SourceConfig struct {
	Topic       string
	Brokers     []string
	KafkaConfig kafka.KafkaConsumerConfig
}

// analysisRequest 请求消息体
type analysisRequest struct {
	Contract string `json:"contract"`
}

// NewSource 创建Kafka数据源
func NewSource(config SourceConfig) *Source {
	ctx, cancel := context.WithCancel(context.Background())

	return &Source{
		addrChan:     make(chan string, 1000),
		errChan:      make(chan error, 100),
		ctx:          ctx,
		cancel:       cancel,
		config:       config,
		consumerName: fmt.Sprintf("token-risk-%s", config.KafkaConfig.GroupId),
	}
}

// Start 启动Kafka数据源
func (s *Source) Start(ctx context.Context) error {
	kafkaConfig := s.config.KafkaConfig
	kafkaConfig.Topics = []string{s.config.Topic}

	consumer, err := kafka.SetupNamedKafkaConsumer(s.consumerName, s.config.Brokers, kafkaConfig)
	if err != nil {
		return errors.Wrap(err, "设置Kafka消费者失败")
	}
	if err = consumer.RegisterTopicHandler(s.config.Topic, s.handleMessage); err != nil {
		return errors.Wrap(err, "注册消息处理器失败")
	}
	if err = consumer.Start(); err != nil {
		return errors.Wrap(err, "启动Kafka消费者失败")
	}

	logger.Info("✅ Kafka数据源已启动",
		logger.String("topic", s.config.Topic),
		logger.String("group_id", s.config.KafkaConfig.GroupId),
		logger.String("consumer_name", s.consumerName))
	return nil
}

// Stop 停止Kafka数据源
func (s *Source) Stop() error {
	logger.Info("🛑 停止Kafka数据源")
	s.cancel()
	return kafka.CloseNamedConsumer(s.consumerName)
}

func (s *Source) Subscribe() <-chan string {
	return s.addrChan
}

func (s *Source) Errors() <-chan error {
	return s.errChan
}

// handleMessage 解析请求并投递地址，无法解析的消息记录后跳过
func (s *Source) handleMessage(ctx context.Context, msg *kafka.Message) error {
	address, ok := ParseRequest(msg.Value)
	if !ok {
		err := errors.Errorf("无法解析分析请求: %q", truncate(msg.Value, 128))
		select {
		case s.errChan <- err:
		default:
		}
		return nil
	}

	select {
	case s.addrChan <- address:
		logger.Debug("📨 收到分析请求", logger.FieldContract(address), logger.String("topic", msg.Topic))
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParseRequest 消息体可以是 {"contract": "..."} 或者裸地址
func ParseRequest(value []byte) (string, bool) {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		return "", false
	}

	if strings.HasPrefix(raw, "{") {
		var req analysisRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return "", false
		}
		address := strings.TrimSpace(req.Contract)
		return address, address != ""
	}

	// 带引号的 JSON 字符串
	if strings.HasPrefix(raw, `"`) {
		var address string
		if err := json.Unmarshal([]byte(raw), &address); err != nil {
			return "", false
		}
		address = strings.TrimSpace(address)
		return address, address != ""
	}

	if strings.ContainsAny(raw, " \t\r\n") {
		return "", false
	}
	return raw, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// String 数据源名称
func (s *Source) String() string {
	return fmt.Sprintf("kafka(%s)", s.config.Topic)
}
