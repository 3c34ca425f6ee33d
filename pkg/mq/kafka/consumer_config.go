package kafka

import (
	"strings"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

type KafkaConsumerConfig struct {
	Topics        []string `json:"topics" yaml:"topics"`
	GroupId       string   `json:"group_id" yaml:"group_id"`
	ClientID      string   `json:"client_id" yaml:"client_id"`
	OffsetInitial string   `json:"offset_initial" yaml:"offset_initial"`

	AutoCommitInterval int `json:"auto_commit_interval" yaml:"auto_commit_interval"`
	MaxPollInterval    int `json:"max_poll_interval" yaml:"max_poll_interval"`
	SessionTimeout     int `json:"session_timeout" yaml:"session_timeout"`
	HeartbeatInterval  int `json:"heartbeat_interval" yaml:"heartbeat_interval"`
	ReadTimeoutMs      int `json:"read_timeout_ms" yaml:"read_timeout_ms"`
	// MaxRetries 单条消息处理失败的最大重试次数，超过后提交位点跳过
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	SecurityConfig `json:",inline" yaml:",inline"`
}

func (c KafkaConsumerConfig) withDefaults() KafkaConsumerConfig {
	if c.ReadTimeoutMs <= 0 {
		c.ReadTimeoutMs = 1000
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return c
}

func newConsumerConfig(brokers []string, cfg KafkaConsumerConfig) (*kafka.ConfigMap, error) {
	conf := &kafka.ConfigMap{
		"api.version.request":      "true",
		"auto.offset.reset":        "latest",
		"enable.auto.commit":       false, // 处理成功后手动提交
		"enable.auto.offset.store": true,
		"auto.commit.interval.ms":  5000,
		"max.poll.interval.ms":     300000,
		"session.timeout.ms":       10000,
		"heartbeat.interval.ms":    3000,
		"go.logs.channel.enable":   true,
	}

	_ = conf.SetKey("group.id", cfg.GroupId)
	if cfg.ClientID != "" {
		_ = conf.SetKey("client.id", cfg.ClientID+"_"+getClientID())
	}
	if cfg.OffsetInitial != "" {
		_ = conf.SetKey("auto.offset.reset", cfg.OffsetInitial)
	}
	if cfg.AutoCommitInterval > 0 {
		_ = conf.SetKey("auto.commit.interval.ms", cfg.AutoCommitInterval)
	}
	if cfg.MaxPollInterval > 0 {
		_ = conf.SetKey("max.poll.interval.ms", cfg.MaxPollInterval)
	}
	if cfg.SessionTimeout > 0 {
		_ = conf.SetKey("session.timeout.ms", cfg.SessionTimeout)
	}
	if cfg.HeartbeatInterval > 0 {
		_ = conf.SetKey("heartbeat.interval.ms", cfg.HeartbeatInterval)
	}
	_ = conf.SetKey("bootstrap.servers", strings.Join(brokers, ","))

	if err := cfg.SecurityConfig.apply(conf); err != nil {
		return nil, err
	}
	return conf, nil
}
