package kafka

import (
	"strings"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

const DefaultMessageMaxBytes = 10 * MB

type KafkaProducerConfig struct {
	MessageMaxBytes   int    `json:"message_max_bytes" yaml:"message_max_bytes"`
	LingerMs          int    `json:"linger_ms" yaml:"linger_ms"`
	PartitionLingerMs int    `json:"partition_linger_ms" yaml:"partition_linger_ms"`
	RetryBackoffMs    int    `json:"retry_backoff_ms" yaml:"retry_backoff_ms"`
	RequiredAcks      string `json:"required_acks" yaml:"required_acks"`
	ClientID          string `json:"client_id" yaml:"client_id"`

	SecurityConfig `json:",inline" yaml:",inline"`
}

func newProducerConfig(brokers []string, cfg KafkaProducerConfig) (*kafka.ConfigMap, error) {
	conf := &kafka.ConfigMap{
		"api.version.request":           "true",
		"message.max.bytes":             DefaultMessageMaxBytes,
		"linger.ms":                     5,
		"sticky.partitioning.linger.ms": 0,
		"retries":                       3,
		"retry.backoff.ms":              1000,
		"acks":                          "1",
		"compression.type":              "snappy",
		"go.logs.channel.enable":        true,
	}
	if cfg.MessageMaxBytes != 0 {
		_ = conf.SetKey("message.max.bytes", cfg.MessageMaxBytes)
	}
	if cfg.LingerMs != 0 {
		_ = conf.SetKey("linger.ms", cfg.LingerMs)
	}
	if cfg.PartitionLingerMs != 0 {
		_ = conf.SetKey("sticky.partitioning.linger.ms", cfg.PartitionLingerMs)
	}
	if cfg.RetryBackoffMs != 0 {
		_ = conf.SetKey("retry.backoff.ms", cfg.RetryBackoffMs)
	}
	if cfg.RequiredAcks != "" {
		_ = conf.SetKey("acks", cfg.RequiredAcks)
	}
	if cfg.ClientID != "" {
		_ = conf.SetKey("client.id", cfg.ClientID+"_"+getClientID())
	}
	_ = conf.SetKey("bootstrap.servers", strings.Join(brokers, ","))

	if err := cfg.SecurityConfig.apply(conf); err != nil {
		return nil, err
	}
	return conf, nil
}
