package kafka

import (
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerConfig(t *testing.T) {
	conf, err := newProducerConfig([]string{"a:9092", "b:9092"}, KafkaProducerConfig{LingerMs: 20, RequiredAcks: "all"})
	require.NoError(t, err)

	servers, err := conf.Get("bootstrap.servers", nil)
	require.NoError(t, err)
	assert.Equal(t, "a:9092,b:9092", servers)

	linger, _ := conf.Get("linger.ms", nil)
	assert.Equal(t, 20, linger)

	acks, _ := conf.Get("acks", nil)
	assert.Equal(t, "all", acks)

	proto, _ := conf.Get("security.protocol", nil)
	assert.Equal(t, "plaintext", proto)
}

func TestNewConsumerConfig(t *testing.T) {
	cfg := KafkaConsumerConfig{
		Topics:        []string{"token-risk-requests"},
		GroupId:       "token-risk",
		OffsetInitial: "earliest",
		SecurityConfig: SecurityConfig{
			SecurityProtocol: "SASL_PLAINTEXT",
			SaslUsername:     "u",
			SaslPassword:     "p",
			SaslMechanism:    "PLAIN",
		},
	}
	conf, err := newConsumerConfig([]string{"a:9092"}, cfg)
	require.NoError(t, err)

	group, _ := conf.Get("group.id", nil)
	assert.Equal(t, "token-risk", group)
	reset, _ := conf.Get("auto.offset.reset", nil)
	assert.Equal(t, "earliest", reset)
	commit, _ := conf.Get("enable.auto.commit", nil)
	assert.Equal(t, false, commit)
	mech, _ := conf.Get("sasl.mechanism", nil)
	assert.Equal(t, "PLAIN", mech)
}

func TestUnknownSecurityProtocol(t *testing.T) {
	_, err := newProducerConfig([]string{"a:9092"}, KafkaProducerConfig{
		SecurityConfig: SecurityConfig{SecurityProtocol: "BOGUS"},
	})
	require.Error(t, err)

	var kerr kafka.Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, kafka.ErrUnknownProtocol, kerr.Code())
}

func TestConsumerDefaults(t *testing.T) {
	cfg := KafkaConsumerConfig{}.withDefaults()
	assert.Equal(t, 1000, cfg.ReadTimeoutMs)
	assert.Equal(t, 3, cfg.MaxRetries)
}
