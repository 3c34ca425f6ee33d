package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-risk/pkg/mq/kafka"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		ok      bool
	}{
		{"json object", `{"contract": "0xAbC"}`, "0xAbC", true},
		{"json object padded", ` {"contract": "  0xabc "} `, "0xabc", true},
		{"json blank contract", `{"contract": "  "}`, "", false},
		{"json missing contract", `{"address": "0xabc"}`, "", false},
		{"json malformed", `{"contract": `, "", false},
		{"json string", `"0xdef"`, "0xdef", true},
		{"bare address", "0x1234\n", "0x1234", true},
		{"empty", "   ", "", false},
		{"free text", "please analyze 0x1234", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRequest([]byte(tt.payload))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleMessage(t *testing.T) {
	s := NewSource(SourceConfig{Topic: "risk-requests", KafkaConfig: kafka.KafkaConsumerConfig{GroupId: "g1"}})
	assert.Equal(t, "kafka(risk-requests)", s.String())

	ctx := context.Background()
	require.NoError(t, s.handleMessage(ctx, &kafka.Message{Topic: "risk-requests", Value: []byte(`{"contract":"0xabc"}`)}))
	assert.Equal(t, "0xabc", <-s.Subscribe())

	require.NoError(t, s.handleMessage(ctx, &kafka.Message{Topic: "risk-requests", Value: []byte("not an address")}))
	assert.Error(t, <-s.Errors())
	assert.Empty(t, s.Subscribe())
}

func TestHandleMessageAfterCancel(t *testing.T) {
	s := NewSource(SourceConfig{Topic: "t"})
	for i := 0; i < cap(s.addrChan); i++ {
		s.addrChan <- "0x1"
	}
	s.cancel()
	err := s.handleMessage(context.Background(), &kafka.Message{Value: []byte("0xabc")})
	assert.ErrorIs(t, err, context.Canceled)
}
