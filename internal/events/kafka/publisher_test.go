package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher_ConfiguresWriter(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"})
	t.Cleanup(func() { _ = p.Close() })

	require.NotNil(t, p.writer)
	assert.Equal(t, "tcp", p.writer.Addr.Network())
	assert.Contains(t, p.writer.Addr.String(), "localhost:9092")
	assert.IsType(t, &kafka.Hash{}, p.writer.Balancer)
	assert.Equal(t, kafka.RequireOne, p.writer.RequiredAcks)
	assert.Empty(t, p.writer.Topic)
}

func TestPublish_UnencodableEvent(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"})
	t.Cleanup(func() { _ = p.Close() })

	err := p.Publish(context.Background(), "transaction_processed", "1", make(chan int))
	assert.Error(t, err)
}
