package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	msgs := buildMessages("purchase-events", at, []domain.Message{
		{Key: []byte("p-1"), Value: []byte(`{"a":1}`)},
		{Key: []byte("p-2"), Value: []byte(`{"a":2}`)},
	})

	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, "purchase-events", m.Topic)
		assert.Equal(t, at, m.Time)
	}
	assert.Equal(t, []byte("p-1"), msgs[0].Key)
	assert.Equal(t, []byte(`{"a":2}`), msgs[1].Value)
}

func TestPublishNothing(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:0"}, "purchase-events")
	defer p.Close()

	assert.NoError(t, p.Publish(context.Background(), "purchase-events"))
}
