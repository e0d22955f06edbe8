package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCommitter struct {
	committed []kafka.Message
}

func (c *recordingCommitter) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	c.committed = append(c.committed, msgs...)
	return nil
}

func TestMessageCommitsOnlyWhenAcknowledged(t *testing.T) {
	c := &recordingCommitter{}
	src := kafka.Message{Topic: "payment-notifications", Partition: 2, Offset: 41, Key: []byte("REF-1"), Value: []byte(`{}`)}

	msg := toDomainMessage(c, src)
	assert.Equal(t, []byte("REF-1"), msg.Key)
	assert.Empty(t, c.committed)

	require.NoError(t, msg.Commit(context.Background()))
	require.Len(t, c.committed, 1)
	assert.Equal(t, int64(41), c.committed[0].Offset)
	assert.Equal(t, 2, c.committed[0].Partition)
}
