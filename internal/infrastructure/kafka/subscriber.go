package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaSubscriber struct {
	brokers []string
}

func NewDefaultKafkaSubscriber(brokers []string) *DefaultKafkaSubscriber {
	return &DefaultKafkaSubscriber{brokers: brokers}
}

type messageCommitter interface {
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Subscribe streams messages until ctx is done or the reader fails; the
// channel is closed either way. Offsets are committed only through
// Message.Commit, so an unacknowledged message is redelivered after a
// restart or rebalance.
func (k *DefaultKafkaSubscriber) Subscribe(ctx context.Context, topic, groupID string) (<-chan domain.Message, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	out := make(chan domain.Message)
	go func() {
		defer close(out)
		defer reader.Close()
		for {
			m, err := reader.FetchMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Error("kafka reader stopped", "topic", topic, "error", err)
				}
				return
			}
			select {
			case out <- toDomainMessage(reader, m):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func toDomainMessage(c messageCommitter, m kafka.Message) domain.Message {
	return domain.Message{
		Key:   m.Key,
		Value: m.Value,
		Commit: func(ctx context.Context) error {
			return c.CommitMessages(ctx, m)
		},
	}
}
