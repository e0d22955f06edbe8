package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte

	// Commit acknowledges the message to the broker. Nil when the source has
	// nothing to acknowledge.
	Commit func(ctx context.Context) error
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

// SubscriberPort delivers messages that stay uncommitted until the consumer
// calls Message.Commit.
type SubscriberPort interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error)
}
