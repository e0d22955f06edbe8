package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher writes to any topic; PublishPurchase targets purchaseTopic.
func NewKafkaPublisher(brokers []string, purchaseTopic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		topic: purchaseTopic,
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return k.writer.WriteMessages(ctx, buildMessages(topic, time.Now(), msgs)...)
}

// PublishPurchase keys by purchase id so events of one purchase stay ordered.
func (k *KafkaPublisher) PublishPurchase(ctx context.Context, event PurchaseEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal purchase event: %w", err)
	}
	return k.Publish(ctx, k.topic, domain.Message{Key: []byte(event.PurchaseID), Value: v})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

func buildMessages(topic string, at time.Time, msgs []domain.Message) []kafka.Message {
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  at,
			Topic: topic,
		})
	}
	return km
}
