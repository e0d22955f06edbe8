package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
)

const publishTimeout = 10 * time.Second

type EventPublisher interface {
	PublishPurchase(ctx context.Context, event kafka.PurchaseEvent) error
}

// PublishAsync sends events in the background once the write has committed.
// Failures are logged only; the store stays authoritative.
func PublishAsync(publisher EventPublisher, stage string, events ...kafka.PurchaseEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	go func(events []kafka.PurchaseEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		for _, event := range events {
			if err := publisher.PublishPurchase(ctx, event); err != nil {
				slog.Error("failed to publish kafka purchase event",
					"stage", stage,
					"event_type", event.EventType,
					"purchase_id", event.PurchaseID,
					"error", err.Error(),
				)
			}
		}
	}(events)
}
