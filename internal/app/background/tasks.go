package background

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/usecase/reconcile"
)

// Sweeper is the part of the reconciler the periodic jobs drive.
type Sweeper interface {
	ExpireDueTransactions(ctx context.Context, limit int) (int, error)
	ExpireStalePurchases(ctx context.Context, staleAfter time.Duration, limit int) (int, error)
}

const (
	relayRetryBaseDelay = 200 * time.Millisecond
	relayRetryMaxDelay  = 10 * time.Second
)

type BackgroundTasks struct {
	Reconciler reconcile.Reconciler
	Sweeper    Sweeper
	Subscriber domain.SubscriberPort
	Config     *config.PurchaseConfig

	// RelayRetryDelay is the first backoff after a transient relay failure.
	// Zero means relayRetryBaseDelay.
	RelayRetryDelay time.Duration
}

func NewBackgroundTasks(reconciler *reconcile.DefaultReconciler, subscriber domain.SubscriberPort, cfg *config.PurchaseConfig) *BackgroundTasks {
	return &BackgroundTasks{
		Reconciler: reconciler,
		Sweeper:    reconciler,
		Subscriber: subscriber,
		Config:     cfg,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startTransactionExpiry(ctx)
	go bt.startStalePurchaseExpiry(ctx)
	if bt.Subscriber != nil && bt.Config.KafkaService.ConsumeNotifications {
		go bt.startNotificationRelay(ctx)
	}
}

func (bt *BackgroundTasks) startTransactionExpiry(ctx context.Context) {
	ticker := time.NewTicker(bt.Config.Background.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := bt.Sweeper.ExpireDueTransactions(ctx, bt.Config.Background.SweepBatchSize)
			if err != nil {
				slog.Error("transaction expiry sweep failed", "error", err)
				continue
			}
			if expired > 0 {
				slog.Info("expired payment sessions", "count", expired)
			}
		}
	}
}

func (bt *BackgroundTasks) startStalePurchaseExpiry(ctx context.Context) {
	// Stale purchases are measured in hours, a slower cadence is enough.
	ticker := time.NewTicker(10 * bt.Config.Background.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := bt.Sweeper.ExpireStalePurchases(ctx, bt.Config.Purchase.StaleAfter, bt.Config.Background.SweepBatchSize)
			if err != nil {
				slog.Error("stale purchase sweep failed", "error", err)
				continue
			}
			if expired > 0 {
				slog.Info("expired stale purchases", "count", expired)
			}
		}
	}
}

// startNotificationRelay reconciles gateway notifications forwarded through
// Kafka exactly like webhook deliveries. A message is committed once it has
// been reconciled or rejected for good; transient failures are retried in
// place so later offsets never overtake it.
func (bt *BackgroundTasks) startNotificationRelay(ctx context.Context) {
	msgs, err := bt.Subscriber.Subscribe(ctx, bt.Config.KafkaService.NotificationsTopic, bt.Config.KafkaService.GroupID)
	if err != nil {
		slog.Error("failed to subscribe to gateway notifications", "error", err)
		return
	}
	for msg := range msgs {
		if !bt.handleNotification(ctx, msg) {
			return
		}
		if msg.Commit == nil {
			continue
		}
		if err := msg.Commit(ctx); err != nil {
			slog.Error("failed to commit relayed notification", "key", string(msg.Key), "error", err)
		}
	}
}

// handleNotification reports false when ctx ended before the message could be
// settled one way or the other.
func (bt *BackgroundTasks) handleNotification(ctx context.Context, msg domain.Message) bool {
	var n domain.PaymentNotification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		slog.Warn("dropping malformed relayed notification", "key", string(msg.Key), "error", err)
		return true
	}

	backoff := bt.RelayRetryDelay
	if backoff <= 0 {
		backoff = relayRetryBaseDelay
	}
	for attempt := 1; ; attempt++ {
		result, err := bt.Reconciler.Reconcile(ctx, n, reconcile.SourceRelay)
		if err == nil {
			slog.Debug("relayed notification reconciled", "correlation_id", n.OrderID, "outcome", result.Outcome)
			return true
		}
		if !isTransient(err) {
			slog.Warn("relayed notification not applied",
				"correlation_id", n.OrderID,
				"kind", domain.KindOf(err),
				"error", err,
			)
			return true
		}

		slog.Warn("relayed notification failed, retrying",
			"correlation_id", n.OrderID,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > relayRetryMaxDelay {
			backoff = relayRetryMaxDelay
		}
	}
}

// isTransient reports whether a retry of the same notification can succeed.
func isTransient(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindConflict, domain.KindInternal:
		return true
	}
	return false
}
