package purchase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
)

// CancelPurchase closes the purchase locally, then asks the gateway to cancel
// a session still in flight. The pending transaction itself is finalized by
// the gateway's cancel notification.
func (uc *DefaultPurchaseUsecase) CancelPurchase(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error) {
	var (
		previous domain.PurchaseStatus
		pending  *domain.Transaction
	)
	purchase, err := uc.update(ctx, "cancel", purchaseID, func(p *domain.Purchase) error {
		if !actor.Owns(p.AccountID) {
			return fmt.Errorf("%w: purchase %s", domain.ErrUnauthorized, p.ID)
		}
		if p.Status == domain.PurchaseConfirmed && p.SettledAmount().IsPositive() {
			return fmt.Errorf("%w: purchase %s is paid, refunds are not supported", domain.ErrIllegalOperation, p.ID)
		}

		previous = p.Status
		pending = p.PendingTransaction()
		return p.Cancel(uc.now())
	})
	if err != nil {
		uc.recordError("cancel", err)
		return nil, err
	}

	slog.InfoContext(ctx, "purchase cancelled",
		"purchase_id", purchase.ID,
		"previous_status", previous,
		"actor", actor.AccountID,
		"admin", actor.IsAdmin(),
	)

	if pending != nil {
		if err := uc.gateway.CancelSession(ctx, pending.CorrelationID); err != nil {
			slog.WarnContext(ctx, "gateway session cancellation failed",
				"purchase_id", purchase.ID,
				"correlation_id", pending.CorrelationID,
				"error", err,
			)
		}
	}

	usecase.PublishAsync(uc.publisher, "cancelling",
		kafka.NewPurchaseEvent(kafka.EventPurchaseStatus, purchase, nil, previous, purchase.UpdatedAt))
	uc.recordTransition(previous, purchase.Status)
	uc.recordPurchaseClosed(purchase)

	return purchase, nil
}
