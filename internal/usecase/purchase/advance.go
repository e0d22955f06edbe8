package purchase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
)

// ConfirmPurchase lets an admin confirm a purchase that is awaiting payment,
// e.g. after a payment was verified outside the gateway.
func (uc *DefaultPurchaseUsecase) ConfirmPurchase(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins confirm purchases", domain.ErrUnauthorized)
	}
	return uc.transition(ctx, actor, "confirm", purchaseID, func(p *domain.Purchase) error {
		if p.Status != domain.PurchaseAwaitingPayment {
			return fmt.Errorf("%w: cannot confirm purchase %s in status %s", domain.ErrIllegalOperation, p.ID, p.Status)
		}
		_, err := p.Confirm(uc.now())
		return err
	})
}

// AdvanceStatus applies the next admin-driven forward transition.
func (uc *DefaultPurchaseUsecase) AdvanceStatus(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins advance purchases", domain.ErrUnauthorized)
	}
	return uc.transition(ctx, actor, "advance", purchaseID, func(p *domain.Purchase) error {
		_, err := p.Advance(uc.now())
		return err
	})
}

func (uc *DefaultPurchaseUsecase) transition(ctx context.Context, actor domain.Actor, operation, purchaseID string, fn domain.PurchaseMutation) (*domain.Purchase, error) {
	var previous domain.PurchaseStatus
	purchase, err := uc.update(ctx, operation, purchaseID, func(p *domain.Purchase) error {
		previous = p.Status
		return fn(p)
	})
	if err != nil {
		uc.recordError(operation, err)
		return nil, err
	}

	slog.InfoContext(ctx, "purchase status changed",
		"purchase_id", purchase.ID,
		"from", previous,
		"to", purchase.Status,
		"actor", actor.AccountID,
	)
	usecase.PublishAsync(uc.publisher, operation,
		kafka.NewPurchaseEvent(kafka.EventPurchaseStatus, purchase, nil, previous, purchase.UpdatedAt))
	uc.recordTransition(previous, purchase.Status)
	if purchase.Status.IsTerminal() {
		uc.recordPurchaseClosed(purchase)
	}
	return purchase, nil
}
