package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
)

// ExpireDueTransactions finalizes pending transactions whose session has
// lapsed. Each one goes through ApplyTransactionStatus, stamped with its own
// expiry time.
func (r *DefaultReconciler) ExpireDueTransactions(ctx context.Context, limit int) (int, error) {
	due, err := r.purchaseRepo.FindExpiredTransactions(ctx, r.now(), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, tx := range due {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		result, err := r.ApplyTransactionStatus(ctx, StatusUpdate{
			CorrelationID: tx.CorrelationID,
			Status:        domain.TransactionExpired,
			GatewayStatus: "expire",
			At:            tx.ExpiresAt,
			Source:        SourceSweep,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to expire transaction",
				"correlation_id", tx.CorrelationID,
				"purchase_id", tx.PurchaseID,
				"error", err,
			)
			continue
		}
		if result.Outcome == OutcomeApplied {
			expired++
		}
	}
	return expired, nil
}

// ExpireStalePurchases closes open purchases older than staleAfter that have
// neither a payment in flight nor a settled payment.
func (r *DefaultReconciler) ExpireStalePurchases(ctx context.Context, staleAfter time.Duration, limit int) (int, error) {
	now := r.now()
	candidates, err := r.purchaseRepo.FindStalePurchases(ctx, now.Add(-staleAfter), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}

		var previous domain.PurchaseStatus
		purchase, err := usecase.RetryOnConflict(ctx, r.conflictRetries,
			func(int) { r.recordConflictRetry("expire_purchase") },
			func() (*domain.Purchase, error) {
				return r.purchaseRepo.UpdatePurchase(ctx, candidate.ID, func(p *domain.Purchase) error {
					if !isStale(p) {
						return errNoChange
					}
					previous = p.Status
					return p.Expire(now)
				})
			},
		)
		if errors.Is(err, errNoChange) {
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to expire stale purchase", "purchase_id", candidate.ID, "error", err)
			continue
		}

		expired++
		slog.InfoContext(ctx, "stale purchase expired", "purchase_id", purchase.ID, "previous_status", previous)
		usecase.PublishAsync(r.publisher, "expiring",
			kafka.NewPurchaseEvent(kafka.EventPurchaseStatus, purchase, nil, previous, now))
		if r.metrics != nil {
			r.metrics.RecordTransition(string(previous), string(purchase.Status), SourceSweep)
			r.metrics.RecordPurchaseClosed(string(purchase.Status), now.Sub(purchase.CreatedAt).Seconds())
		}
	}
	return expired, nil
}

func isStale(p *domain.Purchase) bool {
	if p.Status != domain.PurchasePending && p.Status != domain.PurchaseAwaitingPayment {
		return false
	}
	for _, tx := range p.Transactions {
		if tx.Status == domain.TransactionPending || tx.Status == domain.TransactionSettled {
			return false
		}
	}
	return true
}
