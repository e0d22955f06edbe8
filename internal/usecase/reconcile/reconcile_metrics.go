package reconcile

import (
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
)

// afterApply runs the non-critical work of a committed status change.
func (r *DefaultReconciler) afterApply(p *domain.Purchase, tx *domain.Transaction, previous domain.PurchaseStatus, result *Result, source string) {
	at := r.now()
	events := []kafka.PurchaseEvent{
		kafka.NewPurchaseEvent(kafka.EventTransactionFinalized, p, tx, previous, at),
	}
	if result.PurchaseChanged {
		events = append(events, kafka.NewPurchaseEvent(kafka.EventPurchaseStatus, p, tx, previous, at))
	}
	usecase.PublishAsync(r.publisher, "reconciling", events...)

	if r.metrics == nil {
		return
	}
	amount, _ := tx.Amount.Float64()
	r.metrics.RecordTransactionFinalized(string(tx.PaymentType), string(tx.Status), source, amount)
	if result.PurchaseChanged {
		r.metrics.RecordTransition(string(previous), string(p.Status), source)
	}
}

func (r *DefaultReconciler) recordNotificationMetric(outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordNotification(outcome)
}

func (r *DefaultReconciler) recordConflictRetry(operation string) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordConflictRetry(operation)
}
