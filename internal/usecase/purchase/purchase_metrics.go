package purchase

import (
	"errors"
	"strconv"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

const transitionSource = "orchestrator"

func (uc *DefaultPurchaseUsecase) recordPurchaseCreated(p *domain.Purchase) {
	if uc.metrics == nil {
		return
	}
	total, _ := p.Total().Float64()
	uc.metrics.RecordPurchaseCreated(strconv.Itoa(len(p.Items)), total)
}

func (uc *DefaultPurchaseUsecase) recordPurchaseRejected(err error) {
	if uc.metrics == nil {
		return
	}
	reason := "invalid"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		reason = "quantity"
	case errors.Is(err, domain.ErrUnavailable):
		reason = "unavailable"
	}
	uc.metrics.RecordPurchaseRejected(reason)
}

func (uc *DefaultPurchaseUsecase) recordTransition(from, to domain.PurchaseStatus) {
	if uc.metrics == nil || from == to {
		return
	}
	uc.metrics.RecordTransition(string(from), string(to), transitionSource)
}

func (uc *DefaultPurchaseUsecase) recordPurchaseClosed(p *domain.Purchase) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordPurchaseClosed(string(p.Status), p.UpdatedAt.Sub(p.CreatedAt).Seconds())
}

func (uc *DefaultPurchaseUsecase) recordTransactionOpened(tx *domain.Transaction) {
	if uc.metrics == nil {
		return
	}
	amount, _ := tx.Amount.Float64()
	uc.metrics.RecordTransactionOpened(string(tx.PaymentType), amount)
}

func (uc *DefaultPurchaseUsecase) recordGatewayRequest(operation string, took time.Duration, success bool) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordGatewayRequest(operation, took.Seconds(), success)
}

func (uc *DefaultPurchaseUsecase) recordConflictRetry(operation string) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordConflictRetry(operation)
}

func (uc *DefaultPurchaseUsecase) recordError(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordError(operation, string(domain.KindOf(err)))
}
