package kafka

import (
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

const (
	EventPurchaseCreated      = "purchase.created"
	EventPurchaseStatus       = "purchase.status_changed"
	EventTransactionOpened    = "transaction.opened"
	EventTransactionFinalized = "transaction.finalized"
)

// PurchaseEvent is published after a purchase or one of its transactions
// changed. Amounts are decimal strings.
type PurchaseEvent struct {
	EventType         string    `json:"event_type"`
	PurchaseID        string    `json:"purchase_id"`
	AccountID         string    `json:"account_id"`
	Reference         string    `json:"reference"`
	Status            string    `json:"status"`
	PreviousStatus    string    `json:"previous_status,omitempty"`
	Total             string    `json:"total"`
	TransactionID     string    `json:"transaction_id,omitempty"`
	CorrelationID     string    `json:"correlation_id,omitempty"`
	PaymentType       string    `json:"payment_type,omitempty"`
	TransactionStatus string    `json:"transaction_status,omitempty"`
	Amount            string    `json:"amount,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewPurchaseEvent snapshots p, and tx when the event concerns one transaction.
func NewPurchaseEvent(eventType string, p *domain.Purchase, tx *domain.Transaction, previous domain.PurchaseStatus, at time.Time) PurchaseEvent {
	event := PurchaseEvent{
		EventType:      eventType,
		PurchaseID:     p.ID,
		AccountID:      p.AccountID,
		Reference:      p.Reference,
		Status:         string(p.Status),
		PreviousStatus: string(previous),
		Total:          p.Total().String(),
		OccurredAt:     at,
	}
	if tx != nil {
		event.TransactionID = tx.ID
		event.CorrelationID = tx.CorrelationID
		event.PaymentType = string(tx.PaymentType)
		event.TransactionStatus = string(tx.Status)
		event.Amount = tx.Amount.String()
	}
	return event
}
