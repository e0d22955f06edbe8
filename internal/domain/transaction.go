package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionSettled   TransactionStatus = "SETTLED"
	TransactionExpired   TransactionStatus = "EXPIRED"
	TransactionFailed    TransactionStatus = "FAILED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionSettled, TransactionExpired, TransactionFailed, TransactionCancelled:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentTypeDownPayment PaymentType = "DOWN_PAYMENT"
	PaymentTypeFullPayment PaymentType = "FULL_PAYMENT"
	// Remainder of a purchase whose down payment already settled.
	PaymentTypeBalancePayment PaymentType = "BALANCE_PAYMENT"
)

func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(s) {
	case PaymentTypeDownPayment, PaymentTypeFullPayment:
		return PaymentType(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment type %q", ErrInvalidRequestBodyValue, s)
}

// Transaction is one payment attempt against the gateway.
type Transaction struct {
	ID            string
	PurchaseID    string
	CorrelationID string
	Amount        decimal.Decimal
	PaymentType   PaymentType
	Status        TransactionStatus
	GatewayStatus string
	Token         string
	RedirectURL   string
	ExpiresAt     time.Time
	FinalizedAt   *time.Time
	CreatedAt     time.Time
}

// Finalize moves a pending transaction into a terminal status. finalizedAt is
// stamped once with the reconciliation time and never rewritten.
func (t *Transaction) Finalize(status TransactionStatus, at time.Time) error {
	if t.Status.IsTerminal() {
		return fmt.Errorf("%w: transaction %s already %s", ErrIllegalOperation, t.ID, t.Status)
	}
	if !status.IsTerminal() {
		return fmt.Errorf("%w: %s is not a terminal transaction status", ErrIllegalOperation, status)
	}
	t.Status = status
	finalizedAt := at
	t.FinalizedAt = &finalizedAt
	return nil
}

func (t *Transaction) IsExpiredAt(now time.Time) bool {
	return t.Status == TransactionPending && !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
