package domain

import (
	"context"
	"time"
)

type PurchaseFilter struct {
	AccountID string
	Statuses  []PurchaseStatus
	DateFrom  time.Time
	DateTo    time.Time
	Page      int
	Limit     int
}

type TransactionFilter struct {
	PurchaseID string
	AccountID  string
	Statuses   []TransactionStatus
}

// PurchaseMutation changes a locked purchase in memory. Returning an error
// discards every change.
type PurchaseMutation func(p *Purchase) error

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, purchase *Purchase) error
	GetPurchaseByID(ctx context.Context, purchaseID string) (*Purchase, error)
	GetPurchases(ctx context.Context, filter PurchaseFilter) ([]*Purchase, int64, error)

	// UpdatePurchase loads the purchase with its items and transactions under
	// a row lock, applies fn and persists the result in the same database
	// transaction. A concurrent writer that got there first yields ErrConflict.
	UpdatePurchase(ctx context.Context, purchaseID string, fn PurchaseMutation) (*Purchase, error)

	GetTransactionByCorrelationID(ctx context.Context, correlationID string) (*Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
	FindExpiredTransactions(ctx context.Context, now time.Time, limit int) ([]*Transaction, error)
	FindStalePurchases(ctx context.Context, createdBefore time.Time, limit int) ([]*Purchase, error)
}
