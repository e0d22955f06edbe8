// Package usecasetest holds in-memory doubles of the domain ports for usecase
// tests.
package usecasetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

// MemoryPurchaseRepository serializes every UpdatePurchase call, standing in
// for the row lock of the SQL repository.
type MemoryPurchaseRepository struct {
	mu        sync.Mutex
	purchases map[string]*domain.Purchase

	// Conflicts makes the next n UpdatePurchase calls fail with ErrConflict.
	Conflicts int
	Updates   int
}

func NewMemoryPurchaseRepository() *MemoryPurchaseRepository {
	return &MemoryPurchaseRepository{purchases: map[string]*domain.Purchase{}}
}

func (r *MemoryPurchaseRepository) CreatePurchase(_ context.Context, purchase *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.purchases[purchase.ID]; ok {
		return fmt.Errorf("purchase %s already exists", purchase.ID)
	}
	if purchase.Version == 0 {
		purchase.Version = 1
	}
	r.purchases[purchase.ID] = clonePurchase(purchase)
	return nil
}

func (r *MemoryPurchaseRepository) GetPurchaseByID(_ context.Context, purchaseID string) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[purchaseID]
	if !ok {
		return nil, fmt.Errorf("%w: purchase %s", domain.ErrNotFound, purchaseID)
	}
	return clonePurchase(p), nil
}

func (r *MemoryPurchaseRepository) GetPurchases(_ context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domain.Purchase
	for _, p := range r.purchases {
		if filter.AccountID != "" && p.AccountID != filter.AccountID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, p.Status) {
			continue
		}
		matched = append(matched, clonePurchase(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	limit, page := filter.Limit, filter.Page
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []*domain.Purchase{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryPurchaseRepository) UpdatePurchase(_ context.Context, purchaseID string, fn domain.PurchaseMutation) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates++

	current, ok := r.purchases[purchaseID]
	if !ok {
		return nil, fmt.Errorf("%w: purchase %s", domain.ErrNotFound, purchaseID)
	}
	if r.Conflicts > 0 {
		r.Conflicts--
		return nil, fmt.Errorf("%w: purchase %s", domain.ErrConflict, purchaseID)
	}

	working := clonePurchase(current)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.Version = current.Version + 1
	r.purchases[purchaseID] = working
	return clonePurchase(working), nil
}

func (r *MemoryPurchaseRepository) GetTransactionByCorrelationID(_ context.Context, correlationID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.purchases {
		if tx := p.TransactionByCorrelationID(correlationID); tx != nil {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction with correlation id %s", domain.ErrNotFound, correlationID)
}

func (r *MemoryPurchaseRepository) GetTransactions(_ context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Transaction
	for _, p := range r.purchases {
		if filter.PurchaseID != "" && p.ID != filter.PurchaseID {
			continue
		}
		if filter.AccountID != "" && p.AccountID != filter.AccountID {
			continue
		}
		for _, tx := range p.Transactions {
			if len(filter.Statuses) > 0 && !containsTxStatus(filter.Statuses, tx.Status) {
				continue
			}
			copied := *tx
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryPurchaseRepository) FindExpiredTransactions(_ context.Context, now time.Time, limit int) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Transaction
	for _, p := range r.purchases {
		for _, tx := range p.Transactions {
			if tx.IsExpiredAt(now) {
				copied := *tx
				out = append(out, &copied)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryPurchaseRepository) FindStalePurchases(_ context.Context, createdBefore time.Time, limit int) ([]*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Purchase
	for _, p := range r.purchases {
		if p.Status != domain.PurchasePending && p.Status != domain.PurchaseAwaitingPayment {
			continue
		}
		if !p.CreatedAt.Before(createdBefore) {
			continue
		}
		out = append(out, clonePurchase(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Put stores p as is, bypassing the state machine.
func (r *MemoryPurchaseRepository) Put(p *domain.Purchase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases[p.ID] = clonePurchase(p)
}

func (r *MemoryPurchaseRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.purchases)
}

func clonePurchase(p *domain.Purchase) *domain.Purchase {
	copied := *p
	copied.Items = append([]domain.PurchaseItem(nil), p.Items...)
	copied.Transactions = make([]*domain.Transaction, 0, len(p.Transactions))
	for _, tx := range p.Transactions {
		txCopy := *tx
		if tx.FinalizedAt != nil {
			at := *tx.FinalizedAt
			txCopy.FinalizedAt = &at
		}
		copied.Transactions = append(copied.Transactions, &txCopy)
	}
	return &copied
}

func containsStatus(statuses []domain.PurchaseStatus, s domain.PurchaseStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsTxStatus(statuses []domain.TransactionStatus, s domain.TransactionStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
