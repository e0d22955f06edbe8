package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

const (
	purchaseOperation = "purchase"
	// versionOperation keys the lowest purchase version a cache entry may
	// carry, raised by every committed write.
	versionOperation = "purchase-version"
)

// CachedPurchaseRepository serves GetPurchaseByID from the cache and drops the
// entry on every write. The wrapped repository stays authoritative: cache
// failures are logged and fall through.
//
// A reader that loaded a row before a concurrent write committed must not put
// it back into the cache. Writes publish their version before invalidating,
// and readers check that floor both before and after storing.
type CachedPurchaseRepository struct {
	domain.PurchaseRepository
	cache Cache
	ttl   time.Duration
}

func NewCachedPurchaseRepository(repo domain.PurchaseRepository, cache Cache, ttl time.Duration) *CachedPurchaseRepository {
	return &CachedPurchaseRepository{
		PurchaseRepository: repo,
		cache:              cache,
		ttl:                ttl,
	}
}

func (r *CachedPurchaseRepository) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	key := r.cache.GenerateKey(purchaseOperation, purchaseID)

	cached, err := r.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "purchase cache read failed", "purchase_id", purchaseID, "error", err)
	} else if cached != "" {
		var purchase domain.Purchase
		if err := json.Unmarshal([]byte(cached), &purchase); err == nil {
			return &purchase, nil
		}
		slog.WarnContext(ctx, "purchase cache entry corrupt", "purchase_id", purchaseID)
	}

	purchase, err := r.PurchaseRepository.GetPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, purchase)
	return purchase, nil
}

func (r *CachedPurchaseRepository) UpdatePurchase(ctx context.Context, purchaseID string, fn domain.PurchaseMutation) (*domain.Purchase, error) {
	purchase, err := r.PurchaseRepository.UpdatePurchase(ctx, purchaseID, fn)
	if err == nil {
		r.raiseFloor(ctx, purchaseID, purchase.Version)
	}
	// Invalidate even on failure; the write may have committed before the error surfaced.
	r.invalidate(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *CachedPurchaseRepository) store(ctx context.Context, purchase *domain.Purchase) {
	if r.isStale(ctx, purchase) {
		return
	}
	payload, err := json.Marshal(purchase)
	if err != nil {
		return
	}
	key := r.cache.GenerateKey(purchaseOperation, purchase.ID)
	if err := r.cache.Set(ctx, key, payload, r.ttl); err != nil {
		slog.WarnContext(ctx, "purchase cache write failed", "purchase_id", purchase.ID, "error", err)
		return
	}
	// A write that committed between the check and the Set may have
	// invalidated before our entry landed.
	if r.isStale(ctx, purchase) {
		r.invalidate(ctx, purchase.ID)
	}
}

// isStale reports whether a newer version of the purchase has been written.
// An unreadable floor counts as stale.
func (r *CachedPurchaseRepository) isStale(ctx context.Context, purchase *domain.Purchase) bool {
	raw, err := r.cache.Get(ctx, r.cache.GenerateKey(versionOperation, purchase.ID))
	if err != nil {
		slog.WarnContext(ctx, "purchase version read failed", "purchase_id", purchase.ID, "error", err)
		return true
	}
	if raw == "" {
		return false
	}
	floor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return purchase.Version < floor
}

func (r *CachedPurchaseRepository) raiseFloor(ctx context.Context, purchaseID string, version int64) {
	key := r.cache.GenerateKey(versionOperation, purchaseID)
	if err := r.cache.Set(ctx, key, strconv.FormatInt(version, 10), r.ttl); err != nil {
		slog.WarnContext(ctx, "purchase version write failed", "purchase_id", purchaseID, "error", err)
	}
}

func (r *CachedPurchaseRepository) invalidate(ctx context.Context, purchaseID string) {
	key := r.cache.GenerateKey(purchaseOperation, purchaseID)
	if err := r.cache.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "purchase cache invalidation failed", "purchase_id", purchaseID, "error", err)
	}
}
