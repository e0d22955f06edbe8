package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireDueTransactions(t *testing.T) {
	f := newFixture(t)
	p := f.seedAwaiting(domain.PaymentTypeDownPayment, 11750)
	expiresAt := clock.Add(-5 * time.Minute)
	p.Transactions[0].ExpiresAt = expiresAt
	f.repo.Put(p)

	n, err := f.rec.ExpireDueTransactions(context.Background(), 100)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	stored, _ := f.repo.GetPurchaseByID(context.Background(), "p-1")
	tx := stored.Transactions[0]
	assert.Equal(t, domain.TransactionExpired, tx.Status)
	require.NotNil(t, tx.FinalizedAt)
	assert.True(t, tx.FinalizedAt.Equal(expiresAt))
	assert.Equal(t, domain.PurchaseAwaitingPayment, stored.Status)

	again, err := f.rec.ExpireDueTransactions(context.Background(), 100)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestExpireDueTransactionsSkipsLiveSessions(t *testing.T) {
	f := newFixture(t)
	f.seedAwaiting(domain.PaymentTypeDownPayment, 11750)

	n, err := f.rec.ExpireDueTransactions(context.Background(), 100)

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepAndWebhookAgree(t *testing.T) {
	f := newFixture(t)
	p := f.seedAwaiting(domain.PaymentTypeFullPayment, 23500)
	p.Transactions[0].ExpiresAt = clock.Add(-time.Minute)
	f.repo.Put(p)

	_, err := f.rec.ExpireDueTransactions(context.Background(), 10)
	require.NoError(t, err)

	// A late settlement for a session the sweep already expired is a replay.
	result, err := f.rec.Reconcile(context.Background(), notification("settlement", "", "23500"), SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyFinalized, result.Outcome)
	assert.Equal(t, domain.TransactionExpired, result.TransactionStatus)
}

func TestExpireStalePurchases(t *testing.T) {
	f := newFixture(t)

	stale := &domain.Purchase{ID: "stale", AccountID: "a", Status: domain.PurchasePending, Fee: decimal.Zero, CreatedAt: clock.Add(-48 * time.Hour)}
	fresh := &domain.Purchase{ID: "fresh", AccountID: "a", Status: domain.PurchasePending, Fee: decimal.Zero, CreatedAt: clock.Add(-time.Hour)}
	paying := &domain.Purchase{
		ID: "paying", AccountID: "a", Status: domain.PurchaseAwaitingPayment, Fee: decimal.Zero, CreatedAt: clock.Add(-48 * time.Hour),
		Transactions: []*domain.Transaction{{ID: "t", CorrelationID: "c-paying", Status: domain.TransactionPending, ExpiresAt: clock.Add(time.Hour)}},
	}
	abandoned := &domain.Purchase{
		ID: "abandoned", AccountID: "a", Status: domain.PurchaseAwaitingPayment, Fee: decimal.Zero, CreatedAt: clock.Add(-48 * time.Hour),
		Transactions: []*domain.Transaction{{ID: "t2", CorrelationID: "c-abandoned", Status: domain.TransactionExpired}},
	}
	for _, p := range []*domain.Purchase{stale, fresh, paying, abandoned} {
		f.repo.Put(p)
	}

	n, err := f.rec.ExpireStalePurchases(context.Background(), 24*time.Hour, 100)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for id, want := range map[string]domain.PurchaseStatus{
		"stale":     domain.PurchaseExpired,
		"fresh":     domain.PurchasePending,
		"paying":    domain.PurchaseAwaitingPayment,
		"abandoned": domain.PurchaseExpired,
	} {
		got, err := f.repo.GetPurchaseByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, id)
	}
}
