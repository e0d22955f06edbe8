package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newPurchase(status PurchaseStatus) *Purchase {
	return &Purchase{
		ID:     "p-1",
		Status: status,
		Fee:    decimal.NewFromInt(3500),
		Items: []PurchaseItem{
			{VariantID: "v-1", Quantity: 1, BoughtPrice: decimal.NewFromInt(10000)},
			{VariantID: "v-2", Quantity: 2, BoughtPrice: decimal.NewFromInt(5000)},
		},
	}
}

func TestPurchaseTotals(t *testing.T) {
	p := newPurchase(PurchaseConfirmed)
	p.Transactions = []*Transaction{
		{Amount: decimal.NewFromInt(11750), PaymentType: PaymentTypeDownPayment, Status: TransactionSettled},
		{Amount: decimal.NewFromInt(11750), PaymentType: PaymentTypeBalancePayment, Status: TransactionFailed},
	}

	assert.True(t, p.Subtotal().Equal(decimal.NewFromInt(20000)))
	assert.True(t, p.Total().Equal(decimal.NewFromInt(23500)))
	assert.True(t, p.SettledAmount().Equal(decimal.NewFromInt(11750)))
	assert.True(t, p.OutstandingBalance().Equal(decimal.NewFromInt(11750)))
	assert.True(t, p.HasSettled(PaymentTypeDownPayment))
	assert.False(t, p.HasSettled(PaymentTypeBalancePayment))
	assert.Nil(t, p.PendingTransaction())
}

func TestAttachTransaction(t *testing.T) {
	p := newPurchase(PurchasePending)

	require.NoError(t, p.AttachTransaction(&Transaction{ID: "t-1", Status: TransactionPending}, now))
	assert.Equal(t, PurchaseAwaitingPayment, p.Status)
	assert.Equal(t, "p-1", p.Transactions[0].PurchaseID)
	assert.Equal(t, now, p.UpdatedAt)

	err := p.AttachTransaction(&Transaction{ID: "t-2", Status: TransactionPending}, now)
	assert.ErrorIs(t, err, ErrIllegalOperation)
	assert.Len(t, p.Transactions, 1)

	closed := newPurchase(PurchaseCancelled)
	assert.ErrorIs(t, closed.AttachTransaction(&Transaction{ID: "t-3"}, now), ErrIllegalOperation)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		status      PurchaseStatus
		wantStatus  PurchaseStatus
		wantChanged bool
		wantErr     bool
	}{
		{PurchaseAwaitingPayment, PurchaseConfirmed, true, false},
		{PurchaseConfirmed, PurchaseConfirmed, false, false},
		{PurchaseProcessing, PurchaseProcessing, false, false},
		{PurchasePending, PurchasePending, false, true},
		{PurchaseCancelled, PurchaseCancelled, false, true},
		{PurchaseCompleted, PurchaseCompleted, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := newPurchase(tt.status)
			changed, err := p.Confirm(now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIllegalOperation)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, p.Status)
		})
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		status PurchaseStatus
		next   PurchaseStatus
	}{
		{PurchaseConfirmed, PurchaseProcessing},
		{PurchaseProcessing, PurchaseCompleted},
		{PurchasePending, ""},
		{PurchaseAwaitingPayment, ""},
		{PurchaseCompleted, ""},
		{PurchaseExpired, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := newPurchase(tt.status)
			next, err := p.Advance(now)
			if tt.next == "" {
				assert.ErrorIs(t, err, ErrIllegalOperation)
				assert.Equal(t, tt.status, p.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, next)
			assert.Equal(t, tt.next, p.Status)
		})
	}
}

func TestCancelAndExpire(t *testing.T) {
	for _, s := range []PurchaseStatus{PurchasePending, PurchaseAwaitingPayment, PurchaseConfirmed} {
		p := newPurchase(s)
		assert.NoError(t, p.Cancel(now), s)
		assert.Equal(t, PurchaseCancelled, p.Status)
	}
	for _, s := range []PurchaseStatus{PurchaseProcessing, PurchaseCompleted, PurchaseCancelled, PurchaseExpired} {
		assert.ErrorIs(t, newPurchase(s).Cancel(now), ErrIllegalOperation, s)
	}

	for _, s := range []PurchaseStatus{PurchasePending, PurchaseAwaitingPayment} {
		p := newPurchase(s)
		assert.NoError(t, p.Expire(now), s)
		assert.Equal(t, PurchaseExpired, p.Status)
	}
	assert.ErrorIs(t, newPurchase(PurchaseConfirmed).Expire(now), ErrIllegalOperation)
}

func TestParsePurchaseStatus(t *testing.T) {
	s, err := ParsePurchaseStatus("PROCESSING")
	require.NoError(t, err)
	assert.Equal(t, PurchaseProcessing, s)

	_, err = ParsePurchaseStatus("processing")
	assert.ErrorIs(t, err, ErrInvalidRequestBodyValue)
}
