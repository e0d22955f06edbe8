package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTransactionFinalized(t *testing.T) {
	m := NewPurchaseMetrics(prometheus.NewRegistry())

	m.RecordTransactionFinalized("DOWN_PAYMENT", "SETTLED", "webhook", 11750)
	m.RecordTransactionFinalized("DOWN_PAYMENT", "EXPIRED", "sweep", 11750)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionsFinalizedTotal.WithLabelValues("DOWN_PAYMENT", "SETTLED", "webhook")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransactionsFinalizedTotal.WithLabelValues("DOWN_PAYMENT", "EXPIRED", "sweep")))
	assert.Equal(t, 11750.0, testutil.ToFloat64(m.SettledAmountTotal.WithLabelValues("DOWN_PAYMENT")))
}

func TestRecordPurchaseCreated(t *testing.T) {
	m := NewPurchaseMetrics(prometheus.NewRegistry())

	m.RecordPurchaseCreated("2", 23500)
	m.RecordPurchaseCreated("1", 500)

	assert.Equal(t, 2, testutil.CollectAndCount(m.PurchasesCreatedTotal))
	assert.Equal(t, 24000.0, testutil.ToFloat64(m.PurchasesCreatedAmountTotal.WithLabelValues()))
}

func TestRegistriesAreIndependent(t *testing.T) {
	first := NewPurchaseMetrics(prometheus.NewRegistry())
	second := NewPurchaseMetrics(prometheus.NewRegistry())

	first.RecordNotification("applied")

	assert.Equal(t, 1.0, testutil.ToFloat64(first.NotificationsTotal.WithLabelValues("applied")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.NotificationsTotal.WithLabelValues("applied")))
}
