package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PurchaseMetrics holds every collector of the purchase service.
type PurchaseMetrics struct {
	// Purchases
	PurchasesCreatedTotal       *prometheus.CounterVec
	PurchasesCreatedAmountTotal *prometheus.CounterVec
	PurchasesRejectedTotal      *prometheus.CounterVec
	PurchaseTransitionsTotal    *prometheus.CounterVec
	PurchaseLifetime            *prometheus.HistogramVec

	// Transactions
	TransactionsOpenedTotal       *prometheus.CounterVec
	TransactionsOpenedAmountTotal *prometheus.CounterVec
	TransactionsFinalizedTotal    *prometheus.CounterVec
	SettledAmountTotal            *prometheus.CounterVec

	// Gateway
	GatewayRequestDuration *prometheus.HistogramVec
	NotificationsTotal     *prometheus.CounterVec

	// Errors
	ConflictRetriesTotal *prometheus.CounterVec
	ErrorsTotal          *prometheus.CounterVec
}

// NewPurchaseMetrics registers the collectors with reg.
func NewPurchaseMetrics(reg prometheus.Registerer) *PurchaseMetrics {
	factory := promauto.With(reg)

	return &PurchaseMetrics{
		PurchasesCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchases_created_total",
				Help: "Number of purchases created",
			},
			[]string{"item_count"},
		),
		PurchasesCreatedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchases_created_amount_total",
				Help: "Sum of totals of created purchases",
			},
			[]string{},
		),
		PurchasesRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchases_rejected_total",
				Help: "Number of purchase requests rejected during item resolution",
			},
			[]string{"reason"},
		),
		PurchaseTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_transitions_total",
				Help: "Purchase status transitions",
			},
			[]string{"from", "to", "source"},
		),
		PurchaseLifetime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "purchase_lifetime_seconds",
				Help:    "Time from creation to a terminal purchase status",
				Buckets: prometheus.ExponentialBuckets(60, 4, 8), // 1m ... ~11d
			},
			[]string{"status"},
		),

		TransactionsOpenedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_opened_total",
				Help: "Payment sessions opened with the gateway",
			},
			[]string{"payment_type"},
		),
		TransactionsOpenedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_opened_amount_total",
				Help: "Sum of amounts of opened payment sessions",
			},
			[]string{"payment_type"},
		),
		TransactionsFinalizedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_finalized_total",
				Help: "Transactions moved to a terminal status",
			},
			[]string{"payment_type", "status", "source"},
		),
		SettledAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_settled_amount_total",
				Help: "Sum of settled transaction amounts",
			},
			[]string{"payment_type"},
		),

		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Latency of payment gateway calls",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms, 20ms, 40ms...
			},
			[]string{"operation", "success"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_notifications_total",
				Help: "Inbound gateway notifications by outcome",
			},
			[]string{"outcome"},
		),

		ConflictRetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_conflict_retries_total",
				Help: "Retries caused by concurrent purchase modification",
			},
			[]string{"operation"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_errors_total",
				Help: "Failed operations by error kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

func (m *PurchaseMetrics) RecordPurchaseCreated(itemCount string, total float64) {
	m.PurchasesCreatedTotal.WithLabelValues(itemCount).Inc()
	m.PurchasesCreatedAmountTotal.WithLabelValues().Add(total)
}

func (m *PurchaseMetrics) RecordPurchaseRejected(reason string) {
	m.PurchasesRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordTransition counts a status change; source is the caller that drove
// it (orchestrator, webhook, sweep).
func (m *PurchaseMetrics) RecordTransition(from, to, source string) {
	m.PurchaseTransitionsTotal.WithLabelValues(from, to, source).Inc()
}

func (m *PurchaseMetrics) RecordPurchaseClosed(status string, lifetimeSeconds float64) {
	m.PurchaseLifetime.WithLabelValues(status).Observe(lifetimeSeconds)
}

func (m *PurchaseMetrics) RecordTransactionOpened(paymentType string, amount float64) {
	m.TransactionsOpenedTotal.WithLabelValues(paymentType).Inc()
	m.TransactionsOpenedAmountTotal.WithLabelValues(paymentType).Add(amount)
}

func (m *PurchaseMetrics) RecordTransactionFinalized(paymentType, status, source string, amount float64) {
	m.TransactionsFinalizedTotal.WithLabelValues(paymentType, status, source).Inc()
	if status == "SETTLED" {
		m.SettledAmountTotal.WithLabelValues(paymentType).Add(amount)
	}
}

func (m *PurchaseMetrics) RecordGatewayRequest(operation string, durationSeconds float64, success bool) {
	successStr := "false"
	if success {
		successStr = "true"
	}
	m.GatewayRequestDuration.WithLabelValues(operation, successStr).Observe(durationSeconds)
}

func (m *PurchaseMetrics) RecordNotification(outcome string) {
	m.NotificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *PurchaseMetrics) RecordConflictRetry(operation string) {
	m.ConflictRetriesTotal.WithLabelValues(operation).Inc()
}

func (m *PurchaseMetrics) RecordError(operation, kind string) {
	m.ErrorsTotal.WithLabelValues(operation, kind).Inc()
}
