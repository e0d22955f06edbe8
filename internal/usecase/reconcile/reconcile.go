package reconcile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/metrics"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeApplied                 Outcome = "applied"
	OutcomeAlreadyFinalized        Outcome = "already_finalized"
	OutcomeAcknowledged            Outcome = "acknowledged"
	OutcomeSettledOnClosedPurchase Outcome = "settled_on_closed_purchase"
)

const (
	SourceWebhook = "webhook"
	SourceRelay   = "relay"
	SourceSweep   = "sweep"
)

type Result struct {
	Outcome           Outcome
	CorrelationID     string
	TransactionID     string
	PurchaseID        string
	TransactionStatus domain.TransactionStatus
	PurchaseStatus    domain.PurchaseStatus
	PurchaseChanged   bool
}

// StatusUpdate asks for a transaction to move to Status. Amount, when set,
// must equal the transaction amount.
type StatusUpdate struct {
	CorrelationID string
	Status        domain.TransactionStatus
	GatewayStatus string
	Amount        *decimal.Decimal
	At            time.Time
	Source        string
}

type Reconciler interface {
	Reconcile(ctx context.Context, n domain.PaymentNotification, source string) (*Result, error)
	ApplyTransactionStatus(ctx context.Context, update StatusUpdate) (*Result, error)
}

type DefaultReconciler struct {
	purchaseRepo    domain.PurchaseRepository
	auditLogger     domain.AuditLogger
	publisher       usecase.EventPublisher
	metrics         *metrics.PurchaseMetrics
	serverKey       string
	location        *time.Location
	conflictRetries int
	now             func() time.Time
}

func NewDefaultReconciler(
	purchaseRepo domain.PurchaseRepository,
	auditLogger domain.AuditLogger,
	publisher usecase.EventPublisher,
	purchaseMetrics *metrics.PurchaseMetrics,
	serverKey string,
	location *time.Location,
	conflictRetries int,
) *DefaultReconciler {
	if location == nil {
		location = time.UTC
	}
	return &DefaultReconciler{
		purchaseRepo:    purchaseRepo,
		auditLogger:     auditLogger,
		publisher:       publisher,
		metrics:         purchaseMetrics,
		serverKey:       serverKey,
		location:        location,
		conflictRetries: conflictRetries,
		now:             time.Now,
	}
}

// Reconcile verifies and applies one gateway notification. Replays of an
// applied notification succeed with OutcomeAlreadyFinalized.
func (r *DefaultReconciler) Reconcile(ctx context.Context, n domain.PaymentNotification, source string) (result *Result, err error) {
	started := r.now()
	defer func() {
		r.recordNotification(ctx, n, result, err, started)
	}()

	if !VerifySignature(n, r.serverKey) {
		slog.WarnContext(ctx, "dropping gateway notification with invalid signature",
			"correlation_id", n.OrderID,
			"transaction_status", n.TransactionStatus,
		)
		return nil, fmt.Errorf("%w: invalid signature for %s", domain.ErrUnauthorized, n.OrderID)
	}

	target, mapErr := MapGatewayStatus(n.TransactionStatus, n.FraudStatus)

	tx, err := r.purchaseRepo.GetTransactionByCorrelationID(ctx, n.OrderID)
	if err != nil {
		return nil, err
	}
	if tx.Status.IsTerminal() {
		return &Result{
			Outcome:           OutcomeAlreadyFinalized,
			CorrelationID:     tx.CorrelationID,
			TransactionID:     tx.ID,
			PurchaseID:        tx.PurchaseID,
			TransactionStatus: tx.Status,
		}, nil
	}
	if mapErr != nil {
		return nil, mapErr
	}

	amount, err := decimal.NewFromString(n.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: gross amount %q", domain.ErrInvalidRequestBodyValue, n.GrossAmount)
	}

	at, ok := n.EventTime(r.location)
	if !ok {
		at = r.now()
	}

	return r.ApplyTransactionStatus(ctx, StatusUpdate{
		CorrelationID: n.OrderID,
		Status:        target,
		GatewayStatus: n.TransactionStatus,
		Amount:        &amount,
		At:            at,
		Source:        source,
	})
}

// errNoChange rolls back a mutation that turned out to be a no-op.
var errNoChange = errors.New("no change")

// ApplyTransactionStatus is the single entry point that moves a transaction to
// a terminal status and propagates settlement to its purchase, atomically.
func (r *DefaultReconciler) ApplyTransactionStatus(ctx context.Context, update StatusUpdate) (*Result, error) {
	tx, err := r.purchaseRepo.GetTransactionByCorrelationID(ctx, update.CorrelationID)
	if err != nil {
		return nil, err
	}

	var (
		result   *Result
		previous domain.PurchaseStatus
	)
	purchase, err := usecase.RetryOnConflict(ctx, r.conflictRetries,
		func(int) { r.recordConflictRetry("reconcile") },
		func() (*domain.Purchase, error) {
			return r.purchaseRepo.UpdatePurchase(ctx, tx.PurchaseID, func(p *domain.Purchase) error {
				previous = p.Status
				var err error
				result, err = applyToPurchase(p, update)
				return err
			})
		},
	)
	if errors.Is(err, errNoChange) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	finalized := purchase.TransactionByCorrelationID(update.CorrelationID)
	slog.InfoContext(ctx, "transaction finalized",
		"correlation_id", update.CorrelationID,
		"purchase_id", purchase.ID,
		"transaction_status", finalized.Status,
		"purchase_status", purchase.Status,
		"outcome", result.Outcome,
		"source", update.Source,
	)
	r.afterApply(purchase, finalized, previous, result, update.Source)
	return result, nil
}

func applyToPurchase(p *domain.Purchase, update StatusUpdate) (*Result, error) {
	tx := p.TransactionByCorrelationID(update.CorrelationID)
	if tx == nil {
		return nil, fmt.Errorf("%w: transaction %s on purchase %s", domain.ErrNotFound, update.CorrelationID, p.ID)
	}

	result := &Result{
		CorrelationID:     tx.CorrelationID,
		TransactionID:     tx.ID,
		PurchaseID:        p.ID,
		TransactionStatus: tx.Status,
		PurchaseStatus:    p.Status,
	}

	if tx.Status.IsTerminal() {
		result.Outcome = OutcomeAlreadyFinalized
		return result, errNoChange
	}
	if update.Amount != nil && !update.Amount.Equal(tx.Amount) {
		return nil, fmt.Errorf("%w: gross amount %s does not match transaction amount %s",
			domain.ErrInvalidRequestBodyValue, update.Amount.String(), tx.Amount.String())
	}
	if update.Status == domain.TransactionPending {
		result.Outcome = OutcomeAcknowledged
		return result, errNoChange
	}

	if err := tx.Finalize(update.Status, update.At); err != nil {
		return nil, err
	}
	tx.GatewayStatus = update.GatewayStatus
	result.TransactionStatus = tx.Status
	result.Outcome = OutcomeApplied

	if tx.Status == domain.TransactionSettled {
		switch {
		case p.Status.IsTerminal():
			// Money arrived for a purchase that is already closed; keep the
			// purchase as is and surface it for manual follow-up.
			result.Outcome = OutcomeSettledOnClosedPurchase
		case tx.PaymentType == domain.PaymentTypeBalancePayment:
		default:
			changed, err := p.Confirm(update.At)
			if err != nil {
				return nil, err
			}
			result.PurchaseChanged = changed
		}
	}
	result.PurchaseStatus = p.Status
	return result, nil
}

func (r *DefaultReconciler) recordNotification(ctx context.Context, n domain.PaymentNotification, result *Result, err error, started time.Time) {
	outcome := ""
	if result != nil {
		outcome = string(result.Outcome)
	} else {
		outcome = string(domain.KindOf(err))
	}
	r.recordNotificationMetric(outcome)

	if r.auditLogger == nil {
		return
	}
	entry := &domain.NotificationLog{
		ID:             uuid.NewString(),
		CorrelationID:  n.OrderID,
		GatewayStatus:  n.TransactionStatus,
		PayloadHash:    payloadHash(n),
		Outcome:        outcome,
		Success:        err == nil,
		ProcessingTime: r.now().Sub(started).Milliseconds(),
		ReceivedAt:     started,
	}
	if result != nil {
		entry.TransactionID = result.TransactionID
		entry.PurchaseID = result.PurchaseID
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	if logErr := r.auditLogger.LogNotification(ctx, entry); logErr != nil {
		slog.ErrorContext(ctx, "failed to write notification log", "correlation_id", n.OrderID, "error", logErr)
	}
}

func payloadHash(n domain.PaymentNotification) string {
	payload, _ := json.Marshal(n)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
