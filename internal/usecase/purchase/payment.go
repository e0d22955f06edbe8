package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

var newCorrelationSuffix = mustGenerator(nanoid.CustomASCII("abcdefghijklmnopqrstuvwxyz0123456789", 8))

// InitiatePayment opens a gateway session for a DOWN_PAYMENT or FULL_PAYMENT.
// The session is opened while the purchase is locked, so two concurrent calls
// can never both leave a pending transaction behind.
func (uc *DefaultPurchaseUsecase) InitiatePayment(ctx context.Context, actor domain.Actor, purchaseID string, paymentType domain.PaymentType) (*domain.Transaction, error) {
	if paymentType != domain.PaymentTypeDownPayment && paymentType != domain.PaymentTypeFullPayment {
		return nil, fmt.Errorf("%w: payment type %q", domain.ErrInvalidRequestBodyValue, paymentType)
	}

	var (
		opened   *domain.Transaction
		previous domain.PurchaseStatus
	)
	purchase, err := uc.update(ctx, "initiate_payment", purchaseID, func(p *domain.Purchase) error {
		if !actor.Owns(p.AccountID) {
			return fmt.Errorf("%w: purchase %s", domain.ErrUnauthorized, p.ID)
		}
		if p.Status != domain.PurchasePending && p.Status != domain.PurchaseAwaitingPayment {
			return fmt.Errorf("%w: cannot pay purchase %s in status %s", domain.ErrIllegalOperation, p.ID, p.Status)
		}
		if pending := p.PendingTransaction(); pending != nil {
			return fmt.Errorf("%w: purchase %s already has pending transaction %s", domain.ErrIllegalOperation, p.ID, pending.ID)
		}

		amount, err := uc.downPayment.Amount(paymentType, p.Total())
		if err != nil {
			return err
		}

		previous = p.Status
		opened, err = uc.openTransaction(ctx, p, paymentType, amount)
		if err != nil {
			return err
		}
		return p.AttachTransaction(opened, opened.CreatedAt)
	})
	if err != nil {
		uc.recordError("initiate_payment", err)
		return nil, err
	}

	uc.afterTransactionOpened(ctx, purchase, opened, previous)
	return opened, nil
}

// InitiateBalancePayment charges what is left after a settled down payment.
// The purchase status does not move.
func (uc *DefaultPurchaseUsecase) InitiateBalancePayment(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Transaction, error) {
	var (
		opened   *domain.Transaction
		previous domain.PurchaseStatus
	)
	purchase, err := uc.update(ctx, "initiate_balance_payment", purchaseID, func(p *domain.Purchase) error {
		if !actor.Owns(p.AccountID) {
			return fmt.Errorf("%w: purchase %s", domain.ErrUnauthorized, p.ID)
		}
		if p.Status != domain.PurchaseConfirmed && p.Status != domain.PurchaseProcessing {
			return fmt.Errorf("%w: cannot pay balance of purchase %s in status %s", domain.ErrIllegalOperation, p.ID, p.Status)
		}
		if !p.HasSettled(domain.PaymentTypeDownPayment) {
			return fmt.Errorf("%w: purchase %s has no settled down payment", domain.ErrIllegalOperation, p.ID)
		}
		if pending := p.PendingTransaction(); pending != nil {
			return fmt.Errorf("%w: purchase %s already has pending transaction %s", domain.ErrIllegalOperation, p.ID, pending.ID)
		}
		balance := p.OutstandingBalance()
		if !balance.IsPositive() {
			return fmt.Errorf("%w: purchase %s is fully paid", domain.ErrIllegalOperation, p.ID)
		}

		previous = p.Status
		var err error
		opened, err = uc.openTransaction(ctx, p, domain.PaymentTypeBalancePayment, balance)
		if err != nil {
			return err
		}
		return p.AttachTransaction(opened, opened.CreatedAt)
	})
	if err != nil {
		uc.recordError("initiate_balance_payment", err)
		return nil, err
	}

	uc.afterTransactionOpened(ctx, purchase, opened, previous)
	return opened, nil
}

func (uc *DefaultPurchaseUsecase) openTransaction(ctx context.Context, p *domain.Purchase, paymentType domain.PaymentType, amount decimal.Decimal) (*domain.Transaction, error) {
	correlationID := fmt.Sprintf("%s-%s", p.Reference, newCorrelationSuffix())

	started := time.Now()
	session, err := uc.gateway.OpenSession(ctx, domain.OpenSessionRequest{
		CorrelationID: correlationID,
		PurchaseRef:   p.Reference,
		Amount:        amount,
		PaymentType:   paymentType,
	})
	uc.recordGatewayRequest("open_session", time.Since(started), err == nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open payment session",
			"purchase_id", p.ID,
			"payment_type", paymentType,
			"error", err,
		)
		return nil, err
	}

	return &domain.Transaction{
		ID:            uuid.NewString(),
		PurchaseID:    p.ID,
		CorrelationID: session.CorrelationID,
		Amount:        amount,
		PaymentType:   paymentType,
		Status:        domain.TransactionPending,
		Token:         session.Token,
		RedirectURL:   session.RedirectURL,
		ExpiresAt:     session.ExpiresAt,
		CreatedAt:     uc.now(),
	}, nil
}

func (uc *DefaultPurchaseUsecase) afterTransactionOpened(ctx context.Context, p *domain.Purchase, tx *domain.Transaction, previous domain.PurchaseStatus) {
	slog.InfoContext(ctx, "payment initiated",
		"purchase_id", p.ID,
		"correlation_id", tx.CorrelationID,
		"payment_type", tx.PaymentType,
		"amount", tx.Amount.String(),
		"expires_at", tx.ExpiresAt,
	)

	events := []kafka.PurchaseEvent{kafka.NewPurchaseEvent(kafka.EventTransactionOpened, p, tx, previous, tx.CreatedAt)}
	if p.Status != previous {
		events = append(events, kafka.NewPurchaseEvent(kafka.EventPurchaseStatus, p, tx, previous, tx.CreatedAt))
		uc.recordTransition(previous, p.Status)
	}
	usecase.PublishAsync(uc.publisher, "initiating_payment", events...)
	uc.recordTransactionOpened(tx)
}
