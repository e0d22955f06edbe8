package purchase

import (
	"context"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/metrics"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
	purchasedto "github.com/LavaJover/bakery-order-service/internal/usecase/dto/purchase"
	"github.com/LavaJover/bakery-order-service/internal/usecase/pricing"
)

type PurchaseUsecase interface {
	CreatePurchase(ctx context.Context, actor domain.Actor, input *purchasedto.CreatePurchaseInput) (*domain.Purchase, error)
	InitiatePayment(ctx context.Context, actor domain.Actor, purchaseID string, paymentType domain.PaymentType) (*domain.Transaction, error)
	InitiateBalancePayment(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Transaction, error)
	CancelPurchase(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error)
	ConfirmPurchase(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error)
	AdvanceStatus(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error)

	GetPurchase(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, actor domain.Actor, input *purchasedto.ListPurchasesInput) (*purchasedto.ListPurchasesOutput, error)
	ListTransactionsByPurchase(ctx context.Context, actor domain.Actor, purchaseID string) ([]*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, actor domain.Actor, accountID string) ([]*domain.Transaction, error)
}

type DefaultPurchaseUsecase struct {
	purchaseRepo    domain.PurchaseRepository
	resolver        pricing.Resolver
	feeCalculator   domain.FeeCalculator
	gateway         domain.PaymentGateway
	auditLogger     domain.AuditLogger
	publisher       usecase.EventPublisher
	metrics         *metrics.PurchaseMetrics
	downPayment     DownPaymentPolicy
	conflictRetries int
	now             func() time.Time
}

func NewDefaultPurchaseUsecase(
	purchaseRepo domain.PurchaseRepository,
	resolver pricing.Resolver,
	feeCalculator domain.FeeCalculator,
	gateway domain.PaymentGateway,
	auditLogger domain.AuditLogger,
	publisher usecase.EventPublisher,
	purchaseMetrics *metrics.PurchaseMetrics,
	downPayment DownPaymentPolicy,
	conflictRetries int,
) *DefaultPurchaseUsecase {
	return &DefaultPurchaseUsecase{
		purchaseRepo:    purchaseRepo,
		resolver:        resolver,
		feeCalculator:   feeCalculator,
		gateway:         gateway,
		auditLogger:     auditLogger,
		publisher:       publisher,
		metrics:         purchaseMetrics,
		downPayment:     downPayment,
		conflictRetries: conflictRetries,
		now:             time.Now,
	}
}

// update runs fn against the locked purchase, retrying lost version races.
func (uc *DefaultPurchaseUsecase) update(ctx context.Context, operation, purchaseID string, fn domain.PurchaseMutation) (*domain.Purchase, error) {
	return usecase.RetryOnConflict(ctx, uc.conflictRetries,
		func(int) { uc.recordConflictRetry(operation) },
		func() (*domain.Purchase, error) {
			return uc.purchaseRepo.UpdatePurchase(ctx, purchaseID, fn)
		},
	)
}
