package setup

import (
	"fmt"

	"github.com/LavaJover/bakery-order-service/internal/usecase"
	"github.com/LavaJover/bakery-order-service/internal/usecase/pricing"
	"github.com/LavaJover/bakery-order-service/internal/usecase/purchase"
	"github.com/LavaJover/bakery-order-service/internal/usecase/reconcile"
)

type UseCases struct {
	PurchaseUsecase *purchase.DefaultPurchaseUsecase
	Reconciler      *reconcile.DefaultReconciler
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	downPayment, err := purchase.NewDownPaymentPolicy(cfg.Payment)
	if err != nil {
		return nil, fmt.Errorf("down payment policy: %w", err)
	}

	// A nil *KafkaPublisher must not reach the usecases as a non-nil interface.
	var publisher usecase.EventPublisher
	if deps.Publisher != nil {
		publisher = deps.Publisher
	}

	purchaseUsecase := purchase.NewDefaultPurchaseUsecase(
		deps.Repositories.PurchaseRepo,
		pricing.NewDefaultResolver(deps.CatalogClient, cfg.Pricing.DefaultMaxQuantity),
		deps.FeeCalculator,
		deps.Gateway,
		deps.AuditLogger,
		publisher,
		deps.Metrics,
		downPayment,
		cfg.Purchase.ConflictRetries,
	)

	reconciler := reconcile.NewDefaultReconciler(
		deps.Repositories.PurchaseRepo,
		deps.AuditLogger,
		publisher,
		deps.Metrics,
		cfg.Gateway.ServerKey,
		deps.GatewayZone,
		cfg.Purchase.ConflictRetries,
	)

	return &UseCases{
		PurchaseUsecase: purchaseUsecase,
		Reconciler:      reconciler,
	}, nil
}
