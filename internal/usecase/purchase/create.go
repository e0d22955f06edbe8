package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/kafka"
	"github.com/LavaJover/bakery-order-service/internal/usecase"
	purchasedto "github.com/LavaJover/bakery-order-service/internal/usecase/dto/purchase"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

// Reference codes skip look-alike characters; customers read them out loud.
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var newReference = mustGenerator(nanoid.CustomASCII(referenceAlphabet, 10))

func mustGenerator(gen func() string, err error) func() string {
	if err != nil {
		panic(err)
	}
	return gen
}

func (uc *DefaultPurchaseUsecase) CreatePurchase(ctx context.Context, actor domain.Actor, input *purchasedto.CreatePurchaseInput) (*domain.Purchase, error) {
	if actor.AccountID == "" {
		return nil, fmt.Errorf("%w: purchases need an account", domain.ErrUnauthorized)
	}

	input, err := normalizeCreateInput(input)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	purchase := &domain.Purchase{
		ID:         uuid.NewString(),
		AccountID:  actor.AccountID,
		Reference:  newReference(),
		Address:    input.Address,
		Coordinate: input.Coordinate,
		Status:     domain.PurchasePending,
		Items:      make([]domain.PurchaseItem, 0, len(input.Items)),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for i, item := range input.Items {
		snapshot, err := uc.resolver.Resolve(ctx, item.VariantID, item.Quantity)
		if err != nil {
			if !isResolutionFailure(err) {
				return nil, err
			}
			rejected := fmt.Errorf("%w: item %d: %w", domain.ErrInvalidRequestBodyValue, i, err)
			uc.logRejectedPurchase(ctx, actor, len(input.Items), rejected)
			return nil, rejected
		}
		purchase.Items = append(purchase.Items, domain.PurchaseItem{
			ID:          uuid.NewString(),
			PurchaseID:  purchase.ID,
			VariantID:   snapshot.VariantID,
			ProductName: snapshot.ProductName,
			VariantType: snapshot.VariantType,
			Quantity:    item.Quantity,
			BoughtPrice: snapshot.UnitPrice,
			Note:        item.Note,
		})
	}

	fee, err := uc.feeCalculator.ComputeFee(ctx, input.Coordinate)
	if err != nil {
		if domain.KindOf(err) == domain.KindInvalidRequestBodyValue {
			uc.logRejectedPurchase(ctx, actor, len(input.Items), err)
		}
		return nil, err
	}
	purchase.Fee = fee

	if err := uc.purchaseRepo.CreatePurchase(ctx, purchase); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "purchase created",
		"purchase_id", purchase.ID,
		"reference", purchase.Reference,
		"account_id", purchase.AccountID,
		"items", len(purchase.Items),
		"total", purchase.Total().String(),
	)
	usecase.PublishAsync(uc.publisher, "creating",
		kafka.NewPurchaseEvent(kafka.EventPurchaseCreated, purchase, nil, "", now))
	uc.recordPurchaseCreated(purchase)

	return purchase, nil
}

func isResolutionFailure(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrUnavailable)
}

func (uc *DefaultPurchaseUsecase) logRejectedPurchase(ctx context.Context, actor domain.Actor, itemCount int, cause error) {
	kind := domain.KindOf(cause)
	slog.WarnContext(ctx, "purchase rejected", "account_id", actor.AccountID, "kind", kind, "error", cause)
	uc.recordPurchaseRejected(cause)

	if uc.auditLogger == nil {
		return
	}
	entry := &domain.RejectedPurchase{
		ID:           uuid.NewString(),
		AccountID:    actor.AccountID,
		ItemCount:    itemCount,
		ErrorKind:    kind,
		ErrorMessage: cause.Error(),
		CreatedAt:    uc.now(),
	}
	if err := uc.auditLogger.LogRejectedPurchase(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write rejected purchase log", "error", err)
	}
}
