package purchase

import (
	"context"
	"fmt"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	purchasedto "github.com/LavaJover/bakery-order-service/internal/usecase/dto/purchase"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func (uc *DefaultPurchaseUsecase) GetPurchase(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error) {
	purchase, err := uc.purchaseRepo.GetPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(purchase.AccountID) {
		return nil, fmt.Errorf("%w: purchase %s", domain.ErrUnauthorized, purchaseID)
	}
	return purchase, nil
}

func (uc *DefaultPurchaseUsecase) ListPurchases(ctx context.Context, actor domain.Actor, input *purchasedto.ListPurchasesInput) (*purchasedto.ListPurchasesOutput, error) {
	if input == nil {
		input = &purchasedto.ListPurchasesInput{}
	}

	filter := domain.PurchaseFilter{
		AccountID: input.AccountID,
		DateFrom:  input.DateFrom,
		DateTo:    input.DateTo,
		Page:      input.Page,
		Limit:     input.Limit,
	}
	if !actor.IsAdmin() {
		if actor.AccountID == "" || (input.AccountID != "" && input.AccountID != actor.AccountID) {
			return nil, fmt.Errorf("%w: cannot list purchases of another account", domain.ErrUnauthorized)
		}
		filter.AccountID = actor.AccountID
	}
	for _, s := range input.Statuses {
		status, err := domain.ParsePurchaseStatus(s)
		if err != nil {
			return nil, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	purchases, total, err := uc.purchaseRepo.GetPurchases(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &purchasedto.ListPurchasesOutput{
		Purchases: purchases,
		Pagination: purchasedto.Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: filter.Limit,
		},
	}, nil
}

func (uc *DefaultPurchaseUsecase) ListTransactionsByPurchase(ctx context.Context, actor domain.Actor, purchaseID string) ([]*domain.Transaction, error) {
	if _, err := uc.GetPurchase(ctx, actor, purchaseID); err != nil {
		return nil, err
	}
	return uc.purchaseRepo.GetTransactions(ctx, domain.TransactionFilter{PurchaseID: purchaseID})
}

func (uc *DefaultPurchaseUsecase) ListTransactionsByAccount(ctx context.Context, actor domain.Actor, accountID string) ([]*domain.Transaction, error) {
	if accountID == "" || !actor.Owns(accountID) {
		return nil, fmt.Errorf("%w: transactions of account %s", domain.ErrUnauthorized, accountID)
	}
	return uc.purchaseRepo.GetTransactions(ctx, domain.TransactionFilter{AccountID: accountID})
}
