package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultPageLimit = 20

type DefaultPurchaseRepository struct {
	DB *gorm.DB
}

func NewDefaultPurchaseRepository(db *gorm.DB) *DefaultPurchaseRepository {
	return &DefaultPurchaseRepository{DB: db}
}

func (r *DefaultPurchaseRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) error {
	if purchase.Version == 0 {
		purchase.Version = 1
	}
	purchaseModel := mappers.ToGORMPurchase(purchase)
	if err := r.DB.WithContext(ctx).Create(purchaseModel).Error; err != nil {
		return fmt.Errorf("create purchase %s: %w", purchase.ID, err)
	}
	return nil
}

func (r *DefaultPurchaseRepository) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	purchaseModel, err := loadPurchase(r.DB.WithContext(ctx), purchaseID, false)
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainPurchase(purchaseModel), nil
}

func (r *DefaultPurchaseRepository) GetPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, int64, error) {
	var purchaseModels []models.PurchaseModel
	var total int64

	query := r.DB.WithContext(ctx).Model(&models.PurchaseModel{})
	if filter.AccountID != "" {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if !filter.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filter.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	err := query.
		Preload("Items").
		Preload("Transactions").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&purchaseModels).Error
	if err != nil {
		return nil, 0, err
	}

	purchases := make([]*domain.Purchase, 0, len(purchaseModels))
	for i := range purchaseModels {
		purchases = append(purchases, mappers.ToDomainPurchase(&purchaseModels[i]))
	}
	return purchases, total, nil
}

func (r *DefaultPurchaseRepository) UpdatePurchase(ctx context.Context, purchaseID string, fn domain.PurchaseMutation) (*domain.Purchase, error) {
	var updated *domain.Purchase

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadPurchase(tx, purchaseID, true)
		if err != nil {
			return err
		}

		known := make(map[string]struct{}, len(current.Transactions))
		for _, t := range current.Transactions {
			known[t.ID] = struct{}{}
		}

		purchase := mappers.ToDomainPurchase(current)
		if err := fn(purchase); err != nil {
			return err
		}

		result := tx.Model(&models.PurchaseModel{}).
			Where("id = ? AND version = ?", purchaseID, current.Version).
			Updates(map[string]interface{}{
				"status":     purchase.Status,
				"fee":        purchase.Fee,
				"address":    purchase.Address,
				"version":    current.Version + 1,
				"updated_at": purchase.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: purchase %s changed since version %d", domain.ErrConflict, purchaseID, current.Version)
		}
		purchase.Version = current.Version + 1

		for _, t := range purchase.Transactions {
			txModel := mappers.ToGORMTransaction(t)
			txModel.PurchaseID = purchaseID
			if _, ok := known[t.ID]; ok {
				err = tx.Model(&models.TransactionModel{}).
					Where("id = ?", t.ID).
					Select("status", "gateway_status", "finalized_at").
					Updates(txModel).Error
			} else {
				err = tx.Create(txModel).Error
			}
			if err != nil {
				return fmt.Errorf("save transaction %s: %w", t.ID, err)
			}
		}

		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *DefaultPurchaseRepository) GetTransactionByCorrelationID(ctx context.Context, correlationID string) (*domain.Transaction, error) {
	var txModel models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&txModel, "correlation_id = ?", correlationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction with correlation id %s", domain.ErrNotFound, correlationID)
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&txModel), nil
}

func (r *DefaultPurchaseRepository) GetTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel

	query := r.DB.WithContext(ctx).Model(&models.TransactionModel{})
	if filter.AccountID != "" {
		query = query.
			Joins("JOIN purchases ON purchases.id = transactions.purchase_id").
			Where("purchases.account_id = ?", filter.AccountID)
	}
	if filter.PurchaseID != "" {
		query = query.Where("transactions.purchase_id = ?", filter.PurchaseID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("transactions.status IN ?", filter.Statuses)
	}

	if err := query.Order("transactions.created_at ASC").Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(txModels))
	for i := range txModels {
		transactions = append(transactions, mappers.ToDomainTransaction(&txModels[i]))
	}
	return transactions, nil
}

func (r *DefaultPurchaseRepository) FindExpiredTransactions(ctx context.Context, now time.Time, limit int) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", domain.TransactionPending, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&txModels).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, 0, len(txModels))
	for i := range txModels {
		transactions = append(transactions, mappers.ToDomainTransaction(&txModels[i]))
	}
	return transactions, nil
}

// FindStalePurchases returns open purchases created before the cutoff. Whether
// one can actually expire is decided under its lock.
func (r *DefaultPurchaseRepository) FindStalePurchases(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Purchase, error) {
	var purchaseModels []models.PurchaseModel
	err := r.DB.WithContext(ctx).
		Preload("Transactions").
		Where("status IN ? AND created_at < ?",
			[]domain.PurchaseStatus{domain.PurchasePending, domain.PurchaseAwaitingPayment}, createdBefore).
		Order("created_at ASC").
		Limit(limit).
		Find(&purchaseModels).Error
	if err != nil {
		return nil, err
	}

	purchases := make([]*domain.Purchase, 0, len(purchaseModels))
	for i := range purchaseModels {
		purchases = append(purchases, mappers.ToDomainPurchase(&purchaseModels[i]))
	}
	return purchases, nil
}

func loadPurchase(db *gorm.DB, purchaseID string, forUpdate bool) (*models.PurchaseModel, error) {
	var purchaseModel models.PurchaseModel
	query := db
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&purchaseModel, "id = ?", purchaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase %s", domain.ErrNotFound, purchaseID)
		}
		return nil, err
	}

	// Children are loaded separately so the row lock covers only the purchase.
	if err := db.Where("purchase_id = ?", purchaseID).Find(&purchaseModel.Items).Error; err != nil {
		return nil, err
	}
	if err := db.Where("purchase_id = ?", purchaseID).Find(&purchaseModel.Transactions).Error; err != nil {
		return nil, err
	}
	return &purchaseModel, nil
}
