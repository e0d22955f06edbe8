package mappers

import (
	"sort"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/models"
)

func ToGORMPurchase(purchase *domain.Purchase) *models.PurchaseModel {
	items := make([]models.PurchaseItemModel, 0, len(purchase.Items))
	for i, item := range purchase.Items {
		items = append(items, models.PurchaseItemModel{
			ID:          item.ID,
			PurchaseID:  purchase.ID,
			Position:    i,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantType: item.VariantType,
			Quantity:    item.Quantity,
			BoughtPrice: item.BoughtPrice,
			Note:        item.Note,
		})
	}

	transactions := make([]models.TransactionModel, 0, len(purchase.Transactions))
	for _, tx := range purchase.Transactions {
		transactions = append(transactions, *ToGORMTransaction(tx))
	}

	return &models.PurchaseModel{
		ID:           purchase.ID,
		AccountID:    purchase.AccountID,
		Reference:    purchase.Reference,
		Address:      purchase.Address,
		Lat:          purchase.Coordinate.Lat,
		Lon:          purchase.Coordinate.Lon,
		Status:       purchase.Status,
		Fee:          purchase.Fee,
		Version:      purchase.Version,
		CreatedAt:    purchase.CreatedAt,
		UpdatedAt:    purchase.UpdatedAt,
		Items:        items,
		Transactions: transactions,
	}
}

func ToDomainPurchase(model *models.PurchaseModel) *domain.Purchase {
	itemModels := append([]models.PurchaseItemModel(nil), model.Items...)
	sort.SliceStable(itemModels, func(i, j int) bool {
		return itemModels[i].Position < itemModels[j].Position
	})
	items := make([]domain.PurchaseItem, 0, len(itemModels))
	for _, item := range itemModels {
		items = append(items, domain.PurchaseItem{
			ID:          item.ID,
			PurchaseID:  item.PurchaseID,
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantType: item.VariantType,
			Quantity:    item.Quantity,
			BoughtPrice: item.BoughtPrice,
			Note:        item.Note,
		})
	}

	txModels := append([]models.TransactionModel(nil), model.Transactions...)
	sort.SliceStable(txModels, func(i, j int) bool {
		return txModels[i].CreatedAt.Before(txModels[j].CreatedAt)
	})
	transactions := make([]*domain.Transaction, 0, len(txModels))
	for i := range txModels {
		transactions = append(transactions, ToDomainTransaction(&txModels[i]))
	}

	return &domain.Purchase{
		ID:           model.ID,
		AccountID:    model.AccountID,
		Reference:    model.Reference,
		Address:      model.Address,
		Coordinate:   domain.Coordinate{Lat: model.Lat, Lon: model.Lon},
		Status:       model.Status,
		Fee:          model.Fee,
		Items:        items,
		Transactions: transactions,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:            tx.ID,
		PurchaseID:    tx.PurchaseID,
		CorrelationID: tx.CorrelationID,
		Amount:        tx.Amount,
		PaymentType:   tx.PaymentType,
		Status:        tx.Status,
		GatewayStatus: tx.GatewayStatus,
		Token:         tx.Token,
		RedirectURL:   tx.RedirectURL,
		ExpiresAt:     tx.ExpiresAt,
		FinalizedAt:   tx.FinalizedAt,
		CreatedAt:     tx.CreatedAt,
	}
}

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:            model.ID,
		PurchaseID:    model.PurchaseID,
		CorrelationID: model.CorrelationID,
		Amount:        model.Amount,
		PaymentType:   model.PaymentType,
		Status:        model.Status,
		GatewayStatus: model.GatewayStatus,
		Token:         model.Token,
		RedirectURL:   model.RedirectURL,
		ExpiresAt:     model.ExpiresAt,
		FinalizedAt:   model.FinalizedAt,
		CreatedAt:     model.CreatedAt,
	}
}
