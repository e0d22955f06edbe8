package mappers

import (
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/models"
)

func ToGORMNotificationLog(entry *domain.NotificationLog) *models.NotificationLogModel {
	return &models.NotificationLogModel{
		ID:             entry.ID,
		CorrelationID:  entry.CorrelationID,
		TransactionID:  optional(entry.TransactionID),
		PurchaseID:     optional(entry.PurchaseID),
		GatewayStatus:  entry.GatewayStatus,
		PayloadHash:    entry.PayloadHash,
		Outcome:        entry.Outcome,
		Success:        entry.Success,
		ErrorMessage:   entry.ErrorMessage,
		ProcessingTime: entry.ProcessingTime,
		ReceivedAt:     entry.ReceivedAt,
	}
}

func ToDomainNotificationLog(model *models.NotificationLogModel) *domain.NotificationLog {
	return &domain.NotificationLog{
		ID:             model.ID,
		CorrelationID:  model.CorrelationID,
		TransactionID:  deref(model.TransactionID),
		PurchaseID:     deref(model.PurchaseID),
		GatewayStatus:  model.GatewayStatus,
		PayloadHash:    model.PayloadHash,
		Outcome:        model.Outcome,
		Success:        model.Success,
		ErrorMessage:   model.ErrorMessage,
		ProcessingTime: model.ProcessingTime,
		ReceivedAt:     model.ReceivedAt,
	}
}

func ToGORMRejectedPurchase(entry *domain.RejectedPurchase) *models.RejectedPurchaseModel {
	return &models.RejectedPurchaseModel{
		ID:           entry.ID,
		AccountID:    entry.AccountID,
		ItemCount:    entry.ItemCount,
		ErrorKind:    string(entry.ErrorKind),
		ErrorMessage: entry.ErrorMessage,
		CreatedAt:    entry.CreatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
