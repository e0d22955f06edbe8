package logger

import (
	"context"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// PGAuditLogger persists audit rows next to the purchases they describe.
type PGAuditLogger struct {
	db *gorm.DB
}

func NewPGAuditLogger(db *gorm.DB) *PGAuditLogger {
	return &PGAuditLogger{db: db}
}

func (l *PGAuditLogger) LogNotification(ctx context.Context, entry *domain.NotificationLog) error {
	return l.db.WithContext(ctx).Create(mappers.ToGORMNotificationLog(entry)).Error
}

func (l *PGAuditLogger) LogRejectedPurchase(ctx context.Context, entry *domain.RejectedPurchase) error {
	return l.db.WithContext(ctx).Create(mappers.ToGORMRejectedPurchase(entry)).Error
}

func (l *PGAuditLogger) GetNotificationLogs(ctx context.Context, filter domain.NotificationLogFilter) ([]*domain.NotificationLog, int64, error) {
	query := l.db.WithContext(ctx).Model(&models.NotificationLogModel{})

	if filter.CorrelationID != "" {
		query = query.Where("correlation_id = ?", filter.CorrelationID)
	}
	if filter.Outcome != "" {
		query = query.Where("outcome = ?", filter.Outcome)
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if !filter.StartDate.IsZero() {
		query = query.Where("received_at >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query = query.Where("received_at <= ?", filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows []models.NotificationLogModel
	if err := query.Order("received_at DESC").Limit(limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]*domain.NotificationLog, 0, len(rows))
	for i := range rows {
		logs = append(logs, mappers.ToDomainNotificationLog(&rows[i]))
	}
	return logs, total, nil
}
