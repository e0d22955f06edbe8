package models

import (
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionModel struct {
	ID            string                   `gorm:"primaryKey;type:uuid"`
	PurchaseID    string                   `gorm:"type:uuid;not null;index"`
	CorrelationID string                   `gorm:"size:64;not null;uniqueIndex"`
	Amount        decimal.Decimal          `gorm:"type:numeric(14,2);not null"`
	PaymentType   domain.PaymentType       `gorm:"size:32;not null"`
	Status        domain.TransactionStatus `gorm:"size:32;not null;index:idx_transactions_status_expires"`
	GatewayStatus string                   `gorm:"size:32"`
	Token         string
	RedirectURL   string                   `gorm:"type:text"`
	ExpiresAt     time.Time                `gorm:"index:idx_transactions_status_expires"`
	FinalizedAt   *time.Time
	CreatedAt     time.Time
}

func (TransactionModel) TableName() string {
	return "transactions"
}
