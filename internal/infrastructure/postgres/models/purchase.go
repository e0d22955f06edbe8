package models

import (
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PurchaseModel struct {
	ID        string                `gorm:"primaryKey;type:uuid"`
	AccountID string                `gorm:"type:uuid;not null;index:idx_purchases_account"`
	Reference string                `gorm:"size:32;not null;uniqueIndex"`
	Address   string                `gorm:"type:text;not null"`
	Lat       float64               `gorm:"not null"`
	Lon       float64               `gorm:"not null"`
	Status    domain.PurchaseStatus `gorm:"size:32;not null;index:idx_purchases_status_created"`
	Fee       decimal.Decimal       `gorm:"type:numeric(14,2);not null"`
	Version   int64                 `gorm:"not null;default:1"`
	CreatedAt time.Time             `gorm:"index:idx_purchases_status_created"`
	UpdatedAt time.Time

	Items        []PurchaseItemModel `gorm:"foreignKey:PurchaseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Transactions []TransactionModel  `gorm:"foreignKey:PurchaseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (PurchaseModel) TableName() string {
	return "purchases"
}

type PurchaseItemModel struct {
	ID          string          `gorm:"primaryKey;type:uuid"`
	PurchaseID  string          `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	VariantID   string          `gorm:"not null"`
	ProductName string          `gorm:"not null"`
	VariantType string
	Quantity    int             `gorm:"not null"`
	BoughtPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Note        string          `gorm:"type:text"`
}

func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}
