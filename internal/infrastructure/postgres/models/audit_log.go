package models

import "time"

type NotificationLogModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	CorrelationID string `gorm:"index:idx_notification_logs_correlation"`
	TransactionID *string `gorm:"type:uuid"`
	PurchaseID    *string `gorm:"type:uuid"`

	// Payload summary
	GatewayStatus string
	PayloadHash   string `gorm:"index"`

	// Processing result
	Outcome        string
	Success        bool
	ErrorMessage   string `gorm:"type:text"`
	ProcessingTime int64

	ReceivedAt time.Time `gorm:"index:idx_notification_logs_received"`
}

func (NotificationLogModel) TableName() string {
	return "notification_logs"
}

type RejectedPurchaseModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	AccountID    string `gorm:"index"`
	ItemCount    int
	ErrorKind    string
	ErrorMessage string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
}

func (RejectedPurchaseModel) TableName() string {
	return "rejected_purchases"
}
