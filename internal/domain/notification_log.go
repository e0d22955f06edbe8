package domain

import (
	"context"
	"time"
)

// NotificationLog is the audit row written for every inbound gateway
// notification, applied or not.
type NotificationLog struct {
	ID             string
	CorrelationID  string
	TransactionID  string
	PurchaseID     string
	GatewayStatus  string
	PayloadHash    string
	Outcome        string
	Success        bool
	ErrorMessage   string
	ProcessingTime int64
	ReceivedAt     time.Time
}

type NotificationLogFilter struct {
	CorrelationID string
	Outcome       string
	Success       *bool
	StartDate     time.Time
	EndDate       time.Time
	Limit         int
	Offset        int
}

// RejectedPurchase records a createPurchase call that failed item resolution.
type RejectedPurchase struct {
	ID           string
	AccountID    string
	ItemCount    int
	ErrorKind    ErrorKind
	ErrorMessage string
	CreatedAt    time.Time
}

type AuditLogger interface {
	LogNotification(ctx context.Context, entry *NotificationLog) error
	LogRejectedPurchase(ctx context.Context, entry *RejectedPurchase) error
}

type NotificationLogReader interface {
	GetNotificationLogs(ctx context.Context, filter NotificationLogFilter) ([]*NotificationLog, int64, error)
}
