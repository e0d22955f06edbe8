package logger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newAuditLogger(t *testing.T) *PGAuditLogger {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))
	return NewPGAuditLogger(db)
}

func TestNotificationLogsRoundTrip(t *testing.T) {
	audit := newAuditLogger(t)
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	entries := []*domain.NotificationLog{
		{ID: uuid.NewString(), CorrelationID: "c-1", TransactionID: uuid.NewString(), GatewayStatus: "settlement", Outcome: "applied", Success: true, ReceivedAt: base},
		{ID: uuid.NewString(), CorrelationID: "c-1", GatewayStatus: "settlement", Outcome: "already_finalized", Success: true, ReceivedAt: base.Add(time.Minute)},
		{ID: uuid.NewString(), CorrelationID: "c-2", GatewayStatus: "refund", Success: false, ErrorMessage: "unrecognized", ReceivedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, audit.LogNotification(context.Background(), e))
	}

	logs, total, err := audit.GetNotificationLogs(context.Background(), domain.NotificationLogFilter{CorrelationID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	assert.Equal(t, "already_finalized", logs[0].Outcome)
	assert.Equal(t, entries[0].TransactionID, logs[1].TransactionID)
	assert.Empty(t, logs[0].TransactionID)

	failed := false
	logs, total, err = audit.GetNotificationLogs(context.Background(), domain.NotificationLogFilter{Success: &failed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "c-2", logs[0].CorrelationID)
}

func TestLogRejectedPurchase(t *testing.T) {
	audit := newAuditLogger(t)

	err := audit.LogRejectedPurchase(context.Background(), &domain.RejectedPurchase{
		ID:           uuid.NewString(),
		AccountID:    "acc-1",
		ItemCount:    2,
		ErrorKind:    domain.KindInvalidRequestBodyValue,
		ErrorMessage: "item 1: invalid quantity",
		CreatedAt:    time.Now(),
	})

	assert.NoError(t, err)
}
