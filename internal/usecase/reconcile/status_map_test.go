package reconcile

import (
	"testing"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		status string
		fraud  string
		want   domain.TransactionStatus
	}{
		{"settlement", "", domain.TransactionSettled},
		{"capture", "accept", domain.TransactionSettled},
		{"capture", "", domain.TransactionSettled},
		{"capture", "challenge", domain.TransactionPending},
		{"capture", "deny", domain.TransactionFailed},
		{"pending", "", domain.TransactionPending},
		{"expire", "", domain.TransactionExpired},
		{"deny", "", domain.TransactionFailed},
		{"failure", "", domain.TransactionFailed},
		{"cancel", "", domain.TransactionCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			got, err := MapGatewayStatus(tt.status, tt.fraud)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapGatewayStatusUnknown(t *testing.T) {
	for _, status := range []string{"refund", "partial_refund", "", "SETTLEMENT"} {
		_, err := MapGatewayStatus(status, "")
		assert.ErrorIs(t, err, domain.ErrUnrecognizedStatus, status)
	}

	_, err := MapGatewayStatus("capture", "review")
	assert.ErrorIs(t, err, domain.ErrUnrecognizedStatus)
}
