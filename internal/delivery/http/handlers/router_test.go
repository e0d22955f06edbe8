package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/metrics"
	"github.com/LavaJover/bakery-order-service/internal/usecase/pricing"
	"github.com/LavaJover/bakery-order-service/internal/usecase/purchase"
	"github.com/LavaJover/bakery-order-service/internal/usecase/reconcile"
	"github.com/LavaJover/bakery-order-service/internal/usecase/usecasetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	serverKey  = "SB-Mid-server-test"
	customerID = "5b0f8a52-3b8e-4c55-9a3e-0c6f1f1f7a01"
	strangerID = "9d3c2f11-7a4b-4e0e-8c51-2f5d7e6b9c02"
	adminID    = "1e2d3c4b-5a69-4788-9a0b-c1d2e3f4a503"
)

type stubLogReader struct {
	logs []*domain.NotificationLog
}

func (s stubLogReader) GetNotificationLogs(context.Context, domain.NotificationLogFilter) ([]*domain.NotificationLog, int64, error) {
	return s.logs, int64(len(s.logs)), nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.NewPurchaseMetrics(reg)
	repo := usecasetest.NewMemoryPurchaseRepository()
	audit := &usecasetest.RecordingAudit{}
	catalog := usecasetest.StaticCatalog{
		"v-bread": {ID: "v-bread", Price: decimal.NewFromInt(10000), ProductName: "Sourdough", ProductAvailable: true},
		"v-bun":   {ID: "v-bun", Price: decimal.NewFromInt(5000), ProductName: "Cinnamon bun", ProductAvailable: true},
	}
	policy, err := purchase.NewDownPaymentPolicy(config.Payment{DownPaymentPolicy: purchase.PolicyFraction, DownPaymentValue: 0.5})
	require.NoError(t, err)

	uc := purchase.NewDefaultPurchaseUsecase(
		repo,
		pricing.NewDefaultResolver(catalog, 250),
		usecasetest.StaticFee{Fee: decimal.NewFromInt(3500)},
		&usecasetest.FakeGateway{TTL: time.Hour},
		audit,
		nil,
		m,
		policy,
		3,
	)
	rec := reconcile.NewDefaultReconciler(repo, audit, nil, m, serverKey, time.UTC, 3)
	logs := stubLogReader{logs: []*domain.NotificationLog{{ID: "log-1", CorrelationID: "c-1", Outcome: "applied", Success: true}}}

	return NewRouter(NewPurchaseHandler(uc), NewWebhookHandler(rec), NewAdminHandler(logs), reg)
}

func do(t *testing.T, h http.Handler, method, path, accountID, role string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if accountID != "" {
		req.Header.Set(HeaderAccountID, accountID)
	}
	if role != "" {
		req.Header.Set(HeaderAccountRole, role)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var decoded map[string]any
	if rr.Body.Len() > 0 && rr.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	}
	return rr, decoded
}

func createBody() map[string]any {
	return map[string]any{
		"address": "Jl. Sudirman 12",
		"lat":     -6.2,
		"lon":     106.8,
		"items": []map[string]any{
			{"variant_id": "v-bread", "quantity": 1},
			{"variant_id": "v-bun", "quantity": 2},
		},
	}
}

func settlement(correlationID, amount, status string) domain.PaymentNotification {
	n := domain.PaymentNotification{
		OrderID:           correlationID,
		StatusCode:        "200",
		GrossAmount:       amount,
		TransactionStatus: status,
		TransactionTime:   "2025-05-01 12:00:00",
	}
	n.SignatureKey = reconcile.Sign(n, serverKey)
	return n
}

func TestPurchaseLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t)

	rr, created := do(t, h, http.MethodPost, "/purchases", customerID, "", createBody())
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "PENDING", created["status"])
	assert.Equal(t, "AWAITING_PAYMENT", created["next_status"])
	assert.Equal(t, "23500", created["total"])
	id := created["id"].(string)

	rr, tx := do(t, h, http.MethodPost, "/purchases/"+id+"/payments", customerID, "", map[string]string{"payment_type": "full_payment"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "23500", tx["amount"])
	assert.Equal(t, "PENDING", tx["status"])
	correlationID := tx["correlation_id"].(string)

	rr, ack := do(t, h, http.MethodPost, "/webhooks/payment", "", "", settlement(correlationID, "23500.00", "settlement"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "applied", ack["outcome"])

	rr, ack = do(t, h, http.MethodPost, "/webhooks/payment", "", "", settlement(correlationID, "23500.00", "settlement"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "already_finalized", ack["outcome"])

	rr, got := do(t, h, http.MethodGet, "/purchases/"+id, customerID, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "CONFIRMED", got["status"])
	assert.Equal(t, "PROCESSING", got["next_status"])
	assert.Equal(t, "0", got["outstanding_balance"])

	rr, _ = do(t, h, http.MethodPost, "/purchases/"+id+"/advance", adminID, "ADMIN", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr, advanced := do(t, h, http.MethodPost, "/purchases/"+id+"/advance", adminID, "admin", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "COMPLETED", advanced["status"])
	assert.NotContains(t, advanced, "next_status")

	rr, failed := do(t, h, http.MethodPost, "/purchases/"+id+"/cancel", customerID, "", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "IllegalOperation", failed["error"])
}

func TestMissingActorIsUnauthenticated(t *testing.T) {
	h := newTestServer(t)

	rr, body := do(t, h, http.MethodPost, "/purchases", "", "", createBody())
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Unauthorized", body["error"])

	rr, _ = do(t, h, http.MethodGet, "/purchases", "not-a-uuid", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestForeignPurchaseIsForbidden(t *testing.T) {
	h := newTestServer(t)
	_, created := do(t, h, http.MethodPost, "/purchases", customerID, "", createBody())
	id := created["id"].(string)

	rr, _ := do(t, h, http.MethodGet, "/purchases/"+id, strangerID, "", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = do(t, h, http.MethodGet, "/accounts/"+customerID+"/transactions", strangerID, "", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = do(t, h, http.MethodGet, "/purchases/"+id, adminID, "ADMIN", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreatePurchaseValidationErrors(t *testing.T) {
	h := newTestServer(t)

	body := createBody()
	body["items"] = []map[string]any{{"variant_id": "v-bread", "quantity": 0}}
	rr, resp := do(t, h, http.MethodPost, "/purchases", customerID, "", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "InvalidRequestBodyValue", resp["error"])

	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewBufferString("{"))
	req.Header.Set(HeaderAccountID, customerID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rr, _ = do(t, h, http.MethodGet, "/purchases/missing", customerID, "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWebhookResponses(t *testing.T) {
	h := newTestServer(t)
	_, created := do(t, h, http.MethodPost, "/purchases", customerID, "", createBody())
	_, tx := do(t, h, http.MethodPost, "/purchases/"+created["id"].(string)+"/payments", customerID, "", map[string]string{"payment_type": "DOWN_PAYMENT"})
	correlationID := tx["correlation_id"].(string)

	forged := settlement(correlationID, "11750.00", "settlement")
	forged.SignatureKey = "deadbeef"
	rr, body := do(t, h, http.MethodPost, "/webhooks/payment", "", "", forged)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ignored", body["outcome"])

	rr, _ = do(t, h, http.MethodPost, "/webhooks/payment", "", "", settlement("unknown-id", "1.00", "settlement"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, h, http.MethodPost, "/webhooks/payment", "", "", settlement(correlationID, "11750.00", "refund"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr, _ = do(t, h, http.MethodPost, "/webhooks/payment", "", "", settlement(correlationID, "99.00", "settlement"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr, body = do(t, h, http.MethodPost, "/webhooks/payment", "", "", settlement(correlationID, "11750.00", "pending"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "acknowledged", body["outcome"])
}

func TestAdminNotificationLogs(t *testing.T) {
	h := newTestServer(t)

	rr, _ := do(t, h, http.MethodGet, "/admin/notifications", customerID, "", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, body := do(t, h, http.MethodGet, "/admin/notifications?success=true", adminID, "ADMIN", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), body["total"])

	rr, _ = do(t, h, http.MethodGet, "/admin/notifications?success=maybe", adminID, "ADMIN", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)

	rr, body := do(t, h, http.MethodGet, "/healthz", "", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
