package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SnapClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewSnapClient(config.Gateway{
		BaseURL:    server.URL,
		APIURL:     server.URL,
		ServerKey:  "SB-server-key",
		SessionTTL: 30 * time.Minute,
		Timeout:    time.Second,
	})
	client.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return client
}

func TestOpenSession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "SB-server-key", user)
		assert.Empty(t, pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		details := body["transaction_details"].(map[string]interface{})
		assert.Equal(t, "corr-1", details["order_id"])
		assert.Equal(t, 11750.0, details["gross_amount"])
		assert.Equal(t, 30.0, body["expiry"].(map[string]interface{})["duration"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"token":"tok-1","redirect_url":"https://pay.example/tok-1"}`))
	})

	session, err := client.OpenSession(context.Background(), domain.OpenSessionRequest{
		CorrelationID: "corr-1",
		PurchaseRef:   "REF1",
		Amount:        decimal.NewFromInt(11750),
		PaymentType:   domain.PaymentTypeDownPayment,
	})

	require.NoError(t, err)
	assert.Equal(t, "corr-1", session.CorrelationID)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "https://pay.example/tok-1", session.RedirectURL)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), session.ExpiresAt)
}

func TestOpenSessionGatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_messages":["Access denied"]}`))
	})

	_, err := client.OpenSession(context.Background(), domain.OpenSessionRequest{
		CorrelationID: "corr-2",
		Amount:        decimal.NewFromInt(100),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Contains(t, err.Error(), "Access denied")
}

func TestOpenSessionEmptyToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.OpenSession(context.Background(), domain.OpenSessionRequest{
		CorrelationID: "corr-3",
		Amount:        decimal.NewFromInt(100),
	})

	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestCancelSession(t *testing.T) {
	var called bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/v2/corr-4/cancel", r.URL.Path)
		_, _ = w.Write([]byte(`{"status_code":"200"}`))
	})

	require.NoError(t, client.CancelSession(context.Background(), "corr-4"))
	assert.True(t, called)
}

func TestCancelSessionUnreachable(t *testing.T) {
	client := NewSnapClient(config.Gateway{APIURL: "http://127.0.0.1:1", ServerKey: "k", Timeout: 200 * time.Millisecond})

	err := client.CancelSession(context.Background(), "corr-5")

	assert.ErrorIs(t, err, domain.ErrGateway)
}
