package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/domain"
)

// SnapClient opens hosted payment sessions on a Snap-style gateway. The
// server key doubles as the basic-auth user and the notification signing key.
type SnapClient struct {
	baseURL    string
	apiURL     string
	serverKey  string
	sessionTTL time.Duration
	httpClient *http.Client
	now        func() time.Time
}

func NewSnapClient(cfg config.Gateway) *SnapClient {
	return &SnapClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		serverKey:  cfg.ServerKey,
		sessionTTL: cfg.SessionTTL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

func (c *SnapClient) OpenSession(ctx context.Context, req domain.OpenSessionRequest) (*domain.PaymentSession, error) {
	requestBody := createSessionRequest{
		TransactionDetails: transactionDetails{
			OrderID:     req.CorrelationID,
			GrossAmount: json.Number(req.Amount.String()),
		},
		Expiry: expiry{
			Unit:     "minutes",
			Duration: int64(c.sessionTTL / time.Minute),
		},
		CustomField1: req.PurchaseRef,
		CustomField2: string(req.PaymentType),
	}

	openedAt := c.now()
	var responseBody createSessionResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", requestBody, &responseBody); err != nil {
		return nil, fmt.Errorf("%w: open session %s: %v", domain.ErrGateway, req.CorrelationID, err)
	}
	if responseBody.Token == "" {
		return nil, fmt.Errorf("%w: open session %s: empty token", domain.ErrGateway, req.CorrelationID)
	}

	return &domain.PaymentSession{
		CorrelationID: req.CorrelationID,
		Token:         responseBody.Token,
		RedirectURL:   responseBody.RedirectURL,
		ExpiresAt:     openedAt.Add(c.sessionTTL),
	}, nil
}

func (c *SnapClient) CancelSession(ctx context.Context, correlationID string) error {
	url := fmt.Sprintf("%s/v2/%s/cancel", c.apiURL, correlationID)
	if err := c.do(ctx, http.MethodPost, url, nil, nil); err != nil {
		return fmt.Errorf("%w: cancel session %s: %v", domain.ErrGateway, correlationID, err)
	}
	return nil
}

func (c *SnapClient) do(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		requestBodyBytes, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(requestBodyBytes)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.SetBasicAuth(c.serverKey, "")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.Unmarshal(responseBodyBytes, out)
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil || errResp.message() == "" {
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}
	return fmt.Errorf("status %d: %s", response.StatusCode, errResp.message())
}
