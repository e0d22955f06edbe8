package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseResponse struct {
	ID                 string                `json:"id"`
	Reference          string                `json:"reference"`
	AccountID          string                `json:"account_id"`
	Address            string                `json:"address"`
	Lat                float64               `json:"lat"`
	Lon                float64               `json:"lon"`
	Status             string                `json:"status"`
	NextStatus         string                `json:"next_status,omitempty"`
	Items              []ItemResponse        `json:"items"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	Fee                decimal.Decimal       `json:"fee"`
	Total              decimal.Decimal       `json:"total"`
	SettledAmount      decimal.Decimal       `json:"settled_amount"`
	OutstandingBalance decimal.Decimal       `json:"outstanding_balance"`
	Transactions       []TransactionResponse `json:"transactions"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type ItemResponse struct {
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantType string          `json:"variant_type,omitempty"`
	Quantity    int             `json:"quantity"`
	BoughtPrice decimal.Decimal `json:"bought_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Note        string          `json:"note,omitempty"`
}

type TransactionResponse struct {
	ID            string          `json:"id"`
	PurchaseID    string          `json:"purchase_id"`
	CorrelationID string          `json:"correlation_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   string          `json:"payment_type"`
	Status        string          `json:"status"`
	GatewayStatus string          `json:"gateway_status,omitempty"`
	Token         string          `json:"token,omitempty"`
	RedirectURL   string          `json:"redirect_url,omitempty"`
	ExpiresAt     time.Time       `json:"expires_at"`
	FinalizedAt   *time.Time      `json:"finalized_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ListPurchasesResponse struct {
	Purchases  []PurchaseResponse `json:"purchases"`
	Pagination Pagination         `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

type NotificationLogResponse struct {
	ID             string    `json:"id"`
	CorrelationID  string    `json:"correlation_id"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	PurchaseID     string    `json:"purchase_id,omitempty"`
	GatewayStatus  string    `json:"gateway_status"`
	PayloadHash    string    `json:"payload_hash"`
	Outcome        string    `json:"outcome"`
	Success        bool      `json:"success"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	ProcessingTime int64     `json:"processing_time_ms"`
	ReceivedAt     time.Time `json:"received_at"`
}

type NotificationLogsResponse struct {
	Logs  []NotificationLogResponse `json:"logs"`
	Total int64                     `json:"total"`
}

type WebhookResponse struct {
	Outcome string `json:"outcome"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
