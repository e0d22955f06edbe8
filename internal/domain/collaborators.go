package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Variant is the catalog's view of a purchasable variant.
type Variant struct {
	ID                 string
	Price              decimal.Decimal
	Type               string
	ProductName        string
	ProductAvailable   bool
	ProductMaxQuantity int
	Deleted            bool
}

type CatalogClient interface {
	GetVariant(ctx context.Context, variantID string) (*Variant, error)
}

type FeeCalculator interface {
	ComputeFee(ctx context.Context, coordinate Coordinate) (decimal.Decimal, error)
}

type PaymentSession struct {
	CorrelationID string
	Token         string
	RedirectURL   string
	ExpiresAt     time.Time
}

type OpenSessionRequest struct {
	CorrelationID string
	PurchaseRef   string
	Amount        decimal.Decimal
	PaymentType   PaymentType
}

// PaymentGateway opens hosted payment sessions. Implementations wrap every
// failure in ErrGateway.
type PaymentGateway interface {
	OpenSession(ctx context.Context, req OpenSessionRequest) (*PaymentSession, error)
	CancelSession(ctx context.Context, correlationID string) error
}
