package purchasedto

import (
	"time"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

type CreatePurchaseInput struct {
	Address    string
	Coordinate domain.Coordinate
	Items      []ItemInput
}

type ItemInput struct {
	VariantID string
	Quantity  int
	Note      string
}

type ListPurchasesInput struct {
	// AccountID narrows an admin listing; customers always see their own.
	AccountID string
	Statuses  []string
	DateFrom  time.Time
	DateTo    time.Time
	Page      int
	Limit     int
}
