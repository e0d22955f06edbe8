package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Snapshot is the price of a variant captured at order time.
type Snapshot struct {
	VariantID   string
	UnitPrice   decimal.Decimal
	ProductName string
	VariantType string
}

type Resolver interface {
	Resolve(ctx context.Context, variantID string, quantity int) (*Snapshot, error)
}

type DefaultResolver struct {
	catalog            domain.CatalogClient
	defaultMaxQuantity int
}

// NewDefaultResolver bounds quantities by the product's own maximum, or by
// defaultMaxQuantity when the catalog reports none.
func NewDefaultResolver(catalog domain.CatalogClient, defaultMaxQuantity int) *DefaultResolver {
	return &DefaultResolver{
		catalog:            catalog,
		defaultMaxQuantity: defaultMaxQuantity,
	}
}

func (r *DefaultResolver) Resolve(ctx context.Context, variantID string, quantity int) (*Snapshot, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity %d is below 1", domain.ErrInvalidQuantity, quantity)
	}

	variant, err := r.catalog.GetVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve variant %s: %w", variantID, err)
	}
	if variant.Deleted {
		return nil, fmt.Errorf("%w: variant %s", domain.ErrNotFound, variantID)
	}
	if !variant.ProductAvailable {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnavailable, variant.ProductName)
	}

	maxQuantity := variant.ProductMaxQuantity
	if maxQuantity <= 0 {
		maxQuantity = r.defaultMaxQuantity
	}
	if maxQuantity > 0 && quantity > maxQuantity {
		return nil, fmt.Errorf("%w: quantity %d exceeds maximum %d for %s",
			domain.ErrInvalidQuantity, quantity, maxQuantity, variant.ProductName)
	}

	return &Snapshot{
		VariantID:   variantID,
		UnitPrice:   variant.Price,
		ProductName: variant.ProductName,
		VariantType: variant.Type,
	}, nil
}
