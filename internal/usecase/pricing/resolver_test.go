package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	variants map[string]*domain.Variant
	err      error
	calls    int
}

func (m *mockCatalog) GetVariant(_ context.Context, variantID string) (*domain.Variant, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.variants[variantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func newCatalog() *mockCatalog {
	return &mockCatalog{variants: map[string]*domain.Variant{
		"cake-whole": {
			ID: "cake-whole", Price: decimal.NewFromInt(10000), Type: "whole",
			ProductName: "Cheesecake", ProductAvailable: true, ProductMaxQuantity: 5,
		},
		"bread": {
			ID: "bread", Price: decimal.NewFromInt(5000), Type: "loaf",
			ProductName: "Sourdough", ProductAvailable: true,
		},
		"sold-out": {
			ID: "sold-out", Price: decimal.NewFromInt(7000),
			ProductName: "Croissant", ProductAvailable: false,
		},
		"gone": {
			ID: "gone", Price: decimal.NewFromInt(7000),
			ProductName: "Old Tart", ProductAvailable: true, Deleted: true,
		},
	}}
}

func TestResolve(t *testing.T) {
	r := NewDefaultResolver(newCatalog(), 250)

	snap, err := r.Resolve(context.Background(), "cake-whole", 2)

	require.NoError(t, err)
	assert.True(t, snap.UnitPrice.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "Cheesecake", snap.ProductName)
	assert.Equal(t, "whole", snap.VariantType)
}

func TestResolveQuantityBounds(t *testing.T) {
	tests := []struct {
		name      string
		variantID string
		quantity  int
		wantErr   bool
	}{
		{"zero", "bread", 0, true},
		{"negative", "bread", -3, true},
		{"product max", "cake-whole", 5, false},
		{"above product max", "cake-whole", 6, true},
		{"default max", "bread", 250, false},
		{"above default max", "bread", 251, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDefaultResolver(newCatalog(), 250)

			_, err := r.Resolve(context.Background(), tt.variantID, tt.quantity)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
				assert.Equal(t, domain.KindInvalidRequestBodyValue, domain.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveNonPositiveQuantitySkipsCatalog(t *testing.T) {
	catalog := newCatalog()
	r := NewDefaultResolver(catalog, 250)

	_, err := r.Resolve(context.Background(), "bread", 0)

	require.Error(t, err)
	assert.Zero(t, catalog.calls)
}

func TestResolveUnavailable(t *testing.T) {
	r := NewDefaultResolver(newCatalog(), 250)

	_, err := r.Resolve(context.Background(), "sold-out", 1)

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestResolveNotFound(t *testing.T) {
	r := NewDefaultResolver(newCatalog(), 250)

	_, err := r.Resolve(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.Resolve(context.Background(), "gone", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveCatalogFailure(t *testing.T) {
	catalog := newCatalog()
	catalog.err = errors.New("connection reset")
	r := NewDefaultResolver(catalog, 250)

	_, err := r.Resolve(context.Background(), "bread", 1)

	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}
