package purchase

import (
	"fmt"
	"strings"

	"github.com/LavaJover/bakery-order-service/internal/domain"
	purchasedto "github.com/LavaJover/bakery-order-service/internal/usecase/dto/purchase"
)

const (
	maxAddressLength = 500
	maxNoteLength    = 500
)

// normalizeCreateInput trims free text and rejects structurally invalid input
// before anything is resolved.
func normalizeCreateInput(input *purchasedto.CreatePurchaseInput) (*purchasedto.CreatePurchaseInput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: empty request", domain.ErrInvalidRequestBodyValue)
	}

	normalized := &purchasedto.CreatePurchaseInput{
		Address:    collapseSpaces(input.Address),
		Coordinate: input.Coordinate,
		Items:      make([]purchasedto.ItemInput, 0, len(input.Items)),
	}
	if normalized.Address == "" {
		return nil, fmt.Errorf("%w: address is required", domain.ErrInvalidRequestBodyValue)
	}
	if len(normalized.Address) > maxAddressLength {
		return nil, fmt.Errorf("%w: address longer than %d characters", domain.ErrInvalidRequestBodyValue, maxAddressLength)
	}
	if !normalized.Coordinate.Valid() {
		return nil, fmt.Errorf("%w: coordinate out of range", domain.ErrInvalidRequestBodyValue)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", domain.ErrInvalidRequestBodyValue)
	}

	for i, item := range input.Items {
		item.VariantID = strings.TrimSpace(item.VariantID)
		item.Note = strings.TrimSpace(item.Note)
		if item.VariantID == "" {
			return nil, fmt.Errorf("%w: item %d: variant id is required", domain.ErrInvalidRequestBodyValue, i)
		}
		if len(item.Note) > maxNoteLength {
			return nil, fmt.Errorf("%w: item %d: note longer than %d characters", domain.ErrInvalidRequestBodyValue, i, maxNoteLength)
		}
		normalized.Items = append(normalized.Items, item)
	}
	return normalized, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
