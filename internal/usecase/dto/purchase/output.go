package purchasedto

import "github.com/LavaJover/bakery-order-service/internal/domain"

type ListPurchasesOutput struct {
	Purchases  []*domain.Purchase
	Pagination Pagination
}

type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int64
	ItemsPerPage int
}
