package handlers

import (
	"github.com/LavaJover/bakery-order-service/internal/delivery/http/dto/purchase/response"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	purchasedto "github.com/LavaJover/bakery-order-service/internal/usecase/dto/purchase"
)

func toPurchaseResponse(p *domain.Purchase) response.PurchaseResponse {
	items := make([]response.ItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = response.ItemResponse{
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			VariantType: item.VariantType,
			Quantity:    item.Quantity,
			BoughtPrice: item.BoughtPrice,
			Subtotal:    item.Subtotal(),
			Note:        item.Note,
		}
	}
	var nextStatus string
	if next, ok := p.Status.NextStatus(); ok {
		nextStatus = string(next)
	}
	return response.PurchaseResponse{
		ID:                 p.ID,
		Reference:          p.Reference,
		AccountID:          p.AccountID,
		Address:            p.Address,
		Lat:                p.Coordinate.Lat,
		Lon:                p.Coordinate.Lon,
		Status:             string(p.Status),
		NextStatus:         nextStatus,
		Items:              items,
		Subtotal:           p.Subtotal(),
		Fee:                p.Fee,
		Total:              p.Total(),
		SettledAmount:      p.SettledAmount(),
		OutstandingBalance: p.OutstandingBalance(),
		Transactions:       toTransactionResponses(p.Transactions),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toTransactionResponse(tx *domain.Transaction) response.TransactionResponse {
	return response.TransactionResponse{
		ID:            tx.ID,
		PurchaseID:    tx.PurchaseID,
		CorrelationID: tx.CorrelationID,
		Amount:        tx.Amount,
		PaymentType:   string(tx.PaymentType),
		Status:        string(tx.Status),
		GatewayStatus: tx.GatewayStatus,
		Token:         tx.Token,
		RedirectURL:   tx.RedirectURL,
		ExpiresAt:     tx.ExpiresAt,
		FinalizedAt:   tx.FinalizedAt,
		CreatedAt:     tx.CreatedAt,
	}
}

func toTransactionResponses(txs []*domain.Transaction) []response.TransactionResponse {
	out := make([]response.TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionResponse(tx)
	}
	return out
}

func toListPurchasesResponse(out *purchasedto.ListPurchasesOutput) response.ListPurchasesResponse {
	purchases := make([]response.PurchaseResponse, len(out.Purchases))
	for i, p := range out.Purchases {
		purchases[i] = toPurchaseResponse(p)
	}
	return response.ListPurchasesResponse{
		Purchases: purchases,
		Pagination: response.Pagination{
			CurrentPage:  out.Pagination.CurrentPage,
			TotalPages:   out.Pagination.TotalPages,
			TotalItems:   out.Pagination.TotalItems,
			ItemsPerPage: out.Pagination.ItemsPerPage,
		},
	}
}

func toNotificationLogResponse(l *domain.NotificationLog) response.NotificationLogResponse {
	return response.NotificationLogResponse{
		ID:             l.ID,
		CorrelationID:  l.CorrelationID,
		TransactionID:  l.TransactionID,
		PurchaseID:     l.PurchaseID,
		GatewayStatus:  l.GatewayStatus,
		PayloadHash:    l.PayloadHash,
		Outcome:        l.Outcome,
		Success:        l.Success,
		ErrorMessage:   l.ErrorMessage,
		ProcessingTime: l.ProcessingTime,
		ReceivedAt:     l.ReceivedAt,
	}
}
