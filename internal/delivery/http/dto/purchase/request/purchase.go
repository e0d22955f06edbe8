package request

type CreatePurchaseRequest struct {
	Address string        `json:"address"`
	Lat     float64       `json:"lat"`
	Lon     float64       `json:"lon"`
	Items   []ItemRequest `json:"items"`
}

type ItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

type InitiatePaymentRequest struct {
	PaymentType string `json:"payment_type"`
}
