package gateway

import "encoding/json"

type transactionDetails struct {
	OrderID     string      `json:"order_id"`
	GrossAmount json.Number `json:"gross_amount"`
}

type expiry struct {
	Unit     string `json:"unit"`
	Duration int64  `json:"duration"`
}

type createSessionRequest struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	Expiry             expiry             `json:"expiry"`
	// Echoed back by the gateway in notifications.
	CustomField1 string `json:"custom_field1,omitempty"`
	CustomField2 string `json:"custom_field2,omitempty"`
}

type createSessionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type errorResponse struct {
	StatusCode    string   `json:"status_code,omitempty"`
	StatusMessage string   `json:"status_message,omitempty"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}

func (e errorResponse) message() string {
	if len(e.ErrorMessages) > 0 {
		return e.ErrorMessages[0]
	}
	return e.StatusMessage
}
