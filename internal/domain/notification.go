package domain

import "time"

// PaymentNotification is an inbound, signed status report from the gateway.
// Field names follow the gateway's payload.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
	SettlementTime    string `json:"settlement_time,omitempty"`
	ExpiryTime        string `json:"expiry_time,omitempty"`
}

// gatewayTimeLayout is the gateway's local timestamp format.
const gatewayTimeLayout = "2006-01-02 15:04:05"

// EventTime is the moment the gateway reports for this status. Replays of the
// same notification always yield the same value.
func (n PaymentNotification) EventTime(loc *time.Location) (time.Time, bool) {
	candidates := []string{n.TransactionTime}
	switch n.TransactionStatus {
	case "settlement", "capture":
		candidates = []string{n.SettlementTime, n.TransactionTime}
	case "expire":
		candidates = []string{n.ExpiryTime, n.TransactionTime}
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if t, err := time.ParseInLocation(gatewayTimeLayout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
