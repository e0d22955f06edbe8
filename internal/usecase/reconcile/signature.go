package reconcile

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

// Sign computes the gateway signature of a notification:
// hex(SHA512(order_id + status_code + gross_amount + server_key)).
func Sign(n domain.PaymentNotification, serverKey string) string {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(n domain.PaymentNotification, serverKey string) bool {
	if n.SignatureKey == "" || serverKey == "" {
		return false
	}
	expected := Sign(n, serverKey)
	got := strings.ToLower(n.SignatureKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
