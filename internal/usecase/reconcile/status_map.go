package reconcile

import (
	"fmt"

	"github.com/LavaJover/bakery-order-service/internal/domain"
)

// MapGatewayStatus translates a gateway transaction status into the local
// transaction status. TransactionPending means the notification is
// acknowledged without any state change.
func MapGatewayStatus(transactionStatus, fraudStatus string) (domain.TransactionStatus, error) {
	switch transactionStatus {
	case "settlement":
		return domain.TransactionSettled, nil
	case "capture":
		switch fraudStatus {
		case "", "accept":
			return domain.TransactionSettled, nil
		case "challenge":
			return domain.TransactionPending, nil
		case "deny":
			return domain.TransactionFailed, nil
		}
	case "pending", "authorize":
		return domain.TransactionPending, nil
	case "expire":
		return domain.TransactionExpired, nil
	case "deny", "failure":
		return domain.TransactionFailed, nil
	case "cancel":
		return domain.TransactionCancelled, nil
	}
	return "", fmt.Errorf("%w: %q (fraud status %q)", domain.ErrUnrecognizedStatus, transactionStatus, fraudStatus)
}
