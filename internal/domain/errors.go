package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidRequestBodyValue = errors.New("invalid request body value")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrIllegalOperation        = errors.New("illegal operation")
	ErrConflict                = errors.New("concurrent modification")
	ErrGateway                 = errors.New("payment gateway error")
	ErrUnrecognizedStatus      = errors.New("unrecognized gateway status")

	// Resolution failures. Each one also reads as ErrInvalidRequestBodyValue
	// once the orchestrator rejects the purchase.
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrUnavailable     = errors.New("product unavailable")
)

type ErrorKind string

const (
	KindNotFound                ErrorKind = "NotFound"
	KindInvalidRequestBodyValue ErrorKind = "InvalidRequestBodyValue"
	KindUnauthorized            ErrorKind = "Unauthorized"
	KindIllegalOperation        ErrorKind = "IllegalOperation"
	KindConflict                ErrorKind = "Conflict"
	KindGatewayError            ErrorKind = "GatewayError"
	KindUnrecognizedStatus      ErrorKind = "UnrecognizedStatus"
	KindInternal                ErrorKind = "Internal"
)

// KindOf maps an error chain to its stable kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequestBodyValue),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrUnavailable):
		return KindInvalidRequestBodyValue
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrIllegalOperation):
		return KindIllegalOperation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrGateway):
		return KindGatewayError
	case errors.Is(err, ErrUnrecognizedStatus):
		return KindUnrecognizedStatus
	default:
		return KindInternal
	}
}
