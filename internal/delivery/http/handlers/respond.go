package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/bakery-order-service/internal/delivery/http/dto/purchase/response"
	"github.com/LavaJover/bakery-order-service/internal/domain"
)

var statusByKind = map[domain.ErrorKind]int{
	domain.KindNotFound:                http.StatusNotFound,
	domain.KindInvalidRequestBodyValue: http.StatusUnprocessableEntity,
	domain.KindUnauthorized:            http.StatusForbidden,
	domain.KindIllegalOperation:        http.StatusConflict,
	domain.KindConflict:                http.StatusConflict,
	domain.KindGatewayError:            http.StatusBadGateway,
	domain.KindUnrecognizedStatus:      http.StatusUnprocessableEntity,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, response.ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeDomainError answers with the status of the error's kind. Internal
// errors keep their details out of the response.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, string(domain.KindInternal), "internal error")
		return
	}
	if kind == domain.KindUnauthorized && errors.Is(err, errNoAccount) {
		status = http.StatusUnauthorized
	}
	writeError(w, status, string(kind), err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}
