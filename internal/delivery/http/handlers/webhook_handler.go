package handlers

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/bakery-order-service/internal/delivery/http/dto/purchase/response"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	"github.com/LavaJover/bakery-order-service/internal/usecase/reconcile"
)

type WebhookHandler struct {
	reconciler reconcile.Reconciler
}

func NewWebhookHandler(reconciler reconcile.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// PaymentNotification answers the gateway. Anything but a 2xx makes the
// gateway redeliver, so forged or stale notifications are acknowledged and
// only failures worth retrying get a 5xx.
func (h *WebhookHandler) PaymentNotification(w http.ResponseWriter, r *http.Request) {
	var n domain.PaymentNotification
	if err := decodeJSON(w, r, &n); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := h.reconciler.Reconcile(r.Context(), n, reconcile.SourceWebhook)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindUnauthorized:
			writeJSON(w, http.StatusOK, response.WebhookResponse{Outcome: "ignored"})
		case domain.KindNotFound:
			writeError(w, http.StatusNotFound, string(domain.KindNotFound), err.Error())
		case domain.KindUnrecognizedStatus, domain.KindInvalidRequestBodyValue:
			writeError(w, http.StatusUnprocessableEntity, string(domain.KindOf(err)), err.Error())
		default:
			slog.ErrorContext(r.Context(), "failed to reconcile notification", "correlation_id", n.OrderID, "error", err)
			writeError(w, http.StatusInternalServerError, string(domain.KindInternal), "retry later")
		}
		return
	}

	writeJSON(w, http.StatusOK, response.WebhookResponse{Outcome: string(result.Outcome)})
}
