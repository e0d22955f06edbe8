package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/LavaJover/bakery-order-service/internal/delivery/http/dto/purchase/response"
	"github.com/LavaJover/bakery-order-service/internal/domain"
)

type AdminHandler struct {
	notificationLogs domain.NotificationLogReader
}

func NewAdminHandler(notificationLogs domain.NotificationLogReader) *AdminHandler {
	return &AdminHandler{notificationLogs: notificationLogs}
}

func (h *AdminHandler) GetNotificationLogs(w http.ResponseWriter, r *http.Request) {
	if !actorFrom(r.Context()).IsAdmin() {
		writeDomainError(w, r, fmt.Errorf("%w: admin only", domain.ErrUnauthorized))
		return
	}

	q := r.URL.Query()
	filter := domain.NotificationLogFilter{
		CorrelationID: q.Get("correlation_id"),
		Outcome:       q.Get("outcome"),
	}
	if raw := q.Get("success"); raw != "" {
		success, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_query", "success: "+err.Error())
			return
		}
		filter.Success = &success
	}
	var err error
	if filter.StartDate, err = parseTimeParam(q.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "from: "+err.Error())
		return
	}
	if filter.EndDate, err = parseTimeParam(q.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "to: "+err.Error())
		return
	}
	if filter.Limit, err = parseIntParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "limit: "+err.Error())
		return
	}
	if filter.Offset, err = parseIntParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "offset: "+err.Error())
		return
	}

	logs, total, err := h.notificationLogs.GetNotificationLogs(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := response.NotificationLogsResponse{
		Logs:  make([]response.NotificationLogResponse, len(logs)),
		Total: total,
	}
	for i, l := range logs {
		resp.Logs[i] = toNotificationLogResponse(l)
	}
	writeJSON(w, http.StatusOK, resp)
}
