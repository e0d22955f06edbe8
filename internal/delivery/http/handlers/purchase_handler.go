package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/delivery/http/dto/purchase/request"
	"github.com/LavaJover/bakery-order-service/internal/domain"
	purchasedto "github.com/LavaJover/bakery-order-service/internal/usecase/dto/purchase"
	"github.com/LavaJover/bakery-order-service/internal/usecase/purchase"
	"github.com/go-chi/chi/v5"
)

type PurchaseHandler struct {
	uc purchase.PurchaseUsecase
}

func NewPurchaseHandler(uc purchase.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	input := &purchasedto.CreatePurchaseInput{
		Address:    req.Address,
		Coordinate: domain.Coordinate{Lat: req.Lat, Lon: req.Lon},
		Items:      make([]purchasedto.ItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, purchasedto.ItemInput{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Note:      item.Note,
		})
	}

	p, err := h.uc.CreatePurchase(r.Context(), actorFrom(r.Context()), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseResponse(p))
}

func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetPurchase(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponse(p))
}

// ListPurchases supports ?status=A,B&account_id=&from=&to=&page=&limit=, with
// dates in RFC 3339.
func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := &purchasedto.ListPurchasesInput{AccountID: q.Get("account_id")}

	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			input.Statuses = append(input.Statuses, strings.ToUpper(strings.TrimSpace(s)))
		}
	}
	var err error
	if input.DateFrom, err = parseTimeParam(q.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "from: "+err.Error())
		return
	}
	if input.DateTo, err = parseTimeParam(q.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "to: "+err.Error())
		return
	}
	if input.Page, err = parseIntParam(q.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "page: "+err.Error())
		return
	}
	if input.Limit, err = parseIntParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "limit: "+err.Error())
		return
	}

	out, err := h.uc.ListPurchases(r.Context(), actorFrom(r.Context()), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListPurchasesResponse(out))
}

func (h *PurchaseHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req request.InitiatePaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	paymentType, err := domain.ParsePaymentType(strings.ToUpper(req.PaymentType))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	tx, err := h.uc.InitiatePayment(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), paymentType)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (h *PurchaseHandler) InitiateBalancePayment(w http.ResponseWriter, r *http.Request) {
	tx, err := h.uc.InitiateBalancePayment(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (h *PurchaseHandler) CancelPurchase(w http.ResponseWriter, r *http.Request) {
	h.respondPurchase(w, r, h.uc.CancelPurchase)
}

func (h *PurchaseHandler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	h.respondPurchase(w, r, h.uc.ConfirmPurchase)
}

func (h *PurchaseHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	h.respondPurchase(w, r, h.uc.AdvanceStatus)
}

func (h *PurchaseHandler) ListTransactionsByPurchase(w http.ResponseWriter, r *http.Request) {
	txs, err := h.uc.ListTransactionsByPurchase(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (h *PurchaseHandler) ListTransactionsByAccount(w http.ResponseWriter, r *http.Request) {
	txs, err := h.uc.ListTransactionsByAccount(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "accountID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

type purchaseAction func(ctx context.Context, actor domain.Actor, purchaseID string) (*domain.Purchase, error)

func (h *PurchaseHandler) respondPurchase(w http.ResponseWriter, r *http.Request, action purchaseAction) {
	p, err := action(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPurchaseResponse(p))
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
