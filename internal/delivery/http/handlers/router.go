package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(purchases *PurchaseHandler, webhooks *WebhookHandler, admin *AdminHandler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Post("/webhooks/payment", webhooks.PaymentNotification)

	r.Group(func(r chi.Router) {
		r.Use(AttachActor)
		r.Use(requireActor)

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", purchases.CreatePurchase)
			r.Get("/", purchases.ListPurchases)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", purchases.GetPurchase)
				r.Post("/payments", purchases.InitiatePayment)
				r.Post("/balance-payment", purchases.InitiateBalancePayment)
				r.Post("/cancel", purchases.CancelPurchase)
				r.Post("/confirm", purchases.ConfirmPurchase)
				r.Post("/advance", purchases.AdvanceStatus)
				r.Get("/transactions", purchases.ListTransactionsByPurchase)
			})
		})
		r.Get("/accounts/{accountID}/transactions", purchases.ListTransactionsByAccount)
		r.Get("/admin/notifications", admin.GetNotificationLogs)
	})

	return r
}
