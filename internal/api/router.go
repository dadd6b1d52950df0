package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the HTTP router with all wallet endpoints registered.
func NewRouter(svc WalletService) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/account/{accountId}/deposit", h.DepositHandler)
	r.Post("/account/{accountId}/withdraw", h.WithdrawHandler)
	r.Get("/account/{accountId}/balance", h.GetBalanceHandler)
	r.Get("/account/{accountId}/ledger", h.GetLedgerHandler)

	return r
}
