package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pokerloft/chipledger/internal/services/wallet"
)

const maxBodyBytes = 1 << 20

// WalletService is the slice of the wallet service the HTTP surface needs.
type WalletService interface {
	Deposit(ctx context.Context, accountID string, amount int64, key string, metadata map[string]string) (*wallet.TxResult, error)
	Withdraw(ctx context.Context, accountID string, amount int64, key, reason string) (*wallet.TxResult, error)
	GetBalance(ctx context.Context, accountID string) (*wallet.BalanceResult, error)
	GetLedger(ctx context.Context, accountID string, limit int, cursor int64) (*wallet.LedgerResult, error)
}

// HandlerProvider wraps a WalletService and exposes HTTP handlers.
type HandlerProvider struct {
	svc WalletService
}

// NewHandler returns a new handler provider.
func NewHandler(svc WalletService) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeErrorCode(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": code})
}

// writeServiceError maps a wallet error onto the wire. Deterministic business
// failures keep their stable code at 400/409; everything else is an internal
// fault the caller should retry.
func writeServiceError(w http.ResponseWriter, err error) {
	code, ok := wallet.CodeOf(err)
	if !ok {
		slog.Error("wallet infrastructure failure", "error", err)
		writeErrorCode(w, http.StatusInternalServerError, "INTERNAL")

		return
	}

	status := http.StatusBadRequest
	if code == wallet.ErrInsufficientBalance.Code {
		status = http.StatusConflict
	}

	writeErrorCode(w, status, code)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "EMPTY_BODY")
			return false
		}

		writeErrorCode(w, http.StatusBadRequest, "INVALID_JSON")

		return false
	}

	return true
}

// idempotencyKey reads the mandatory Idempotency-Key header for mutating
// endpoints.
func idempotencyKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		writeErrorCode(w, http.StatusBadRequest, wallet.ErrIdempotencyKeyRequired.Code)
		return "", false
	}

	return key, true
}

type amountRequest struct {
	Amount   int64             `json:"amount"`
	Reason   string            `json:"reason,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// --- Handlers ---

// DepositHandler handles POST /account/{accountId}/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	key, ok := idempotencyKey(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.Deposit(r.Context(), accountID, req.Amount, key, req.Metadata)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"transactionId": res.TransactionID,
		"balanceAfter":  res.BalanceAfter,
	})
}

// WithdrawHandler handles POST /account/{accountId}/withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	key, ok := idempotencyKey(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.svc.Withdraw(r.Context(), accountID, req.Amount, key, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"transactionId": res.TransactionID,
		"balanceAfter":  res.BalanceAfter,
	})
}

// GetBalanceHandler handles GET /account/{accountId}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	res, err := h.svc.GetBalance(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":               true,
		"balance":          res.Balance,
		"availableBalance": res.AvailableBalance,
	})
}

type ledgerEntryPayload struct {
	EntryID          string            `json:"entryId"`
	TransactionID    string            `json:"transactionId"`
	Type             string            `json:"type"`
	Amount           int64             `json:"amount"`
	BalanceBefore    int64             `json:"balanceBefore"`
	BalanceAfter     int64             `json:"balanceAfter"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Timestamp        int64             `json:"timestamp"`
	PreviousChecksum string            `json:"previousChecksum"`
	Checksum         string            `json:"checksum"`
}

// GetLedgerHandler handles GET /account/{accountId}/ledger?limit=&cursor=
func (h *HandlerProvider) GetLedgerHandler(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	var (
		limit  int
		cursor int64
	)

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeErrorCode(w, http.StatusBadRequest, "INVALID_LIMIT")
			return
		}

		limit = n
	}

	if raw := r.URL.Query().Get("cursor"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeErrorCode(w, http.StatusBadRequest, "INVALID_CURSOR")
			return
		}

		cursor = n
	}

	res, err := h.svc.GetLedger(r.Context(), accountID, limit, cursor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entries := make([]ledgerEntryPayload, 0, len(res.Entries))
	for _, e := range res.Entries {
		entries = append(entries, ledgerEntryPayload{
			EntryID:          e.EntryID,
			TransactionID:    e.TransactionID,
			Type:             string(e.Type),
			Amount:           e.Amount,
			BalanceBefore:    e.BalanceBefore,
			BalanceAfter:     e.BalanceAfter,
			Metadata:         e.Metadata,
			Timestamp:        e.CreatedAt.UnixMilli(),
			PreviousChecksum: e.PreviousChecksum,
			Checksum:         e.Checksum,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":             true,
		"entries":        entries,
		"latestChecksum": res.LatestChecksum,
		"nextCursor":     res.NextCursor,
	})
}
