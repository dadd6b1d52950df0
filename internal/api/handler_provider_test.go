package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerloft/chipledger/internal/ledger"
	"github.com/pokerloft/chipledger/internal/services/wallet"
)

type fakeWallet struct {
	depositRes *wallet.TxResult
	depositErr error

	withdrawRes *wallet.TxResult
	withdrawErr error

	balanceRes *wallet.BalanceResult
	balanceErr error

	ledgerRes *wallet.LedgerResult
	ledgerErr error

	gotAccountID string
	gotKey       string
	gotAmount    int64
	gotLimit     int
	gotCursor    int64
}

func (f *fakeWallet) Deposit(_ context.Context, accountID string, amount int64, key string, _ map[string]string) (*wallet.TxResult, error) {
	f.gotAccountID, f.gotAmount, f.gotKey = accountID, amount, key
	return f.depositRes, f.depositErr
}

func (f *fakeWallet) Withdraw(_ context.Context, accountID string, amount int64, key, _ string) (*wallet.TxResult, error) {
	f.gotAccountID, f.gotAmount, f.gotKey = accountID, amount, key
	return f.withdrawRes, f.withdrawErr
}

func (f *fakeWallet) GetBalance(_ context.Context, accountID string) (*wallet.BalanceResult, error) {
	f.gotAccountID = accountID
	return f.balanceRes, f.balanceErr
}

func (f *fakeWallet) GetLedger(_ context.Context, accountID string, limit int, cursor int64) (*wallet.LedgerResult, error) {
	f.gotAccountID, f.gotLimit, f.gotCursor = accountID, limit, cursor
	return f.ledgerRes, f.ledgerErr
}

func doRequest(t *testing.T, svc WalletService, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	router := NewRouter(svc)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func TestDepositHandler(t *testing.T) {
	t.Parallel()

	fake := &fakeWallet{depositRes: &wallet.TxResult{TransactionID: "tx-1", BalanceAfter: 500}}

	rec := doRequest(t, fake, http.MethodPost, "/account/player-1/deposit",
		`{"amount": 500}`, map[string]string{"Idempotency-Key": "k1"})

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "tx-1", body["transactionId"])
	assert.Equal(t, float64(500), body["balanceAfter"])

	assert.Equal(t, "player-1", fake.gotAccountID)
	assert.Equal(t, int64(500), fake.gotAmount)
	assert.Equal(t, "k1", fake.gotKey)
}

func TestDepositMissingIdempotencyKey(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, &fakeWallet{}, http.MethodPost, "/account/player-1/deposit",
		`{"amount": 500}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "IDEMPOTENCY_KEY_REQUIRED", decodeResponse(t, rec)["error"])
}

func TestDepositInvalidJSON(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, &fakeWallet{}, http.MethodPost, "/account/player-1/deposit",
		`{"amount": `, map[string]string{"Idempotency-Key": "k1"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", decodeResponse(t, rec)["error"])
}

func TestDepositUnknownField(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, &fakeWallet{}, http.MethodPost, "/account/player-1/deposit",
		`{"amount": 500, "nope": 1}`, map[string]string{"Idempotency-Key": "k1"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	t.Parallel()

	fake := &fakeWallet{withdrawErr: wallet.ErrInsufficientBalance}

	rec := doRequest(t, fake, http.MethodPost, "/account/player-1/withdraw",
		`{"amount": 900, "reason": "cashout"}`, map[string]string{"Idempotency-Key": "k1"})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", decodeResponse(t, rec)["error"])
}

func TestWithdrawInfraFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeWallet{withdrawErr: errors.New("connection refused")}

	rec := doRequest(t, fake, http.MethodPost, "/account/player-1/withdraw",
		`{"amount": 100}`, map[string]string{"Idempotency-Key": "k1"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, "INTERNAL", body["error"])
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetBalanceHandler(t *testing.T) {
	t.Parallel()

	fake := &fakeWallet{balanceRes: &wallet.BalanceResult{Balance: 500, AvailableBalance: 300}}

	rec := doRequest(t, fake, http.MethodGet, "/account/player-1/balance", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, float64(500), body["balance"])
	assert.Equal(t, float64(300), body["availableBalance"])
}

func TestGetLedgerHandler(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeWallet{ledgerRes: &wallet.LedgerResult{
		Entries: []ledger.Entry{{
			Seq:              3,
			EntryID:          "e-1",
			TransactionID:    "tx-1",
			AccountID:        "player-1",
			Type:             ledger.TypeDeposit,
			Amount:           500,
			BalanceAfter:     500,
			CreatedAt:        at,
			PreviousChecksum: ledger.Genesis,
			Checksum:         "abc",
		}},
		LatestChecksum: "abc",
		NextCursor:     3,
	}}

	rec := doRequest(t, fake, http.MethodGet, "/account/player-1/ledger?limit=10&cursor=20", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, fake.gotLimit)
	assert.Equal(t, int64(20), fake.gotCursor)

	body := decodeResponse(t, rec)
	assert.Equal(t, "abc", body["latestChecksum"])
	assert.Equal(t, float64(3), body["nextCursor"])

	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)

	first, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DEPOSIT", first["type"])
	assert.Equal(t, float64(at.UnixMilli()), first["timestamp"])
}

func TestGetLedgerBadQueryParams(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, &fakeWallet{}, http.MethodGet, "/account/player-1/ledger?limit=abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_LIMIT", decodeResponse(t, rec)["error"])

	rec = doRequest(t, &fakeWallet{}, http.MethodGet, "/account/player-1/ledger?cursor=-5", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CURSOR", decodeResponse(t, rec)["error"])
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := doRequest(t, &fakeWallet{}, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
