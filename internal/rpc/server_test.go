package rpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pokerloft/chipledger/internal/ledger"
	"github.com/pokerloft/chipledger/internal/services/wallet"
	"github.com/pokerloft/chipledger/pkg/walletrpc"
)

type fakeWallet struct {
	depositRes *wallet.TxResult
	depositErr error

	withdrawRes *wallet.TxResult
	withdrawErr error

	reserveRes     *wallet.ReserveResult
	reserveErr     error
	reserveTimeout time.Duration

	commitRes *wallet.CommitResult
	commitErr error

	releaseErr error

	balanceRes *wallet.BalanceResult
	balanceErr error

	ledgerRes *wallet.LedgerResult
	ledgerErr error
}

func (f *fakeWallet) Deposit(_ context.Context, _ string, _ int64, _ string, _ map[string]string) (*wallet.TxResult, error) {
	return f.depositRes, f.depositErr
}

func (f *fakeWallet) Withdraw(_ context.Context, _ string, _ int64, _, _ string) (*wallet.TxResult, error) {
	return f.withdrawRes, f.withdrawErr
}

func (f *fakeWallet) ReserveForBuyIn(_ context.Context, _, _ string, _ int64, _ string, timeout time.Duration) (*wallet.ReserveResult, error) {
	f.reserveTimeout = timeout
	return f.reserveRes, f.reserveErr
}

func (f *fakeWallet) CommitReservation(_ context.Context, _ string) (*wallet.CommitResult, error) {
	return f.commitRes, f.commitErr
}

func (f *fakeWallet) ReleaseReservation(_ context.Context, _ string) error {
	return f.releaseErr
}

func (f *fakeWallet) GetBalance(_ context.Context, _ string) (*wallet.BalanceResult, error) {
	return f.balanceRes, f.balanceErr
}

func (f *fakeWallet) GetLedger(_ context.Context, _ string, _ int, _ int64) (*wallet.LedgerResult, error) {
	return f.ledgerRes, f.ledgerErr
}

func TestDepositSuccess(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeWallet{
		depositRes: &wallet.TxResult{TransactionID: "tx-1", BalanceAfter: 500},
	})

	resp, err := srv.Deposit(context.Background(), &walletrpc.DepositRequest{
		AccountID:      "player-1",
		Amount:         500,
		IdempotencyKey: "k1",
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "tx-1", resp.TransactionID)
	assert.Equal(t, int64(500), resp.BalanceAfter)
}

func TestBusinessFailureStaysInBand(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeWallet{withdrawErr: wallet.ErrInsufficientBalance})

	resp, err := srv.Withdraw(context.Background(), &walletrpc.WithdrawRequest{
		AccountID:      "player-1",
		Amount:         900,
		IdempotencyKey: "k1",
	})
	require.NoError(t, err, "business failures must not become transport errors")
	assert.False(t, resp.OK)
	assert.Equal(t, "INSUFFICIENT_BALANCE", resp.Error)
}

func TestInfraFailureBecomesStatusError(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeWallet{depositErr: errors.New("connection refused")})

	_, err := srv.Deposit(context.Background(), &walletrpc.DepositRequest{
		AccountID:      "player-1",
		Amount:         100,
		IdempotencyKey: "k1",
	})
	require.Error(t, err)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.NotContains(t, st.Message(), "connection refused")
}

func TestReserveTimeoutSecondsConversion(t *testing.T) {
	t.Parallel()

	fake := &fakeWallet{
		reserveRes: &wallet.ReserveResult{ReservationID: "res-1", AvailableBalance: 300},
	}
	srv := NewServer(fake)

	resp, err := srv.ReserveForBuyIn(context.Background(), &walletrpc.ReserveForBuyInRequest{
		AccountID:      "player-1",
		TableID:        "table-9",
		Amount:         200,
		IdempotencyKey: "buyin-1",
		TimeoutSeconds: 45,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "res-1", resp.ReservationID)
	assert.Equal(t, 45*time.Second, fake.reserveTimeout)
}

func TestCommitExpiredReservation(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeWallet{commitErr: wallet.ErrReservationExpired})

	resp, err := srv.CommitReservation(context.Background(), &walletrpc.CommitReservationRequest{
		ReservationID: "res-1",
	})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "RESERVATION_EXPIRED", resp.Error)
}

func TestReleaseReservationSuccess(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeWallet{})

	resp, err := srv.ReleaseReservation(context.Background(), &walletrpc.ReleaseReservationRequest{
		ReservationID: "res-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
}

func TestGetLedgerMapsEntries(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	srv := NewServer(&fakeWallet{
		ledgerRes: &wallet.LedgerResult{
			Entries: []ledger.Entry{{
				Seq:              7,
				EntryID:          "e-1",
				TransactionID:    "tx-1",
				AccountID:        "player-1",
				Type:             ledger.TypeDeposit,
				Amount:           500,
				BalanceBefore:    0,
				BalanceAfter:     500,
				CreatedAt:        at,
				PreviousChecksum: ledger.Genesis,
				Checksum:         "abc",
			}},
			LatestChecksum: "abc",
			NextCursor:     7,
		},
	})

	resp, err := srv.GetLedger(context.Background(), &walletrpc.GetLedgerRequest{AccountID: "player-1"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)

	e := resp.Entries[0]
	assert.Equal(t, "DEPOSIT", e.Type)
	assert.Equal(t, at.UnixMilli(), e.TimestampMillis)
	assert.Equal(t, ledger.Genesis, e.PreviousChecksum)
	assert.Equal(t, "abc", resp.LatestChecksum)
	assert.Equal(t, int64(7), resp.NextCursor)
}

func TestGetBalanceValidation(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeWallet{balanceErr: wallet.ErrInvalidAccount})

	resp, err := srv.GetBalance(context.Background(), &walletrpc.GetBalanceRequest{})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "INVALID_ACCOUNT", resp.Error)
}
