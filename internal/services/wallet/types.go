package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/pokerloft/chipledger/internal/ledger"
)

// Operation names scope idempotency keys so the same key cannot collide
// across different call types.
const (
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opReserve  = "reserve_for_buy_in"
)

type TxResult struct {
	TransactionID string
	BalanceAfter  int64
}

type ReserveResult struct {
	ReservationID    string
	AvailableBalance int64
}

type CommitResult struct {
	TransactionID string
	NewBalance    int64
}

type BalanceResult struct {
	Balance          int64
	AvailableBalance int64
}

type LedgerResult struct {
	Entries        []ledger.Entry
	LatestChecksum string
	NextCursor     int64
}

// outcome is the snapshot stored under an idempotency key: either the exact
// success payload or a deterministic failure code. Replays return it verbatim
// without re-validating.
type outcome struct {
	OK               bool   `json:"ok"`
	Error            string `json:"error,omitempty"`
	TransactionID    string `json:"transaction_id,omitempty"`
	ReservationID    string `json:"reservation_id,omitempty"`
	BalanceAfter     int64  `json:"balance_after,omitempty"`
	AvailableBalance int64  `json:"available_balance,omitempty"`
}

func encodeOutcome(o outcome) ([]byte, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("encode outcome: %w", err)
	}

	return b, nil
}

func decodeOutcome(b []byte) (outcome, error) {
	var o outcome

	err := json.Unmarshal(b, &o)
	if err != nil {
		return outcome{}, fmt.Errorf("decode outcome: %w", err)
	}

	return o, nil
}

func (o outcome) txResult() (*TxResult, error) {
	if !o.OK {
		return nil, errByCode(o.Error)
	}

	return &TxResult{TransactionID: o.TransactionID, BalanceAfter: o.BalanceAfter}, nil
}

func (o outcome) reserveResult() (*ReserveResult, error) {
	if !o.OK {
		return nil, errByCode(o.Error)
	}

	return &ReserveResult{ReservationID: o.ReservationID, AvailableBalance: o.AvailableBalance}, nil
}
