package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Genesis is the previous-checksum sentinel of the first entry in any account chain.
const Genesis = "GENESIS"

// chainFields is the canonical encoding an entry's checksum is computed over.
// Field order is fixed; metadata keys are sorted by encoding/json's map ordering.
// Timestamps are unix milliseconds so the encoding round-trips through storage.
type chainFields struct {
	EntryID          string            `json:"entryId"`
	TransactionID    string            `json:"transactionId"`
	AccountID        string            `json:"accountId"`
	Type             EntryType         `json:"type"`
	Amount           int64             `json:"amount"`
	BalanceBefore    int64             `json:"balanceBefore"`
	BalanceAfter     int64             `json:"balanceAfter"`
	Metadata         map[string]string `json:"metadata"`
	Timestamp        int64             `json:"timestamp"`
	PreviousChecksum string            `json:"previousChecksum"`
}

// Checksum derives an entry's checksum from the previous entry's checksum
// (Genesis for the first entry) and every entry field except the checksum
// itself. Pure; no I/O.
func Checksum(prev string, e Entry) (string, error) {
	// nil and empty metadata must hash identically: the store round-trips
	// empty metadata as an empty object.
	meta := e.Metadata
	if meta == nil {
		meta = map[string]string{}
	}

	payload := chainFields{
		EntryID:          e.EntryID,
		TransactionID:    e.TransactionID,
		AccountID:        e.AccountID,
		Type:             e.Type,
		Amount:           e.Amount,
		BalanceBefore:    e.BalanceBefore,
		BalanceAfter:     e.BalanceAfter,
		Metadata:         meta,
		Timestamp:        e.CreatedAt.UTC().UnixMilli(),
		PreviousChecksum: prev,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chain fields: %w", err)
	}

	sum := sha256.Sum256(b)

	return hex.EncodeToString(sum[:]), nil
}

// IntegrityError reports the first broken link found while replaying a chain.
// The chain is not trusted past BreakAt; no automatic repair is attempted.
type IntegrityError struct {
	AccountID string
	EntryID   string
	BreakAt   int // position in the replayed sequence, oldest first
	Reason    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger integrity broken for account %s at position %d (entry %s): %s",
		e.AccountID, e.BreakAt, e.EntryID, e.Reason)
}

// VerifyChain replays entries oldest-first and recomputes every checksum from
// the previous one, checking balance chaining and per-entry arithmetic along
// the way. A nil error means the stored chain reproduces exactly.
func VerifyChain(entries []Entry) error {
	prev := Genesis
	prevBalance := int64(0)

	for i, e := range entries {
		fail := func(reason string) error {
			return &IntegrityError{AccountID: e.AccountID, EntryID: e.EntryID, BreakAt: i, Reason: reason}
		}

		if e.PreviousChecksum != prev {
			return fail(fmt.Sprintf("previous checksum %q, expected %q", e.PreviousChecksum, prev))
		}

		// prevBalance starts at zero, so this also pins the first entry to the
		// zero balance every account is born with.
		if e.BalanceBefore != prevBalance {
			return fail(fmt.Sprintf("balance before %d, previous entry ended at %d", e.BalanceBefore, prevBalance))
		}

		if got, want := e.BalanceAfter, e.BalanceBefore+SignedDelta(e.Type, e.Amount); got != want {
			return fail(fmt.Sprintf("balance after %d, expected %d", got, want))
		}

		sum, err := Checksum(prev, e)
		if err != nil {
			return fmt.Errorf("recompute checksum: %w", err)
		}

		if sum != e.Checksum {
			return fail(fmt.Sprintf("stored checksum %q does not match recomputed %q", e.Checksum, sum))
		}

		prev = e.Checksum
		prevBalance = e.BalanceAfter
	}

	return nil
}
