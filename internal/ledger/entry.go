package ledger

import "time"

type EntryType string

const (
	TypeDeposit        EntryType = "DEPOSIT"
	TypeWithdraw       EntryType = "WITHDRAW"
	TypeReserveCommit  EntryType = "RESERVE_COMMIT"
	TypeReserveRelease EntryType = "RESERVE_RELEASE"
)

// Entry is one immutable balance-affecting record in an account's chain.
// Amount is always a positive magnitude; the direction comes from Type.
type Entry struct {
	Seq              int64
	EntryID          string
	TransactionID    string
	AccountID        string
	Type             EntryType
	Amount           int64
	BalanceBefore    int64
	BalanceAfter     int64
	Metadata         map[string]string
	CreatedAt        time.Time
	PreviousChecksum string
	Checksum         string
}

// SignedDelta is the effect of an entry on the account balance. A release
// moves nothing: reserving never deducted, so returning the hold is not a
// ledger-visible balance change.
func SignedDelta(t EntryType, amount int64) int64 {
	switch t {
	case TypeDeposit:
		return amount
	case TypeWithdraw, TypeReserveCommit:
		return -amount
	default:
		return 0
	}
}
