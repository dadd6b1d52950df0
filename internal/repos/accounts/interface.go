package accounts

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("account not found")

// Snapshot is the lockable state of one account: committed balance plus the
// cached head of its ledger chain.
type Snapshot struct {
	AccountID      string
	Balance        int64
	LatestChecksum string
}

type Accounts interface {
	// Ensure creates the account with a zero balance if it does not exist yet.
	// Accounts are implicitly created on first reference and never deleted.
	Ensure(tx *sql.Tx, accountID string) error

	// LockForUpdate takes the per-account row lock and returns the current
	// snapshot. All validate-then-apply sequences run under this lock.
	LockForUpdate(tx *sql.Tx, accountID string) (Snapshot, error)

	// Get reads without locking; suitable for the read-only endpoints.
	Get(ctx context.Context, accountID string) (Snapshot, error)

	// ListIDs returns every known account id, ordered. Used by offline
	// maintenance tooling, not the request path.
	ListIDs(ctx context.Context) ([]string, error)

	// ApplyEntry moves the balance and chain head to the state after a freshly
	// appended ledger entry. Must be called with the row lock held.
	ApplyEntry(tx *sql.Tx, accountID string, newBalance int64, checksum string) error
}
