package ledgerstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pokerloft/chipledger/internal/ledger"
)

var ErrEntryNotFound = errors.New("ledger entry not found")

// Ledger is the durable, append-only, per-account ordered entry store.
// Entries are never updated or deleted.
type Ledger interface {
	// Append links the candidate entry onto the account's chain: it reads the
	// account's last checksum (Genesis if none), computes the new checksum and
	// inserts the row, filling Seq, PreviousChecksum and Checksum on e. The
	// caller must hold the account row lock for the whole transaction.
	Append(tx *sql.Tx, e *ledger.Entry) error

	// List returns up to limit entries newest first. A beforeSeq of 0 starts
	// at the newest entry; passing the Seq of the last returned entry resumes
	// the scan.
	List(ctx context.Context, accountID string, limit int, beforeSeq int64) ([]ledger.Entry, error)

	// ListOldestFirst pages the chain in replay order for auditors. afterSeq 0
	// starts at the first entry.
	ListOldestFirst(ctx context.Context, accountID string, limit int, afterSeq int64) ([]ledger.Entry, error)

	// LatestChecksum is the chain head, or Genesis when the account has no
	// entries yet.
	LatestChecksum(ctx context.Context, accountID string) (string, error)

	// FindByTransaction fetches the entry recorded for a logical operation;
	// used to replay reservation commit results.
	FindByTransaction(tx *sql.Tx, accountID, transactionID string) (*ledger.Entry, error)
}
