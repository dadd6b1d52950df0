package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("idempotency record not found")
	ErrDuplicateKey = errors.New("duplicate idempotency key")
)

// Records is the durable key→result store that makes mutating operations
// exactly-once: for a given (operation, account, key) at most one mutation is
// ever applied, and every later call replays the stored snapshot verbatim.
type Records interface {
	// Get reads a snapshot outside any transaction (the pre-lock fast path).
	Get(ctx context.Context, operation, accountID, key string) ([]byte, error)

	// GetTx re-checks under the account lock, closing the race between two
	// concurrent calls carrying the same key.
	GetTx(tx *sql.Tx, operation, accountID, key string) ([]byte, error)

	// Put stores the snapshot in the same transaction that applied the
	// mutation. A concurrent duplicate surfaces as ErrDuplicateKey via the
	// primary key.
	Put(tx *sql.Tx, operation, accountID, key string, snapshot []byte) error

	// DeleteOlderThan garbage-collects records past the retention window.
	// Replays beyond the window are treated as new operations.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cache is an optional fast path in front of Records; misses fall through to
// the durable store. Entries carry a TTL equal to the retention window.
type Cache interface {
	Get(ctx context.Context, operation, accountID, key string) ([]byte, error)
	Set(ctx context.Context, operation, accountID, key string, snapshot []byte) error
}
