package ledgerstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pokerloft/chipledger/internal/ledger"
	"github.com/pokerloft/chipledger/internal/repos/ledgerstore"
)

var _ ledgerstore.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ db *sql.DB }

func New(db *sql.DB) *ledgerRepo {
	return &ledgerRepo{db: db}
}

const entryColumns = `seq, entry_id, transaction_id, account_id, entry_type, amount,
	balance_before, balance_after, metadata, created_at, previous_checksum, checksum`

func (r *ledgerRepo) Append(tx *sql.Tx, e *ledger.Entry) error {
	var prev string

	err := tx.QueryRow(`
		SELECT checksum
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`, e.AccountID).Scan(&prev)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read chain head: %w", err)
		}

		prev = ledger.Genesis
	}

	sum, err := ledger.Checksum(prev, *e)
	if err != nil {
		return fmt.Errorf("compute checksum: %w", err)
	}

	e.PreviousChecksum = prev
	e.Checksum = sum

	meta, err := marshalMetadata(e.Metadata)
	if err != nil {
		return err
	}

	err = tx.QueryRow(`
		INSERT INTO ledger_entries (
			entry_id, transaction_id, account_id, entry_type, amount,
			balance_before, balance_after, metadata, created_at,
			previous_checksum, checksum
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq
	`,
		e.EntryID, e.TransactionID, e.AccountID, string(e.Type), e.Amount,
		e.BalanceBefore, e.BalanceAfter, meta, e.CreatedAt,
		e.PreviousChecksum, e.Checksum,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

func (r *ledgerRepo) List(ctx context.Context, accountID string, limit int, beforeSeq int64) ([]ledger.Entry, error) {
	q := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND ($3 = 0 OR seq < $3)
		ORDER BY seq DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, q, accountID, limit, beforeSeq)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *ledgerRepo) ListOldestFirst(ctx context.Context, accountID string, limit int, afterSeq int64) ([]ledger.Entry, error) {
	q := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND seq > $3
		ORDER BY seq ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, q, accountID, limit, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("list entries oldest first: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *ledgerRepo) LatestChecksum(ctx context.Context, accountID string) (string, error) {
	var sum string

	err := r.db.QueryRowContext(ctx, `
		SELECT checksum
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`, accountID).Scan(&sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Genesis, nil
		}

		return "", fmt.Errorf("latest checksum: %w", err)
	}

	return sum, nil
}

func (r *ledgerRepo) FindByTransaction(tx *sql.Tx, accountID, transactionID string) (*ledger.Entry, error) {
	row := tx.QueryRow(`
		SELECT `+entryColumns+`
		FROM ledger_entries
		WHERE account_id = $1 AND transaction_id = $2
		ORDER BY seq ASC
		LIMIT 1
	`, accountID, transactionID)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerstore.ErrEntryNotFound
		}

		return nil, err
	}

	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*ledger.Entry, error) {
	var (
		e    ledger.Entry
		typ  string
		meta []byte
		ts   time.Time
	)

	err := row.Scan(
		&e.Seq, &e.EntryID, &e.TransactionID, &e.AccountID, &typ, &e.Amount,
		&e.BalanceBefore, &e.BalanceAfter, &meta, &ts,
		&e.PreviousChecksum, &e.Checksum,
	)
	if err != nil {
		return nil, err
	}

	e.Type = ledger.EntryType(typ)
	e.CreatedAt = ts.UTC()

	if len(meta) > 0 {
		err = json.Unmarshal(meta, &e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]ledger.Entry, error) {
	var out []ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		out = append(out, *e)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return out, nil
}

func marshalMetadata(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return b, nil
}
