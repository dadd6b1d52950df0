package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pokerloft/chipledger/internal/repos/idempotency"
)

var _ idempotency.Records = (*recordsRepo)(nil)

type recordsRepo struct{ db *sql.DB }

func New(db *sql.DB) *recordsRepo {
	return &recordsRepo{db: db}
}

const getQuery = `
	SELECT result_snapshot
	FROM idempotency_records
	WHERE operation = $1 AND account_id = $2 AND idempotency_key = $3
`

func (r *recordsRepo) Get(ctx context.Context, operation, accountID, key string) ([]byte, error) {
	var snapshot []byte

	err := r.db.QueryRowContext(ctx, getQuery, operation, accountID, key).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, idempotency.ErrNotFound
		}

		return nil, fmt.Errorf("get idempotency record: %w", err)
	}

	return snapshot, nil
}

func (r *recordsRepo) GetTx(tx *sql.Tx, operation, accountID, key string) ([]byte, error) {
	var snapshot []byte

	err := tx.QueryRow(getQuery, operation, accountID, key).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, idempotency.ErrNotFound
		}

		return nil, fmt.Errorf("get idempotency record: %w", err)
	}

	return snapshot, nil
}

func (r *recordsRepo) Put(tx *sql.Tx, operation, accountID, key string, snapshot []byte) error {
	_, err := tx.Exec(`
		INSERT INTO idempotency_records (operation, account_id, idempotency_key, result_snapshot)
		VALUES ($1, $2, $3, $4)
	`, operation, accountID, key, snapshot)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return idempotency.ErrDuplicateKey
		}

		return fmt.Errorf("insert idempotency record: %w", err)
	}

	return nil
}

func (r *recordsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM idempotency_records
		WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete idempotency records: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return affected, nil
}
