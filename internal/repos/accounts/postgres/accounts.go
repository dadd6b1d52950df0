package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pokerloft/chipledger/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{ db *sql.DB }

func New(db *sql.DB) *accountsRepo {
	return &accountsRepo{db: db}
}

func (r *accountsRepo) Ensure(tx *sql.Tx, accountID string) error {
	_, err := tx.Exec(`
		INSERT INTO accounts (account_id)
		VALUES ($1)
		ON CONFLICT (account_id) DO NOTHING
	`, accountID)
	if err != nil {
		return fmt.Errorf("ensure account: %w", err)
	}

	return nil
}

func (r *accountsRepo) LockForUpdate(tx *sql.Tx, accountID string) (accounts.Snapshot, error) {
	snap := accounts.Snapshot{AccountID: accountID}

	err := tx.QueryRow(`
		SELECT balance, latest_checksum
		FROM accounts
		WHERE account_id = $1
		FOR UPDATE
	`, accountID).Scan(&snap.Balance, &snap.LatestChecksum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.Snapshot{}, accounts.ErrNotFound
		}

		return accounts.Snapshot{}, fmt.Errorf("lock/get account: %w", err)
	}

	return snap, nil
}

func (r *accountsRepo) Get(ctx context.Context, accountID string) (accounts.Snapshot, error) {
	snap := accounts.Snapshot{AccountID: accountID}

	err := r.db.QueryRowContext(ctx, `
		SELECT balance, latest_checksum
		FROM accounts
		WHERE account_id = $1
	`, accountID).Scan(&snap.Balance, &snap.LatestChecksum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.Snapshot{}, accounts.ErrNotFound
		}

		return accounts.Snapshot{}, fmt.Errorf("get account: %w", err)
	}

	return snap, nil
}

func (r *accountsRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT account_id
		FROM accounts
		ORDER BY account_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var ids []string

	for rows.Next() {
		var id string

		err := rows.Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("scan account id: %w", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return ids, nil
}

func (r *accountsRepo) ApplyEntry(tx *sql.Tx, accountID string, newBalance int64, checksum string) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = $2,
		    latest_checksum = $3,
		    updated_at = now()
		WHERE account_id = $1
	`, accountID, newBalance, checksum)
	if err != nil {
		return fmt.Errorf("apply entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrNotFound
	}

	return nil
}
