package reservations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pokerloft/chipledger/internal/repos/reservations"
)

var _ reservations.Registry = (*reservationsRepo)(nil)

type reservationsRepo struct{ db *sql.DB }

func New(db *sql.DB) *reservationsRepo {
	return &reservationsRepo{db: db}
}

const reservationColumns = `reservation_id, account_id, table_id, amount,
	idempotency_key, status, created_at, expires_at`

func (r *reservationsRepo) Create(tx *sql.Tx, res reservations.Reservation) error {
	_, err := tx.Exec(`
		INSERT INTO reservations (
			reservation_id, account_id, table_id, amount,
			idempotency_key, status, created_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		res.ReservationID, res.AccountID, res.TableID, res.Amount,
		res.IdempotencyKey, string(res.Status), res.CreatedAt, res.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}

	return nil
}

func (r *reservationsRepo) Get(ctx context.Context, reservationID string) (reservations.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE reservation_id = $1
	`, reservationID)

	return scanReservation(row)
}

func (r *reservationsRepo) GetForUpdate(tx *sql.Tx, reservationID string) (reservations.Reservation, error) {
	row := tx.QueryRow(`
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE reservation_id = $1
		FOR UPDATE
	`, reservationID)

	return scanReservation(row)
}

func (r *reservationsRepo) MarkCommitted(tx *sql.Tx, reservationID string, now time.Time) error {
	res, err := tx.Exec(`
		UPDATE reservations
		SET status = 'COMMITTED'
		WHERE reservation_id = $1
		  AND status = 'ACTIVE'
		  AND expires_at >= $2
	`, reservationID, now)
	if err != nil {
		return fmt.Errorf("mark committed: %w", err)
	}

	return checkAffected(res)
}

func (r *reservationsRepo) MarkReleased(tx *sql.Tx, reservationID string) error {
	res, err := tx.Exec(`
		UPDATE reservations
		SET status = 'RELEASED'
		WHERE reservation_id = $1
		  AND status = 'ACTIVE'
	`, reservationID)
	if err != nil {
		return fmt.Errorf("mark released: %w", err)
	}

	return checkAffected(res)
}

func (r *reservationsRepo) MarkExpired(tx *sql.Tx, reservationID string) error {
	res, err := tx.Exec(`
		UPDATE reservations
		SET status = 'EXPIRED'
		WHERE reservation_id = $1
		  AND status = 'ACTIVE'
	`, reservationID)
	if err != nil {
		return fmt.Errorf("mark expired: %w", err)
	}

	return checkAffected(res)
}

const sumActiveQuery = `
	SELECT COALESCE(SUM(amount), 0)
	FROM reservations
	WHERE account_id = $1
	  AND status = 'ACTIVE'
	  AND expires_at >= $2
`

func (r *reservationsRepo) SumActive(tx *sql.Tx, accountID string, now time.Time) (int64, error) {
	var sum int64

	err := tx.QueryRow(sumActiveQuery, accountID, now).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum active holds: %w", err)
	}

	return sum, nil
}

func (r *reservationsRepo) ActiveHold(ctx context.Context, accountID string, now time.Time) (int64, error) {
	var sum int64

	err := r.db.QueryRowContext(ctx, sumActiveQuery, accountID, now).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum active holds: %w", err)
	}

	return sum, nil
}

func (r *reservationsRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET status = 'EXPIRED'
		WHERE status = 'ACTIVE'
		  AND expires_at < $1
	`, now)
	if err != nil {
		return 0, fmt.Errorf("sweep expired: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (reservations.Reservation, error) {
	var (
		res    reservations.Reservation
		status string
	)

	err := row.Scan(
		&res.ReservationID, &res.AccountID, &res.TableID, &res.Amount,
		&res.IdempotencyKey, &status, &res.CreatedAt, &res.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reservations.Reservation{}, reservations.ErrNotFound
		}

		return reservations.Reservation{}, fmt.Errorf("scan reservation: %w", err)
	}

	res.Status = reservations.Status(status)
	res.CreatedAt = res.CreatedAt.UTC()
	res.ExpiresAt = res.ExpiresAt.UTC()

	return res, nil
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return reservations.ErrNotActive
	}

	return nil
}
