package reservations

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("reservation not found")
	ErrNotActive = errors.New("reservation not active")
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCommitted Status = "COMMITTED"
	StatusExpired   Status = "EXPIRED"
	StatusReleased  Status = "RELEASED"
)

// Reservation is a provisional, time-bounded hold against an account's
// available balance, created ahead of a table buy-in.
type Reservation struct {
	ReservationID  string
	AccountID      string
	TableID        string
	Amount         int64
	IdempotencyKey string
	Status         Status
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// EffectiveStatus derives the status at a point in time. An ACTIVE row past
// its expiry reads as EXPIRED whether or not the background sweeper has
// persisted the flip; correctness never depends on the sweeper having run.
func (r Reservation) EffectiveStatus(now time.Time) Status {
	if r.Status == StatusActive && now.After(r.ExpiresAt) {
		return StatusExpired
	}

	return r.Status
}

type Registry interface {
	Create(tx *sql.Tx, r Reservation) error
	Get(ctx context.Context, reservationID string) (Reservation, error)

	// GetForUpdate locks the reservation row for the transaction. Callers take
	// the account row lock first, so lock order is account then reservation.
	GetForUpdate(tx *sql.Tx, reservationID string) (Reservation, error)

	// MarkCommitted flips ACTIVE to COMMITTED. The guard re-checks status and
	// expiry in SQL; zero rows affected means the reservation was no longer
	// commit-eligible and ErrNotActive is returned.
	MarkCommitted(tx *sql.Tx, reservationID string, now time.Time) error

	MarkReleased(tx *sql.Tx, reservationID string) error
	MarkExpired(tx *sql.Tx, reservationID string) error

	// SumActive totals the holds that still count against available balance:
	// ACTIVE rows not yet past expiry at evaluation time.
	SumActive(tx *sql.Tx, accountID string, now time.Time) (int64, error)

	// ActiveHold is SumActive for lock-free reads.
	ActiveHold(ctx context.Context, accountID string, now time.Time) (int64, error)

	// SweepExpired persists the EXPIRED transition for stale ACTIVE rows.
	// Bookkeeping only; every read re-derives expiry via EffectiveStatus.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
