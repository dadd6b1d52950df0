package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pokerloft/chipledger/internal/infra/pgutils"
	"github.com/pokerloft/chipledger/internal/ledger"
	"github.com/pokerloft/chipledger/internal/repos/accounts"
	"github.com/pokerloft/chipledger/internal/repos/reservations"
)

// ReserveForBuyIn places a provisional hold on available balance ahead of a
// table buy-in. No ledger entry is written — the hold only becomes a
// ledger-visible event when committed. Replays with the same key return the
// original reservation id without creating a second hold.
func (s *Service) ReserveForBuyIn(ctx context.Context, accountID, tableID string, amount int64, key string, timeout time.Duration) (*ReserveResult, error) {
	if accountID == "" {
		return nil, ErrInvalidAccount
	}

	if tableID == "" {
		return nil, ErrInvalidTable
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if timeout <= 0 {
		timeout = s.cfg.DefaultReservationTimeout
	}

	out, err := s.runIdempotent(ctx, opReserve, accountID, key,
		func(tx *sql.Tx, snap accounts.Snapshot) (outcome, error) {
			now := s.timestamp()

			held, err := s.holds.SumActive(tx, accountID, now)
			if err != nil {
				return outcome{}, fmt.Errorf("sum active holds: %w", err)
			}

			available := snap.Balance - held
			if amount > available {
				return outcome{Error: ErrInsufficientBalance.Code}, nil
			}

			res := reservations.Reservation{
				ReservationID:  s.newID(),
				AccountID:      accountID,
				TableID:        tableID,
				Amount:         amount,
				IdempotencyKey: key,
				Status:         reservations.StatusActive,
				CreatedAt:      now,
				ExpiresAt:      now.Add(timeout),
			}

			err = s.holds.Create(tx, res)
			if err != nil {
				return outcome{}, fmt.Errorf("create reservation: %w", err)
			}

			return outcome{OK: true, ReservationID: res.ReservationID, AvailableBalance: available - amount}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("reserve for buy-in: %w", err)
	}

	return out.reserveResult()
}

// CommitReservation settles an active hold: one RESERVE_COMMIT entry deducts
// the held amount from the balance and the reservation becomes COMMITTED.
// The call is idempotent keyed by the reservation id itself — a retry against
// an already-committed reservation replays the original settlement, since the
// caller may legitimately retry after a dropped response. The settlement
// entry's transaction id is the reservation id, linking hold to settlement.
func (s *Service) CommitReservation(ctx context.Context, reservationID string) (*CommitResult, error) {
	if reservationID == "" {
		return nil, ErrReservationNotActive
	}

	res, err := s.holds.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservations.ErrNotFound) {
			return nil, ErrReservationNotActive
		}

		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	var (
		result *CommitResult
		bizErr error
	)

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		snap, err := s.accounts.LockForUpdate(tx, res.AccountID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		// Re-read under the account lock; the first read raced other writers.
		r, err := s.holds.GetForUpdate(tx, reservationID)
		if err != nil {
			return fmt.Errorf("lock reservation: %w", err)
		}

		now := s.now()

		switch r.EffectiveStatus(now) {
		case reservations.StatusCommitted:
			e, err := s.entries.FindByTransaction(tx, r.AccountID, r.ReservationID)
			if err != nil {
				return fmt.Errorf("replay committed reservation: %w", err)
			}

			result = &CommitResult{TransactionID: e.TransactionID, NewBalance: e.BalanceAfter}

			return nil

		case reservations.StatusExpired:
			if r.Status == reservations.StatusActive {
				// Persist the lazily detected transition while we are here.
				err = s.holds.MarkExpired(tx, r.ReservationID)
				if err != nil {
					return fmt.Errorf("persist expiry: %w", err)
				}
			}

			bizErr = ErrReservationExpired

			return nil

		case reservations.StatusReleased:
			bizErr = ErrReservationNotActive

			return nil
		}

		e, err := s.appendEntry(tx, snap, ledger.TypeReserveCommit, r.ReservationID, r.Amount,
			map[string]string{"table_id": r.TableID})
		if err != nil {
			return err
		}

		err = s.holds.MarkCommitted(tx, r.ReservationID, now)
		if err != nil {
			return fmt.Errorf("mark committed: %w", err)
		}

		result = &CommitResult{TransactionID: e.TransactionID, NewBalance: e.BalanceAfter}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	if bizErr != nil {
		return nil, bizErr
	}

	return result, nil
}

// ReleaseReservation cancels an active hold, returning its amount to
// available balance. No ledger entry is written. Releasing a reservation that
// already reached a terminal state is a no-op success.
func (s *Service) ReleaseReservation(ctx context.Context, reservationID string) error {
	if reservationID == "" {
		return ErrReservationNotActive
	}

	res, err := s.holds.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservations.ErrNotFound) {
			return ErrReservationNotActive
		}

		return fmt.Errorf("release reservation: %w", err)
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.accounts.LockForUpdate(tx, res.AccountID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		r, err := s.holds.GetForUpdate(tx, reservationID)
		if err != nil {
			return fmt.Errorf("lock reservation: %w", err)
		}

		switch r.EffectiveStatus(s.now()) {
		case reservations.StatusActive:
			err = s.holds.MarkReleased(tx, r.ReservationID)
			if err != nil {
				return fmt.Errorf("mark released: %w", err)
			}

			return nil

		case reservations.StatusExpired:
			if r.Status == reservations.StatusActive {
				err = s.holds.MarkExpired(tx, r.ReservationID)
				if err != nil {
					return fmt.Errorf("persist expiry: %w", err)
				}
			}

			return nil

		default:
			// COMMITTED or RELEASED: terminal, nothing to undo.
			return nil
		}
	})
	if err != nil {
		return fmt.Errorf("release reservation: %w", err)
	}

	return nil
}
