package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pokerloft/chipledger/internal/infra/pgutils"
	"github.com/pokerloft/chipledger/internal/ledger"
	"github.com/pokerloft/chipledger/internal/repos/accounts"
	pgaccounts "github.com/pokerloft/chipledger/internal/repos/accounts/postgres"
	"github.com/pokerloft/chipledger/internal/repos/idempotency"
	pgidempotency "github.com/pokerloft/chipledger/internal/repos/idempotency/postgres"
	"github.com/pokerloft/chipledger/internal/repos/ledgerstore"
	pgledgerstore "github.com/pokerloft/chipledger/internal/repos/ledgerstore/postgres"
	"github.com/pokerloft/chipledger/internal/repos/reservations"
	pgreservations "github.com/pokerloft/chipledger/internal/repos/reservations/postgres"
)

type Config struct {
	// DefaultReservationTimeout applies when a buy-in reservation omits an
	// explicit timeout.
	DefaultReservationTimeout time.Duration

	// IdempotencyRetention bounds how long stored snapshots are kept; replays
	// beyond the window are treated as new operations.
	IdempotencyRetention time.Duration

	// SweepInterval is the cadence of the background bookkeeping sweeper.
	SweepInterval time.Duration
}

const (
	defaultReservationTimeout = 30 * time.Second
	defaultRetention          = 24 * time.Hour
	defaultSweepInterval      = 15 * time.Second
)

func (c Config) withDefaults() Config {
	if c.DefaultReservationTimeout <= 0 {
		c.DefaultReservationTimeout = defaultReservationTimeout
	}

	if c.IdempotencyRetention <= 0 {
		c.IdempotencyRetention = defaultRetention
	}

	if c.SweepInterval <= 0 {
		c.SweepInterval = defaultSweepInterval
	}

	return c
}

// Service is the balance manager: it orchestrates every chip movement against
// the ledger store, reservation registry and idempotency records. Per-account
// serialization is pushed into Postgres — each mutating flow locks the
// account row for its whole validate-then-apply sequence, so the guarantee
// holds across horizontally scaled processes.
type Service struct {
	db       *sql.DB
	accounts accounts.Accounts
	entries  ledgerstore.Ledger
	holds    reservations.Registry
	idem     idempotency.Records
	cache    idempotency.Cache

	cfg   Config
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithCache installs a fast-path idempotency cache in front of the durable
// records. Optional; misses and cache failures fall through to Postgres.
func WithCache(c idempotency.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func New(db *sql.DB, cfg Config, opts ...Option) *Service {
	s := &Service{
		db:       db,
		accounts: pgaccounts.New(db),
		entries:  pgledgerstore.New(db),
		holds:    pgreservations.New(db),
		idem:     pgidempotency.New(db),
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// timestamp truncates to millisecond precision so canonical checksum input
// round-trips through the store exactly.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// runIdempotent is the decorator shared by all keyed mutating operations:
// replay a stored snapshot if one exists, otherwise run compute under the
// account row lock and store its outcome — success or deterministic failure —
// in the same transaction that applied it. Infrastructure failures roll the
// transaction back and are never cached, so a retry re-attempts the full
// operation.
func (s *Service) runIdempotent(ctx context.Context, op, accountID, key string,
	compute func(tx *sql.Tx, snap accounts.Snapshot) (outcome, error),
) (outcome, error) {
	if key == "" {
		return outcome{}, ErrIdempotencyKeyRequired
	}

	if o, ok := s.replay(ctx, op, accountID, key); ok {
		return o, nil
	}

	var out outcome

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.accounts.Ensure(tx, accountID)
		if err != nil {
			return fmt.Errorf("ensure account: %w", err)
		}

		snap, err := s.accounts.LockForUpdate(tx, accountID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		// Second look under the lock: a duplicate carrying the same key may
		// have applied while we were waiting.
		prev, err := s.idem.GetTx(tx, op, accountID, key)
		if err == nil {
			out, err = decodeOutcome(prev)
			if err != nil {
				return err
			}

			return nil
		}

		if !errors.Is(err, idempotency.ErrNotFound) {
			return fmt.Errorf("idempotency lookup: %w", err)
		}

		out, err = compute(tx, snap)
		if err != nil {
			return err
		}

		b, err := encodeOutcome(out)
		if err != nil {
			return err
		}

		err = s.idem.Put(tx, op, accountID, key, b)
		if err != nil {
			return fmt.Errorf("store idempotency record: %w", err)
		}

		return nil
	})
	if err != nil {
		return outcome{}, err
	}

	s.cacheOutcome(ctx, op, accountID, key, out)

	return out, nil
}

// replay serves the pre-lock fast path. Lookup failures degrade to a miss;
// the in-transaction re-check is the correctness path.
func (s *Service) replay(ctx context.Context, op, accountID, key string) (outcome, bool) {
	if s.cache != nil {
		b, err := s.cache.Get(ctx, op, accountID, key)
		switch {
		case err == nil:
			o, derr := decodeOutcome(b)
			if derr == nil {
				return o, true
			}

			slog.Warn("corrupt cached idempotency snapshot", "operation", op, "account_id", accountID, "error", derr)
		case !errors.Is(err, idempotency.ErrNotFound):
			slog.Warn("idempotency cache read failed", "operation", op, "error", err)
		}
	}

	b, err := s.idem.Get(ctx, op, accountID, key)
	if err != nil {
		if !errors.Is(err, idempotency.ErrNotFound) {
			slog.Warn("idempotency record read failed", "operation", op, "error", err)
		}

		return outcome{}, false
	}

	o, err := decodeOutcome(b)
	if err != nil {
		slog.Error("corrupt idempotency snapshot", "operation", op, "account_id", accountID, "error", err)

		return outcome{}, false
	}

	s.cacheOutcome(ctx, op, accountID, key, o)

	return o, true
}

func (s *Service) cacheOutcome(ctx context.Context, op, accountID, key string, o outcome) {
	if s.cache == nil {
		return
	}

	b, err := encodeOutcome(o)
	if err != nil {
		return
	}

	err = s.cache.Set(ctx, op, accountID, key, b)
	if err != nil {
		slog.Warn("idempotency cache write failed", "operation", op, "error", err)
	}
}

// appendEntry links one entry onto the account's chain and moves the account
// row to the post-entry state. Caller holds the account lock.
func (s *Service) appendEntry(tx *sql.Tx, snap accounts.Snapshot, typ ledger.EntryType,
	transactionID string, amount int64, metadata map[string]string,
) (*ledger.Entry, error) {
	e := &ledger.Entry{
		EntryID:       s.newID(),
		TransactionID: transactionID,
		AccountID:     snap.AccountID,
		Type:          typ,
		Amount:        amount,
		BalanceBefore: snap.Balance,
		BalanceAfter:  snap.Balance + ledger.SignedDelta(typ, amount),
		Metadata:      metadata,
		CreatedAt:     s.timestamp(),
	}

	if e.BalanceAfter < 0 {
		return nil, fmt.Errorf("entry would drive balance of %s negative (%d)", snap.AccountID, e.BalanceAfter)
	}

	err := s.entries.Append(tx, e)
	if err != nil {
		return nil, fmt.Errorf("append entry: %w", err)
	}

	err = s.accounts.ApplyEntry(tx, snap.AccountID, e.BalanceAfter, e.Checksum)
	if err != nil {
		return nil, fmt.Errorf("advance account: %w", err)
	}

	return e, nil
}
