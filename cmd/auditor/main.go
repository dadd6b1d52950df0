// Command auditor replays ledger chains offline and reports the first break
// it finds. It never repairs anything: a broken chain means the store was
// tampered with or corrupted and needs manual investigation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pokerloft/chipledger/internal/config"
	"github.com/pokerloft/chipledger/internal/infra/logging"
	"github.com/pokerloft/chipledger/internal/infra/pgutils"
	"github.com/pokerloft/chipledger/internal/ledger"
	pgaccounts "github.com/pokerloft/chipledger/internal/repos/accounts/postgres"
	"github.com/pokerloft/chipledger/internal/services/wallet"
	"github.com/pokerloft/chipledger/pkg/envconf"
)

type auditorConfig struct {
	// AccountID limits the audit to one account; unset audits every account.
	AccountID string     `env:"APP_ACCOUNT_ID,optional"`
	LogLevel  slog.Level `env:"APP_LOG_LEVEL,optional"`

	Postgres config.PostgresConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		slog.Error("audit failed", "error", err)
		//nolint:gocritic
		os.Exit(1)
	}

	slog.Info("audit passed")
}

func run(ctx context.Context) error {
	cfg := new(auditorConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	//nolint:errcheck
	defer db.Close()

	svc := wallet.New(db, wallet.Config{})

	ids := []string{cfg.AccountID}
	if cfg.AccountID == "" {
		ids, err = pgaccounts.New(db).ListIDs(ctx)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
	}

	var failed bool

	for _, id := range ids {
		err = svc.VerifyAccountChain(ctx, id)
		if err == nil {
			slog.Info("chain verified", "account_id", id)
			continue
		}

		var ierr *ledger.IntegrityError
		if errors.As(err, &ierr) {
			slog.Error("chain integrity violation",
				"account_id", ierr.AccountID,
				"entry_id", ierr.EntryID,
				"break_at", ierr.BreakAt,
				"reason", ierr.Reason,
			)

			failed = true

			continue
		}

		return fmt.Errorf("verify account %s: %w", id, err)
	}

	if failed {
		return errors.New("one or more account chains failed verification")
	}

	return nil
}
