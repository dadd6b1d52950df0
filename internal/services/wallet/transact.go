package wallet

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pokerloft/chipledger/internal/ledger"
	"github.com/pokerloft/chipledger/internal/repos/accounts"
)

// Deposit credits amount chips to the account, creating it on first
// reference. Replays with the same key return the original transaction id and
// balance without a second credit.
func (s *Service) Deposit(ctx context.Context, accountID string, amount int64, key string, metadata map[string]string) (*TxResult, error) {
	if accountID == "" {
		return nil, ErrInvalidAccount
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	out, err := s.runIdempotent(ctx, opDeposit, accountID, key,
		func(tx *sql.Tx, snap accounts.Snapshot) (outcome, error) {
			e, err := s.appendEntry(tx, snap, ledger.TypeDeposit, s.newID(), amount, metadata)
			if err != nil {
				return outcome{}, err
			}

			return outcome{OK: true, TransactionID: e.TransactionID, BalanceAfter: e.BalanceAfter}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	return out.txResult()
}

// Withdraw debits amount chips. The check runs against available balance:
// chips under an active reservation cannot be withdrawn even though they are
// still part of the committed balance.
func (s *Service) Withdraw(ctx context.Context, accountID string, amount int64, key, reason string) (*TxResult, error) {
	if accountID == "" {
		return nil, ErrInvalidAccount
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	out, err := s.runIdempotent(ctx, opWithdraw, accountID, key,
		func(tx *sql.Tx, snap accounts.Snapshot) (outcome, error) {
			held, err := s.holds.SumActive(tx, accountID, s.now())
			if err != nil {
				return outcome{}, fmt.Errorf("sum active holds: %w", err)
			}

			if amount > snap.Balance-held {
				// Deterministic failure: cached so a retry gets the same
				// answer without re-validating against changed state.
				return outcome{Error: ErrInsufficientBalance.Code}, nil
			}

			var metadata map[string]string
			if reason != "" {
				metadata = map[string]string{"reason": reason}
			}

			e, err := s.appendEntry(tx, snap, ledger.TypeWithdraw, s.newID(), amount, metadata)
			if err != nil {
				return outcome{}, err
			}

			return outcome{OK: true, TransactionID: e.TransactionID, BalanceAfter: e.BalanceAfter}, nil
		})
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	return out.txResult()
}
