package wallet

import (
	"context"
	"log/slog"
	"time"
)

// RunSweeper periodically persists the EXPIRED transition for stale ACTIVE
// reservations and garbage-collects idempotency records past the retention
// window. Pure bookkeeping: every read path re-derives expiry on its own, so
// correctness never depends on this loop having run. Blocks until ctx ends.
func (s *Service) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Service) sweepOnce(ctx context.Context) {
	now := s.now()

	flipped, err := s.holds.SweepExpired(ctx, now)
	if err != nil {
		slog.Error("reservation sweep failed", "error", err)
	} else if flipped > 0 {
		slog.Info("stale reservations expired", "count", flipped)
	}

	removed, err := s.idem.DeleteOlderThan(ctx, now.Add(-s.cfg.IdempotencyRetention))
	if err != nil {
		slog.Error("idempotency record gc failed", "error", err)
	} else if removed > 0 {
		slog.Info("idempotency records collected", "count", removed)
	}
}
