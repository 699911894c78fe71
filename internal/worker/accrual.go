package worker

import (
	"context"
	"log/slog"
	"time"

	"bank-ledger/internal/domain"
)

// Accruer is the slice of InterestService the worker drives.
type Accruer interface {
	AccrueDaily(ctx context.Context) (*domain.AccrualRun, error)
}

// StartAccrualWorker runs the interest sweep on a fixed interval until ctx
// is canceled. An interval of zero or less disables the worker. Failures
// are logged and the loop keeps going; the per-day uniqueness of accruals
// makes rerunning after a partial failure safe.
func StartAccrualWorker(ctx context.Context, accruer Accruer, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}

	go func() {
		logger.Info("Accrual worker started", "interval", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Accrual worker stopped")
				return
			case <-ticker.C:
				run, err := accruer.AccrueDaily(ctx)
				if err != nil {
					logger.Error("Scheduled accrual failed", "error", err)
					continue
				}
				logger.Info("Scheduled accrual completed",
					"credited", run.Credited,
					"skipped", run.Skipped,
					"failed", run.Failed,
					"total_interest", run.TotalInterest)
			}
		}
	}()
}
