package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type InterestService struct {
	ledger domain.Ledger
	rate   decimal.Decimal
	logger *slog.Logger
}

func NewInterestService(ledger domain.Ledger, rate decimal.Decimal, logger *slog.Logger) *InterestService {
	return &InterestService{
		ledger: ledger,
		rate:   rate,
		logger: logger,
	}
}

// AccrueDaily credits interest to every account, each in its own atomic
// unit, so one account's failure never blocks the rest. Accounts whose
// interest rounds to zero and accounts already credited today are skipped.
func (s *InterestService) AccrueDaily(ctx context.Context) (*domain.AccrualRun, error) {
	day := calculationDate(time.Now().UTC())
	s.logger.Info("Starting interest accrual", "calculation_date", day.Format("2006-01-02"), "rate", s.rate)

	ids, err := s.ledger.Accounts().IDs(ctx)
	if err != nil {
		s.logger.Error("Failed to list accounts for accrual", "error", err)
		return nil, err
	}

	run := &domain.AccrualRun{
		RunDate:       day,
		TotalInterest: decimal.Zero,
	}

	for _, accountID := range ids {
		interest, err := s.accrueAccount(ctx, accountID, day)
		switch {
		case err == nil && interest.IsPositive():
			run.Credited++
			run.TotalInterest = run.TotalInterest.Add(interest)
		case err == nil:
			run.Skipped++
		case errors.HasCode(err, errors.DuplicateAccrual):
			run.Skipped++
		default:
			run.Failed++
			s.logger.Error("Interest accrual failed", "account_id", accountID, "error", err)
		}
	}

	s.logger.Info("Interest accrual finished",
		"credited", run.Credited,
		"skipped", run.Skipped,
		"failed", run.Failed,
		"total_interest", run.TotalInterest)

	if len(ids) > 0 && run.Failed == len(ids) {
		return run, errors.ErrStorageFailure.WithDetails("no account could be processed")
	}
	return run, nil
}

// accrueAccount credits one day's interest to one account: balance update,
// DEPOSIT transaction and interest record commit together. The unique
// calculation-date constraint aborts the whole unit on a repeat run.
func (s *InterestService) accrueAccount(ctx context.Context, accountID string, day time.Time) (decimal.Decimal, error) {
	var interest decimal.Decimal

	err := s.ledger.WithAtomic(ctx, func(l domain.Ledger) error {
		account, err := l.Accounts().GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		interest = account.Balance.Mul(s.rate).Round(2)
		if !interest.IsPositive() {
			interest = decimal.Zero
			return nil
		}

		record := &domain.Transaction{
			AccountID:   accountID,
			Type:        domain.TxDeposit,
			Amount:      interest,
			Description: fmt.Sprintf("daily interest %s (rate %s)", day.Format("2006-01-02"), s.rate),
			CreatedAt:   time.Now().UTC(),
		}

		if err := l.Accounts().UpdateBalance(ctx, accountID, account.Balance.Add(interest)); err != nil {
			return err
		}
		if err := l.Transactions().Create(ctx, record); err != nil {
			return err
		}

		return l.InterestRecords().Create(ctx, &domain.InterestRecord{
			AccountID:          accountID,
			TransactionID:      record.ID,
			InterestRate:       s.rate,
			CalculatedInterest: interest,
			CalculationDate:    day,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}

	return interest, nil
}

// History returns the interest records for an account, newest first. An
// unknown account is an error rather than an empty history.
func (s *InterestService) History(ctx context.Context, accountID string) ([]domain.InterestRecord, error) {
	if _, err := s.ledger.Accounts().Get(ctx, accountID); err != nil {
		return nil, err
	}
	return s.ledger.InterestRecords().History(ctx, accountID)
}

func calculationDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
