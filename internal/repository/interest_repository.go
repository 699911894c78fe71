package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

// interestHistoryDateConstraint is the UNIQUE (account_id, calculation_date)
// constraint that makes a second accrual for the same day impossible.
const interestHistoryDateConstraint = "interest_history_account_date_key"

type interestRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewInterestRepository(db SQLExecutor, logger *slog.Logger) domain.InterestRepository {
	return &interestRepository{
		db:     db,
		logger: logger,
	}
}

func (r *interestRepository) Create(ctx context.Context, rec *domain.InterestRecord) error {
	query := `
		INSERT INTO interest_history
		(account_id, transaction_id, interest_rate, calculated_interest, calculation_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		rec.AccountID,
		rec.TransactionID,
		rec.InterestRate.String(),
		rec.CalculatedInterest.String(),
		rec.CalculationDate,
		rec.CreatedAt,
	).Scan(&rec.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == pqUniqueViolation && pqErr.Constraint == interestHistoryDateConstraint {
				r.logger.Warn("Interest already accrued",
					"account_id", rec.AccountID,
					"calculation_date", rec.CalculationDate)
				return errors.ErrDuplicateAccrual
			}
		}
		r.logger.Error("Failed to create interest record",
			"account_id", rec.AccountID,
			"calculation_date", rec.CalculationDate,
			"error", err)
		return mapStorageErr(err)
	}

	return nil
}

func (r *interestRepository) History(ctx context.Context, accountID string) ([]domain.InterestRecord, error) {
	query := `
		SELECT id, account_id, transaction_id, interest_rate, calculated_interest, calculation_date, created_at
		FROM interest_history
		WHERE account_id = $1
		ORDER BY calculation_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to list interest history", "account_id", accountID, "error", err)
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	var records []domain.InterestRecord
	for rows.Next() {
		var rec domain.InterestRecord
		var rateStr, interestStr string

		err := rows.Scan(
			&rec.ID,
			&rec.AccountID,
			&rec.TransactionID,
			&rateStr,
			&interestStr,
			&rec.CalculationDate,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, mapStorageErr(err)
		}

		if rec.InterestRate, err = decimal.NewFromString(rateStr); err != nil {
			return nil, errors.NewAppError(errors.StorageFailure, "failed to parse interest rate").WithDetails(err.Error())
		}
		if rec.CalculatedInterest, err = decimal.NewFromString(interestStr); err != nil {
			return nil, errors.NewAppError(errors.StorageFailure, "failed to parse interest amount").WithDetails(err.Error())
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStorageErr(err)
	}

	return records, nil
}

func (r *interestRepository) AccruedTotal(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(calculated_interest), 0)
		FROM interest_history
		WHERE account_id = $1
	`

	var totalStr string
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&totalStr); err != nil {
		r.logger.Error("Failed to sum accrued interest", "account_id", accountID, "error", err)
		return decimal.Zero, mapStorageErr(err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, errors.NewAppError(errors.StorageFailure, "failed to parse accrued total").WithDetails(err.Error())
	}

	return total, nil
}
