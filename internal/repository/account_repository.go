package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, customer_name, balance, created_at, updated_at
		FROM accounts WHERE account_id = $1
	`

	return r.scanAccount(ctx, query, accountID)
}

func (r *accountRepository) GetForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, customer_name, balance, created_at, updated_at
		FROM accounts WHERE account_id = $1 FOR UPDATE
	`

	return r.scanAccount(ctx, query, accountID)
}

func (r *accountRepository) scanAccount(ctx context.Context, query string, accountID string) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string

	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.AccountID,
		&account.CustomerName,
		&balanceStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Account not found", "account_id", accountID)
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "account_id", accountID, "error", err)
		return nil, mapStorageErr(err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "account_id", accountID, "balance_str", balanceStr, "error", err)
		return nil, errors.NewAppError(errors.StorageFailure, "failed to parse balance").WithDetails(err.Error())
	}

	account.Balance = balance
	return &account, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE account_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, balance.String(), time.Now().UTC(), accountID)
	if err != nil {
		r.logger.Error("Failed to update account balance", "account_id", accountID, "error", err)
		return mapStorageErr(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return mapStorageErr(err)
	}

	if rowsAffected == 0 {
		r.logger.Warn("No account found to update", "account_id", accountID)
		return errors.ErrAccountNotFound
	}

	return nil
}

func (r *accountRepository) IDs(ctx context.Context) ([]string, error) {
	query := `SELECT account_id FROM accounts ORDER BY account_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list account ids", "error", err)
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapStorageErr(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStorageErr(err)
	}

	return ids, nil
}
