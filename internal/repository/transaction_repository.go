package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions
		(account_id, type, amount, correlation_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	// Handle optional correlation id
	var correlationID interface{}
	if tx.CorrelationID != nil {
		correlationID = *tx.CorrelationID
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		tx.AccountID,
		string(tx.Type),
		tx.Amount.String(),
		correlationID,
		tx.Description,
		tx.CreatedAt,
	).Scan(&tx.ID)

	if err != nil {
		r.logger.Error("Failed to create transaction",
			"account_id", tx.AccountID,
			"type", tx.Type,
			"amount", tx.Amount,
			"error", err)
		return mapStorageErr(err)
	}

	return nil
}

// Recent returns up to limit transactions, newest first. Ordering by
// (created_at, id) keeps rows with equal stamps, such as the two legs of a
// transfer, in a stable total order.
func (r *transactionRepository) Recent(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, correlation_id, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID, "error", err)
		return nil, mapStorageErr(err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStorageErr(err)
	}

	return transactions, nil
}

func scanTransaction(rows *sql.Rows) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var amountStr string
	var typeStr string
	var correlationID sql.NullString

	err := rows.Scan(
		&transaction.ID,
		&transaction.AccountID,
		&typeStr,
		&amountStr,
		&correlationID,
		&transaction.Description,
		&transaction.CreatedAt,
	)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	transaction.Type = domain.TxType(typeStr)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, errors.NewAppError(errors.StorageFailure, "failed to parse amount").WithDetails(err.Error())
	}
	transaction.Amount = amount

	if correlationID.Valid {
		id, err := uuid.Parse(correlationID.String)
		if err != nil {
			return nil, errors.NewAppError(errors.StorageFailure, "failed to parse correlation id").WithDetails(err.Error())
		}
		transaction.CorrelationID = &id
	}

	return &transaction, nil
}
