package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
)

func TestAccountGet(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("FROM accounts WHERE account_id = \\$1").
		WithArgs("ACC001").
		WillReturnRows(accountRows("ACC001", "Ana Souza", "1000.00"))

	account, err := store.Accounts().Get(context.Background(), "ACC001")

	require.NoError(t, err)
	assert.Equal(t, "ACC001", account.AccountID)
	assert.Equal(t, "Ana Souza", account.CustomerName)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("1000.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountGetNotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("FROM accounts WHERE account_id = \\$1").
		WithArgs("ACC999").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "customer_name", "balance", "created_at", "updated_at"}))

	account, err := store.Accounts().Get(context.Background(), "ACC999")

	assert.Nil(t, account)
	assert.Equal(t, apperrors.ErrAccountNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountUpdateBalanceMissingRow(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("UPDATE accounts").
		WithArgs("10.00", sqlmock.AnyArg(), "ACC999").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Accounts().UpdateBalance(context.Background(), "ACC999", decimal.RequireFromString("10.00"))

	assert.Equal(t, apperrors.ErrAccountNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountIDs(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT account_id FROM accounts ORDER BY account_id").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).
			AddRow("ACC001").
			AddRow("ACC002").
			AddRow("ACC003"))

	ids, err := store.Accounts().IDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ACC001", "ACC002", "ACC003"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionsRecent(t *testing.T) {
	store, mock := newTestStore(t)

	transferID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "account_id", "type", "amount", "correlation_id", "description", "created_at"}).
		AddRow(int64(12), "ACC001", "TRANSFER_OUT", "300.00", transferID.String(), "transfer", now).
		AddRow(int64(11), "ACC001", "DEPOSIT", "250.50", nil, "deposit", now.Add(-time.Minute))

	mock.ExpectQuery("FROM transactions").
		WithArgs("ACC001", 10).
		WillReturnRows(rows)

	transactions, err := store.Transactions().Recent(context.Background(), "ACC001", 10)

	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.EqualValues(t, 12, transactions[0].ID)
	assert.Equal(t, domain.TxTransferOut, transactions[0].Type)
	require.NotNil(t, transactions[0].CorrelationID)
	assert.Equal(t, transferID, *transactions[0].CorrelationID)

	assert.EqualValues(t, 11, transactions[1].ID)
	assert.Equal(t, domain.TxDeposit, transactions[1].Type)
	assert.Nil(t, transactions[1].CorrelationID)
	assert.True(t, transactions[1].Amount.Equal(decimal.RequireFromString("250.50")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionsRecentEmptyHistory(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("FROM transactions").
		WithArgs("ACC002", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "type", "amount", "correlation_id", "description", "created_at"}))

	transactions, err := store.Transactions().Recent(context.Background(), "ACC002", 10)

	require.NoError(t, err)
	assert.Empty(t, transactions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterestCreateDuplicateDate(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("INSERT INTO interest_history").
		WillReturnError(&pq.Error{
			Code:       "23505",
			Constraint: "interest_history_account_date_key",
			Message:    "duplicate key value violates unique constraint",
		})

	rec := &domain.InterestRecord{
		AccountID:          "ACC003",
		TransactionID:      12,
		InterestRate:       decimal.RequireFromString("0.0005"),
		CalculatedInterest: decimal.RequireFromString("5.00"),
		CalculationDate:    time.Now().UTC(),
	}

	err := store.InterestRecords().Create(context.Background(), rec)

	assert.Equal(t, apperrors.ErrDuplicateAccrual, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterestCreateAssignsID(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("INSERT INTO interest_history").
		WithArgs("ACC003", int64(12), "0.0005", "5.00", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	rec := &domain.InterestRecord{
		AccountID:          "ACC003",
		TransactionID:      12,
		InterestRate:       decimal.RequireFromString("0.0005"),
		CalculatedInterest: decimal.RequireFromString("5.00"),
		CalculationDate:    time.Now().UTC(),
	}

	err := store.InterestRecords().Create(context.Background(), rec)

	require.NoError(t, err)
	assert.EqualValues(t, 3, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterestAccruedTotal(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(calculated_interest\\), 0\\)").
		WithArgs("ACC003").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("10.01"))

	total, err := store.InterestRecords().AccruedTotal(context.Background(), "ACC003")

	require.NoError(t, err)
	assert.Equal(t, "10.01", total.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterestHistoryOrdering(t *testing.T) {
	store, mock := newTestStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "account_id", "transaction_id", "interest_rate", "calculated_interest", "calculation_date", "created_at"}).
		AddRow(int64(2), "ACC003", int64(14), "0.0005", "5.00", now, now).
		AddRow(int64(1), "ACC003", int64(9), "0.0005", "5.01", now.Add(-24*time.Hour), now.Add(-24*time.Hour))

	mock.ExpectQuery("FROM interest_history").
		WithArgs("ACC003").
		WillReturnRows(rows)

	records, err := store.InterestRecords().History(context.Background(), "ACC003")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.EqualValues(t, 2, records[0].ID)
	assert.EqualValues(t, 14, records[0].TransactionID)
	assert.Equal(t, "5.00", records[0].CalculatedInterest.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
