package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"bank-ledger/internal/domain"
	apperrors "bank-ledger/internal/errors"
)

// Postgres error codes the store maps into the error taxonomy.
const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
	pqQueryCanceled   = "57014"
)

const defaultTxTimeout = 5 * time.Second

// Store is the Postgres-backed ledger. A Store scoped to *sql.DB opens
// atomic units; a Store scoped to *sql.Tx is the view WithAtomic hands to
// its callback, so repository calls inside the callback join the unit.
type Store struct {
	executor  SQLExecutor
	logger    *slog.Logger
	txTimeout time.Duration
}

// NewStore creates a new Store instance
func NewStore(db *sql.DB, logger *slog.Logger, txTimeout time.Duration) *Store {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return &Store{
		executor:  db,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

var _ domain.Ledger = (*Store)(nil)

// Accounts returns an AccountRepository using the current executor
func (s *Store) Accounts() domain.AccountRepository {
	return NewAccountRepository(s.executor, s.logger)
}

// Transactions returns a TransactionRepository using the current executor
func (s *Store) Transactions() domain.TransactionRepository {
	return NewTransactionRepository(s.executor, s.logger)
}

// InterestRecords returns an InterestRepository using the current executor
func (s *Store) InterestRecords() domain.InterestRepository {
	return NewInterestRepository(s.executor, s.logger)
}

// WithAtomic executes fn within a database transaction bounded by the
// store's timeout. fn receives a tx-scoped ledger; an error or panic rolls
// everything back.
func (s *Store) WithAtomic(ctx context.Context, fn func(domain.Ledger) error) error {
	// Only a db-scoped store can begin transactions
	db, ok := s.executor.(DB)
	if !ok {
		return apperrors.ErrCannotBeginTransaction
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := db.BeginTx(txCtx, nil)
	if err != nil {
		return mapStorageErr(err)
	}

	txStore := &Store{
		executor:  tx,
		logger:    s.logger,
		txTimeout: s.txTimeout,
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		// The deadline tearing the transaction down surfaces as arbitrary
		// statement errors inside fn; report it as the timeout it is.
		if txCtx.Err() != nil {
			return mapStorageErr(txCtx.Err())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if txCtx.Err() != nil {
			return mapStorageErr(txCtx.Err())
		}
		return mapStorageErr(err)
	}
	return nil
}

// ApplyPosting locks the account, applies the delta and appends the record
// as one atomic unit. The insufficiency check happens here, after the lock,
// so no earlier read can race the commit.
func (s *Store) ApplyPosting(ctx context.Context, p domain.Posting) (*domain.Account, error) {
	var acct *domain.Account
	err := s.WithAtomic(ctx, func(l domain.Ledger) error {
		a, err := l.Accounts().GetForUpdate(ctx, p.AccountID)
		if err != nil {
			return err
		}

		newBalance := a.Balance.Add(p.Delta)
		if newBalance.IsNegative() {
			return apperrors.ErrInsufficientFunds
		}

		if err := l.Accounts().UpdateBalance(ctx, p.AccountID, newBalance); err != nil {
			return err
		}
		if err := l.Transactions().Create(ctx, p.Record); err != nil {
			return err
		}

		a.Balance = newBalance
		acct = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// ApplyPostingPair applies two postings as one atomic unit, locking the
// accounts strictly in argument order. Callers enforce a consistent order
// across concurrent invocations; the store never reorders.
func (s *Store) ApplyPostingPair(ctx context.Context, first, second domain.Posting) (*domain.Account, *domain.Account, error) {
	var firstAcct, secondAcct *domain.Account
	err := s.WithAtomic(ctx, func(l domain.Ledger) error {
		a, err := l.Accounts().GetForUpdate(ctx, first.AccountID)
		if err != nil {
			return err
		}
		b, err := l.Accounts().GetForUpdate(ctx, second.AccountID)
		if err != nil {
			return err
		}

		a.Balance = a.Balance.Add(first.Delta)
		b.Balance = b.Balance.Add(second.Delta)
		if a.Balance.IsNegative() || b.Balance.IsNegative() {
			return apperrors.ErrInsufficientFunds
		}

		if err := l.Accounts().UpdateBalance(ctx, a.AccountID, a.Balance); err != nil {
			return err
		}
		if err := l.Accounts().UpdateBalance(ctx, b.AccountID, b.Balance); err != nil {
			return err
		}
		if err := l.Transactions().Create(ctx, first.Record); err != nil {
			return err
		}
		if err := l.Transactions().Create(ctx, second.Record); err != nil {
			return err
		}

		firstAcct, secondAcct = a, b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return firstAcct, secondAcct, nil
}

// mapStorageErr normalizes driver and context failures into the error
// taxonomy. AppErrors pass through untouched.
func mapStorageErr(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrStorageTimeout.WithDetails(err.Error())
	}
	if stderrors.Is(err, context.Canceled) {
		return apperrors.ErrStorageFailure.WithDetails("operation canceled")
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqCheckViolation, pqUniqueViolation:
			return apperrors.ErrConstraintViolation.WithDetails(pqErr.Message)
		case pqQueryCanceled:
			return apperrors.ErrStorageTimeout.WithDetails(pqErr.Message)
		}
	}

	return apperrors.ErrStorageFailure.WithDetails(err.Error())
}
