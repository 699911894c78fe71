package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/mock_ledger.go -package=mocks -source=ledger.go

// AccountRepository reads and writes account rows. GetForUpdate and
// UpdateBalance are only meaningful inside an atomic unit.
type AccountRepository interface {
	Get(ctx context.Context, accountID string) (*Account, error)
	GetForUpdate(ctx context.Context, accountID string) (*Account, error)
	UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal) error
	IDs(ctx context.Context) ([]string, error)
}

// TransactionRepository appends to and reads the transaction history.
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	Recent(ctx context.Context, accountID string, limit int) ([]Transaction, error)
}

// InterestRepository records and reads interest credits.
type InterestRepository interface {
	Create(ctx context.Context, rec *InterestRecord) error
	History(ctx context.Context, accountID string) ([]InterestRecord, error)
	AccruedTotal(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// Posting couples a balance delta with the transaction row that records it.
// The delta is signed; Record.Amount stays positive.
type Posting struct {
	AccountID string
	Delta     decimal.Decimal
	Record    *Transaction
}

// Ledger is the storage boundary. Every balance mutation goes through
// ApplyPosting, ApplyPostingPair or a WithAtomic unit, so a balance update
// and the transaction row recording it always commit together.
type Ledger interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	InterestRecords() InterestRepository

	// WithAtomic runs fn against a ledger scoped to a single atomic unit.
	// Everything fn writes commits together or not at all; fn's error or
	// panic rolls the unit back.
	WithAtomic(ctx context.Context, fn func(Ledger) error) error

	// ApplyPosting locks the account, applies the delta, appends the record
	// and commits, returning the account as of the commit. A delta that
	// would take the balance negative aborts with ErrInsufficientFunds.
	ApplyPosting(ctx context.Context, p Posting) (*Account, error)

	// ApplyPostingPair applies two postings as one atomic unit. Accounts
	// are locked strictly in argument order; concurrent callers must agree
	// on that order to stay deadlock-free.
	ApplyPostingPair(ctx context.Context, first, second Posting) (*Account, *Account, error)
}
