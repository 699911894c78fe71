package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

// recentTransactionLimit caps the history slice in the account view.
const recentTransactionLimit = 10

type AccountService struct {
	ledger domain.Ledger
	logger *slog.Logger
}

func NewAccountService(ledger domain.Ledger, logger *slog.Logger) *AccountService {
	return &AccountService{
		ledger: ledger,
		logger: logger,
	}
}

func (s *AccountService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	s.logger.Info("Processing deposit", "account_id", accountID, "amount", amount)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	account, err := s.ledger.ApplyPosting(ctx, domain.Posting{
		AccountID: accountID,
		Delta:     amount,
		Record: &domain.Transaction{
			AccountID:   accountID,
			Type:        domain.TxDeposit,
			Amount:      amount,
			Description: "deposit",
			CreatedAt:   time.Now().UTC(),
		},
	})
	if err != nil {
		s.logger.Error("Deposit failed", "account_id", accountID, "error", err)
		return nil, err
	}

	s.logger.Info("Deposit completed", "account_id", accountID, "balance", account.Balance)
	return account, nil
}

func (s *AccountService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	s.logger.Info("Processing withdrawal", "account_id", accountID, "amount", amount)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	account, err := s.ledger.ApplyPosting(ctx, domain.Posting{
		AccountID: accountID,
		Delta:     amount.Neg(),
		Record: &domain.Transaction{
			AccountID:   accountID,
			Type:        domain.TxWithdrawal,
			Amount:      amount,
			Description: "withdrawal",
			CreatedAt:   time.Now().UTC(),
		},
	})
	if err != nil {
		s.logger.Error("Withdrawal failed", "account_id", accountID, "error", err)
		return nil, err
	}

	s.logger.Info("Withdrawal completed", "account_id", accountID, "balance", account.Balance)
	return account, nil
}

// GetAccountInfo returns the account with its most recent transactions and
// the interest accrued to date.
func (s *AccountService) GetAccountInfo(ctx context.Context, accountID string) (*domain.AccountInfo, error) {
	account, err := s.ledger.Accounts().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ledger.Transactions().Recent(ctx, accountID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	accrued, err := s.ledger.InterestRecords().AccruedTotal(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &domain.AccountInfo{
		Account:         account,
		Recent:          recent,
		AccruedInterest: accrued,
	}, nil
}

// validateAmount accepts only positive amounts representable in whole
// cents. Comparing against the rounded value catches any finer precision
// regardless of how the decimal was built.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return errors.ErrInvalidAmount
	}
	return nil
}
