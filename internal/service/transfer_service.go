package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type TransferService struct {
	ledger domain.Ledger
	logger *slog.Logger
}

func NewTransferService(ledger domain.Ledger, logger *slog.Logger) *TransferService {
	return &TransferService{
		ledger: ledger,
		logger: logger,
	}
}

// Transfer moves amount between two accounts as one atomic unit. The debit
// and credit legs share a transfer id and timestamp; either both commit or
// neither does. The sufficiency check runs inside the unit, under the lock.
func (s *TransferService) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) (*domain.TransferReceipt, error) {
	s.logger.Info("Processing transfer",
		"from_account_id", fromAccountID,
		"to_account_id", toAccountID,
		"amount", amount)

	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if fromAccountID == toAccountID {
		return nil, errors.ErrInvalidTransfer
	}

	// Resolve both accounts up front so an unknown id fails before any
	// locks are taken.
	if _, err := s.ledger.Accounts().Get(ctx, fromAccountID); err != nil {
		return nil, err
	}
	if _, err := s.ledger.Accounts().Get(ctx, toAccountID); err != nil {
		return nil, err
	}

	transferID := uuid.New()
	now := time.Now().UTC()

	debit := domain.Posting{
		AccountID: fromAccountID,
		Delta:     amount.Neg(),
		Record: &domain.Transaction{
			AccountID:     fromAccountID,
			Type:          domain.TxTransferOut,
			Amount:        amount,
			CorrelationID: &transferID,
			Description:   fmt.Sprintf("transfer %s to %s", transferID, toAccountID),
			CreatedAt:     now,
		},
	}
	credit := domain.Posting{
		AccountID: toAccountID,
		Delta:     amount,
		Record: &domain.Transaction{
			AccountID:     toAccountID,
			Type:          domain.TxTransferIn,
			Amount:        amount,
			CorrelationID: &transferID,
			Description:   fmt.Sprintf("transfer %s from %s", transferID, fromAccountID),
			CreatedAt:     now,
		},
	}

	// Lock in a direction-independent total order so opposing concurrent
	// transfers on the same pair cannot deadlock.
	first, second := debit, credit
	if fromAccountID > toAccountID {
		first, second = credit, debit
	}

	firstAcct, secondAcct, err := s.ledger.ApplyPostingPair(ctx, first, second)
	if err != nil {
		s.logger.Error("Transfer failed",
			"transfer_id", transferID,
			"from_account_id", fromAccountID,
			"to_account_id", toAccountID,
			"error", err)
		return nil, err
	}

	fromAcct, toAcct := firstAcct, secondAcct
	if first.AccountID != fromAccountID {
		fromAcct, toAcct = secondAcct, firstAcct
	}

	s.logger.Info("Transfer completed",
		"transfer_id", transferID,
		"from_account_id", fromAccountID,
		"to_account_id", toAccountID,
		"amount", amount)

	return &domain.TransferReceipt{
		TransferID:    transferID,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		FromBalance:   fromAcct.Balance,
		ToBalance:     toAcct.Balance,
		Timestamp:     now,
	}, nil
}
