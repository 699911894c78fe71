package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxType classifies a ledger transaction. Amounts are always stored
// positive; the type carries the direction.
type TxType string

const (
	TxDeposit     TxType = "DEPOSIT"
	TxWithdrawal  TxType = "WITHDRAWAL"
	TxTransferIn  TxType = "TRANSFER_IN"
	TxTransferOut TxType = "TRANSFER_OUT"
)

// Credit reports whether the type increases the account balance.
func (t TxType) Credit() bool {
	return t == TxDeposit || t == TxTransferIn
}

// Transaction is one immutable row of the append-only history. Rows are
// never updated or deleted after commit. The two legs of a transfer share
// a CorrelationID and a CreatedAt stamp.
type Transaction struct {
	ID            int64           `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Type          TxType          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CorrelationID *uuid.UUID      `json:"correlation_id,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SignedAmount returns the amount with the sign the type implies, so that
// summing it over an account's history yields the balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type.Credit() {
		return t.Amount
	}
	return t.Amount.Neg()
}
