package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferReceipt confirms a committed transfer. FromBalance and ToBalance
// are the balances as of the commit.
type TransferReceipt struct {
	TransferID    uuid.UUID       `json:"transfer_id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	FromBalance   decimal.Decimal `json:"from_balance"`
	ToBalance     decimal.Decimal `json:"to_balance"`
	Timestamp     time.Time       `json:"timestamp"`
}
