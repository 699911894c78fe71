package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	AccountID    string          `json:"account_id"`
	CustomerName string          `json:"customer_name"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AccountInfo is the composed account view: current balance, the most
// recent transactions and the interest accrued to date.
type AccountInfo struct {
	Account         *Account        `json:"account"`
	Recent          []Transaction   `json:"recent"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
}
