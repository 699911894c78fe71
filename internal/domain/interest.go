package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestRecord documents one interest credit. Every record points at the
// DEPOSIT transaction that moved the money; neither exists without the other.
type InterestRecord struct {
	ID                 int64           `json:"id"`
	AccountID          string          `json:"account_id"`
	TransactionID      int64           `json:"transaction_id"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	CalculatedInterest decimal.Decimal `json:"calculated_interest"`
	CalculationDate    time.Time       `json:"calculation_date"`
	CreatedAt          time.Time       `json:"created_at"`
}

// AccrualRun summarizes one interest sweep across all accounts.
type AccrualRun struct {
	RunDate       time.Time       `json:"run_date"`
	Credited      int             `json:"credited"`
	Skipped       int             `json:"skipped"`
	Failed        int             `json:"failed"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}
