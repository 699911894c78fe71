package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
	"bank-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	validation     *ValidationHelper
}

func NewAccountHandler(accountService *service.AccountService, validation *ValidationHelper) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		validation:     validation,
	}
}

type AmountRequest struct {
	Amount json.Number `json:"amount" validate:"required"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type TransactionView struct {
	TransactionID int64     `json:"transaction_id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type AccountInfoResponse struct {
	AccountID       string            `json:"account_id"`
	CustomerName    string            `json:"customer_name"`
	Balance         string            `json:"balance"`
	AccruedInterest string            `json:"accrued_interest"`
	Transactions    []TransactionView `json:"transactions"`
}

func newTransactionView(tx *domain.Transaction) TransactionView {
	view := TransactionView{
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		Amount:        tx.Amount.StringFixed(2),
		Description:   tx.Description,
		Timestamp:     tx.CreatedAt,
	}
	if tx.CorrelationID != nil {
		view.CorrelationID = tx.CorrelationID.String()
	}
	return view
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	info, err := h.accountService.GetAccountInfo(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	transactions := make([]TransactionView, 0, len(info.Recent))
	for i := range info.Recent {
		transactions = append(transactions, newTransactionView(&info.Recent[i]))
	}

	response := AccountInfoResponse{
		AccountID:       info.Account.AccountID,
		CustomerName:    info.Account.CustomerName,
		Balance:         info.Account.Balance.StringFixed(2),
		AccruedInterest: info.AccruedInterest.StringFixed(2),
		Transactions:    transactions,
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidRequest, "invalid request body").WithDetails(err.Error()))
		return
	}
	if details, ok := h.validation.Check(req); !ok {
		writeError(w, errors.NewAppError(errors.InvalidRequest, "invalid request body").WithDetails(details))
		return
	}

	amount, appErr := parseAmount(req.Amount)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	account, err := h.accountService.Deposit(r.Context(), accountID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := BalanceResponse{
		AccountID: account.AccountID,
		Balance:   account.Balance.StringFixed(2),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidRequest, "invalid request body").WithDetails(err.Error()))
		return
	}
	if details, ok := h.validation.Check(req); !ok {
		writeError(w, errors.NewAppError(errors.InvalidRequest, "invalid request body").WithDetails(details))
		return
	}

	amount, appErr := parseAmount(req.Amount)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	account, err := h.accountService.Withdraw(r.Context(), accountID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := BalanceResponse{
		AccountID: account.AccountID,
		Balance:   account.Balance.StringFixed(2),
	}

	writeJSON(w, http.StatusOK, response)
}
