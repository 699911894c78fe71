package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"bank-ledger/internal/errors"
	"bank-ledger/internal/service"
)

type TransferHandler struct {
	transferService *service.TransferService
	validation      *ValidationHelper
}

func NewTransferHandler(transferService *service.TransferService, validation *ValidationHelper) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		validation:      validation,
	}
}

type TransferRequest struct {
	FromAccountID string      `json:"from_account_id" validate:"required,max=64"`
	ToAccountID   string      `json:"to_account_id" validate:"required,max=64"`
	Amount        json.Number `json:"amount" validate:"required"`
}

type TransferResponse struct {
	TransferID    string    `json:"transfer_id"`
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Amount        string    `json:"amount"`
	FromBalance   string    `json:"from_balance"`
	ToBalance     string    `json:"to_balance"`
	Timestamp     time.Time `json:"timestamp"`
}

func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
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

	receipt, err := h.transferService.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := TransferResponse{
		TransferID:    receipt.TransferID.String(),
		FromAccountID: receipt.FromAccountID,
		ToAccountID:   receipt.ToAccountID,
		Amount:        receipt.Amount.StringFixed(2),
		FromBalance:   receipt.FromBalance.StringFixed(2),
		ToBalance:     receipt.ToBalance.StringFixed(2),
		Timestamp:     receipt.Timestamp,
	}

	writeJSON(w, http.StatusOK, response)
}
