package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/errors"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := Response{Data: data}
	json.NewEncoder(w).Encode(response)
}

func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")

	statusCode := appErr.HTTPStatus()
	errResponse := Error{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	}
	// Storage details stay in the logs, not on the wire.
	if statusCode >= http.StatusInternalServerError {
		errResponse.Details = ""
	}

	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Response{Error: &errResponse})
}

// writeServiceError renders err, downgrading anything that is not an
// AppError to an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		writeError(w, appErr)
		return
	}
	writeError(w, errors.NewAppError(errors.StorageFailure, "an unexpected error occurred"))
}

// parseAmount converts a JSON number into an exact decimal. Going through
// the raw string avoids float rounding on values like 0.10.
func parseAmount(raw json.Number) (decimal.Decimal, *errors.AppError) {
	amount, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, errors.NewAppError(errors.InvalidAmount, "invalid amount format").WithDetails(err.Error())
	}
	return amount, nil
}
