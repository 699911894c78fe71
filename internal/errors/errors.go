package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidRequest      ErrorCode = "invalid_request"
	InvalidAmount       ErrorCode = "invalid_amount"
	InvalidTransfer     ErrorCode = "invalid_transfer"
	AccountNotFound     ErrorCode = "account_not_found"
	InsufficientFunds   ErrorCode = "insufficient_funds"
	ConstraintViolation ErrorCode = "constraint_violation"
	DuplicateAccrual    ErrorCode = "duplicate_accrual"
	StorageTimeout      ErrorCode = "storage_timeout"
	StorageFailure      ErrorCode = "storage_failure"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails returns a copy carrying the extra detail, so the predefined
// errors below stay immutable.
func (e *AppError) WithDetails(details string) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// HTTPStatus maps the error code to the response status. Validation and
// business failures are 400, unknown accounts 404, storage trouble 500.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidRequest, InvalidAmount, InvalidTransfer, InsufficientFunds, ConstraintViolation:
		return http.StatusBadRequest
	case AccountNotFound:
		return http.StatusNotFound
	case DuplicateAccrual:
		return http.StatusConflict
	case StorageTimeout, StorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// Predefined errors for common cases
var (
	ErrInvalidAmount          = NewAppError(InvalidAmount, "amount must be positive with at most two decimal places")
	ErrInvalidTransfer        = NewAppError(InvalidTransfer, "transfer must reference two distinct accounts")
	ErrAccountNotFound        = NewAppError(AccountNotFound, "account not found")
	ErrInsufficientFunds      = NewAppError(InsufficientFunds, "insufficient funds")
	ErrConstraintViolation    = NewAppError(ConstraintViolation, "balance constraint violated")
	ErrDuplicateAccrual       = NewAppError(DuplicateAccrual, "interest already accrued for this date")
	ErrStorageTimeout         = NewAppError(StorageTimeout, "storage operation timed out")
	ErrStorageFailure         = NewAppError(StorageFailure, "storage operation failed")
	ErrCannotBeginTransaction = NewAppError(StorageFailure, "atomic unit already in progress")
)
