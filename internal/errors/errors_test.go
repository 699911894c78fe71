package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		status int
	}{
		{InvalidRequest, http.StatusBadRequest},
		{InvalidAmount, http.StatusBadRequest},
		{InvalidTransfer, http.StatusBadRequest},
		{InsufficientFunds, http.StatusBadRequest},
		{ConstraintViolation, http.StatusBadRequest},
		{AccountNotFound, http.StatusNotFound},
		{DuplicateAccrual, http.StatusConflict},
		{StorageTimeout, http.StatusInternalServerError},
		{StorageFailure, http.StatusInternalServerError},
		{ErrorCode("something_new"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, NewAppError(tc.code, "msg").HTTPStatus(), string(tc.code))
	}
}

func TestWithDetailsLeavesOriginalUntouched(t *testing.T) {
	detailed := ErrAccountNotFound.WithDetails("account ACC999")

	assert.Equal(t, "account ACC999", detailed.Details)
	assert.Equal(t, ErrAccountNotFound.Code, detailed.Code)
	assert.Empty(t, ErrAccountNotFound.Details)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(ErrInsufficientFunds, InsufficientFunds))
	assert.False(t, HasCode(ErrInsufficientFunds, InvalidAmount))
	assert.False(t, HasCode(nil, InsufficientFunds))
	assert.False(t, HasCode(assert.AnError, StorageFailure))

	wrapped := fmt.Errorf("accrual sweep: %w", ErrDuplicateAccrual)
	assert.True(t, HasCode(wrapped, DuplicateAccrual))
}

func TestErrorString(t *testing.T) {
	err := NewAppErrorf(InvalidAmount, "amount %s is not positive", "-5")
	assert.Equal(t, "invalid_amount: amount -5 is not positive", err.Error())
}
