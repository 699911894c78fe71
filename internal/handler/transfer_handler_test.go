package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/domain/mocks"
	"bank-ledger/internal/errors"
)

func TestTransferReturnsReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedger(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)

	ledger.EXPECT().Accounts().Return(accounts).Times(2)
	accounts.EXPECT().Get(gomock.Any(), "ACC001").Return(&domain.Account{AccountID: "ACC001"}, nil)
	accounts.EXPECT().Get(gomock.Any(), "ACC002").Return(&domain.Account{AccountID: "ACC002"}, nil)

	ledger.EXPECT().
		ApplyPostingPair(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, first, second domain.Posting) (*domain.Account, *domain.Account, error) {
			return &domain.Account{AccountID: "ACC001", Balance: decimal.RequireFromString("850.50")},
				&domain.Account{AccountID: "ACC002", Balance: decimal.RequireFromString("800.00")},
				nil
		})

	router := newLedgerRouter(ledger)
	rec := doRequest(t, router, http.MethodPost, "/transfers",
		`{"from_account_id":"ACC001","to_account_id":"ACC002","amount":300.00}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TransferResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, "ACC001", resp.FromAccountID)
	assert.Equal(t, "ACC002", resp.ToAccountID)
	assert.Equal(t, "300.00", resp.Amount)
	assert.Equal(t, "850.50", resp.FromBalance)
	assert.Equal(t, "800.00", resp.ToBalance)
	assert.False(t, resp.Timestamp.IsZero())

	_, err := uuid.Parse(resp.TransferID)
	assert.NoError(t, err, "transfer id is a uuid")
}

func TestTransferValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		code   errors.ErrorCode
	}{
		{name: "malformed json", body: `{"from_account_id":`, status: http.StatusBadRequest, code: errors.InvalidRequest},
		{name: "missing to account", body: `{"from_account_id":"ACC001","amount":50.00}`, status: http.StatusBadRequest, code: errors.InvalidRequest},
		{name: "missing amount", body: `{"from_account_id":"ACC001","to_account_id":"ACC002"}`, status: http.StatusBadRequest, code: errors.InvalidRequest},
		{name: "overlong account id", body: `{"from_account_id":"` + strings.Repeat("A", 65) + `","to_account_id":"ACC002","amount":50.00}`, status: http.StatusBadRequest, code: errors.InvalidRequest},
		{name: "zero amount", body: `{"from_account_id":"ACC001","to_account_id":"ACC002","amount":0}`, status: http.StatusBadRequest, code: errors.InvalidAmount},
		{name: "self transfer", body: `{"from_account_id":"ACC001","to_account_id":"ACC001","amount":50.00}`, status: http.StatusBadRequest, code: errors.InvalidTransfer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No expectations: rejected requests never touch the ledger.
			ledger := mocks.NewMockLedger(ctrl)
			router := newLedgerRouter(ledger)

			rec := doRequest(t, router, http.MethodPost, "/transfers", tc.body)
			requireErrorCode(t, rec, tc.status, tc.code)
		})
	}
}

func TestTransferUnknownDestination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedger(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)

	ledger.EXPECT().Accounts().Return(accounts).Times(2)
	accounts.EXPECT().Get(gomock.Any(), "ACC001").Return(&domain.Account{AccountID: "ACC001"}, nil)
	accounts.EXPECT().Get(gomock.Any(), "ACC999").Return(nil, errors.ErrAccountNotFound)

	router := newLedgerRouter(ledger)
	rec := doRequest(t, router, http.MethodPost, "/transfers",
		`{"from_account_id":"ACC001","to_account_id":"ACC999","amount":50.00}`)

	requireErrorCode(t, rec, http.StatusNotFound, errors.AccountNotFound)
}

func TestTransferInsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedger(ctrl)
	accounts := mocks.NewMockAccountRepository(ctrl)

	ledger.EXPECT().Accounts().Return(accounts).Times(2)
	accounts.EXPECT().Get(gomock.Any(), "ACC002").Return(&domain.Account{AccountID: "ACC002"}, nil)
	accounts.EXPECT().Get(gomock.Any(), "ACC003").Return(&domain.Account{AccountID: "ACC003"}, nil)
	ledger.EXPECT().
		ApplyPostingPair(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.ErrInsufficientFunds)

	router := newLedgerRouter(ledger)
	rec := doRequest(t, router, http.MethodPost, "/transfers",
		`{"from_account_id":"ACC002","to_account_id":"ACC003","amount":100000.00}`)

	requireErrorCode(t, rec, http.StatusBadRequest, errors.InsufficientFunds)
}
