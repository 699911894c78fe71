package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bank-ledger/internal/service"
)

type InterestHandler struct {
	interestService *service.InterestService
}

func NewInterestHandler(interestService *service.InterestService) *InterestHandler {
	return &InterestHandler{
		interestService: interestService,
	}
}

type AccrualRunResponse struct {
	RunDate          string `json:"run_date"`
	AccountsCredited int    `json:"accounts_credited"`
	AccountsSkipped  int    `json:"accounts_skipped"`
	AccountsFailed   int    `json:"accounts_failed"`
	TotalInterest    string `json:"total_interest"`
}

type InterestRecordView struct {
	ID                 int64     `json:"id"`
	AccountID          string    `json:"account_id"`
	TransactionID      int64     `json:"transaction_id"`
	InterestRate       string    `json:"interest_rate"`
	CalculatedInterest string    `json:"calculated_interest"`
	CalculationDate    string    `json:"calculation_date"`
	CreatedAt          time.Time `json:"created_at"`
}

func (h *InterestHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	run, err := h.interestService.AccrueDaily(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := AccrualRunResponse{
		RunDate:          run.RunDate.Format("2006-01-02"),
		AccountsCredited: run.Credited,
		AccountsSkipped:  run.Skipped,
		AccountsFailed:   run.Failed,
		TotalInterest:    run.TotalInterest.StringFixed(2),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *InterestHandler) History(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	accountID := vars["account_id"]

	records, err := h.interestService.History(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]InterestRecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, InterestRecordView{
			ID:                 rec.ID,
			AccountID:          rec.AccountID,
			TransactionID:      rec.TransactionID,
			InterestRate:       rec.InterestRate.String(),
			CalculatedInterest: rec.CalculatedInterest.StringFixed(2),
			CalculationDate:    rec.CalculationDate.Format("2006-01-02"),
			CreatedAt:          rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, views)
}
