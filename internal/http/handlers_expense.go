package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"splitledger/internal/core"
	applog "splitledger/internal/log"
)

// expenseRequest is the JSON shape for creating an expense. Amount is a
// decimal string ("12.50") to avoid float rounding on the wire.
type expenseRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	PaidBy      string `json:"paid_by"`
	Category    string `json:"category"`
}

type expenseResponse struct {
	Ref         string `json:"ref,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	PaidBy      string `json:"paid_by"`
	Category    string `json:"category"`
}

func toExpenseResponse(ref string, e core.Expense) expenseResponse {
	return expenseResponse{
		Ref:         ref,
		Date:        e.Date.String(),
		Description: e.Description,
		AmountCents: e.Amount.Cents,
		PaidBy:      e.PaidBy,
		Category:    string(e.Category),
	}
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleCreateExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	records := s.service.Records()
	out := make([]expenseResponse, 0, len(records))
	for _, e := range records {
		out = append(out, toExpenseResponse("", e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	expense, err := parseExpenseRequest(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.service.AddExpense(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Expense creation failed",
			"error", err,
			"description", expense.Description,
			"amount_cents", expense.Amount.Cents)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}

	// Record set changed; every cached snapshot is stale.
	s.snapshotCache.Clear()

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogExpenseCreated(r.Context(), expense.Description, expense.Amount.Cents,
			expense.PaidBy, string(expense.Category), ref)

	writeJSON(w, http.StatusCreated, toExpenseResponse(ref, expense))
}

func parseExpenseRequest(req expenseRequest) (core.Expense, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Expense{}, err
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}

	category, err := core.ParseCategory(req.Category)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:        date,
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		PaidBy:      sanitizeInput(req.PaidBy),
		Category:    category,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrEmptyPaidBy)
}
