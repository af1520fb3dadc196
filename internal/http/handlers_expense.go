package http

import (
	"net/http"

	"expensetracker/internal/analytics"
	"expensetracker/internal/core"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
)

// expenseView adds display fields to an expense.
type expenseView struct {
	core.Expense
	PaymentMethodName string `json:"paymentMethodName"`
	Display           string `json:"display"`
}

type dayView struct {
	Day      string        `json:"day"`
	Total    float64       `json:"total"`
	Display  string        `json:"display"`
	Expenses []expenseView `json:"expenses"`
}

type homeResponse struct {
	Filters           core.ExpenseFilters `json:"filters"`
	Days              []dayView           `json:"days"`
	Count             int                 `json:"count"`
	Total             float64             `json:"total"`
	TotalDisplay      string              `json:"totalDisplay"`
	MonthTotal        float64             `json:"monthTotal"`
	MonthTotalDisplay string              `json:"monthTotalDisplay"`
}

type expenseRequest struct {
	Amount          core.Amount `json:"amount"`
	Category        string      `json:"category"`
	PaymentMethodID string      `json:"paymentMethodId"`
	Description     string      `json:"description"`
	Date            string      `json:"date"`
}

func (s *Server) viewExpense(e core.Expense) expenseView {
	return expenseView{
		Expense:           e,
		PaymentMethodName: s.tracker.PaymentMethodName(e.PaymentMethodID),
		Display:           core.FormatCurrency(e.Amount.Float(), s.currency),
	}
}

func (s *Server) viewExpenses(in []core.Expense) []expenseView {
	out := make([]expenseView, 0, len(in))
	for _, e := range in {
		out = append(out, s.viewExpense(e))
	}
	return out
}

func (s *Server) viewHome(h services.HomeView) homeResponse {
	days := make([]dayView, 0, len(h.Days))
	for _, d := range h.Days {
		days = append(days, dayView{
			Day:      d.Day,
			Total:    d.Total,
			Display:  core.FormatCurrency(d.Total, s.currency),
			Expenses: s.viewExpenses(d.Expenses),
		})
	}
	return homeResponse{
		Filters:           h.Filters,
		Days:              days,
		Count:             h.Count,
		Total:             h.Total,
		TotalDisplay:      core.FormatCurrency(h.Total, s.currency),
		MonthTotal:        h.MonthTotal,
		MonthTotalDisplay: core.FormatCurrency(h.MonthTotal, s.currency),
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	h, err := s.tracker.ActiveHome()
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewHome(h))
}

func (s *Server) handleGetFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Filters())
}

func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var f core.ExpenseFilters
	if !decodeJSON(w, r, &f) {
		return
	}
	if _, err := analytics.ParseRange(f.StartDate, f.EndDate, s.tracker.Location()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.tracker.SetFilters(f)
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleClearFilters(w http.ResponseWriter, _ *http.Request) {
	s.tracker.ClearFilters()
	w.WriteHeader(http.StatusNoContent)
}

// handleListExpenses filters by query parameters and groups the result by
// day, like the home view.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	h, err := s.tracker.Home(filtersFromQuery(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewHome(h))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = core.DayKey(s.tracker.Now())
	}

	e, err := s.tracker.AddExpense(r.Context(), core.Expense{
		Amount:          req.Amount,
		Category:        req.Category,
		PaymentMethodID: req.PaymentMethodID,
		Description:     req.Description,
		Date:            req.Date,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.viewExpense(e))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.tracker.Expense(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewExpense(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var u store.ExpenseUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	e, err := s.tracker.UpdateExpense(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.viewExpense(e))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
