package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expensetracker/internal/analytics"
	"expensetracker/internal/auth"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/store"
	"expensetracker/internal/transfer"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, status int, msg string, details ...string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrExpenseNotFound),
		errors.Is(err, store.ErrPaymentMethodNotFound),
		errors.Is(err, store.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrCashProtected),
		errors.Is(err, store.ErrDuplicateCash),
		errors.Is(err, store.ErrDuplicateCategory),
		errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyPaymentMethod),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyIcon),
		errors.Is(err, core.ErrInvalidPaymentMethodType),
		errors.Is(err, core.ErrInvalidTheme),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, store.ErrMissingID),
		errors.Is(err, analytics.ErrInvalidBound),
		errors.Is(err, transfer.ErrInvalidDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError logs server-side failures and reports the error.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err)
		writeError(w, r, status, "internal error")
		return
	}
	var verr *transfer.ValidationError
	if errors.As(err, &verr) {
		writeError(w, r, status, transfer.ErrInvalidDocument.Error(), verr.Details...)
		return
	}
	writeError(w, r, status, err.Error())
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", err.Error())
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body", "unexpected data after object")
		return false
	}
	return true
}

// filtersFromQuery reads category, paymentMethodId, startDate and endDate.
func filtersFromQuery(r *http.Request) core.ExpenseFilters {
	q := r.URL.Query()
	return core.ExpenseFilters{
		Category:        strings.TrimSpace(q.Get("category")),
		PaymentMethodID: strings.TrimSpace(q.Get("paymentMethodId")),
		StartDate:       strings.TrimSpace(q.Get("startDate")),
		EndDate:         strings.TrimSpace(q.Get("endDate")),
	}
}

// refFromQuery parses the optional date parameter. Absent means now.
func (s *Server) refFromQuery(r *http.Request) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("date"))
	if v == "" {
		return s.tracker.Now(), nil
	}
	t, ok := core.ParseDate(v, s.tracker.Location())
	if !ok {
		return time.Time{}, fmt.Errorf("date %q: %w", v, core.ErrInvalidDate)
	}
	return t, nil
}
