package http

import (
	"math/rand/v2"
	"net/http"

	"expensetracker/internal/log"
	"expensetracker/internal/transfer"
)

type importResponse struct {
	Expenses         int `json:"expenses"`
	PaymentMethods   int `json:"paymentMethods"`
	CustomCategories int `json:"customCategories"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses-export.json"`)
	if err := transfer.Export(w, s.tracker); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed", log.FieldError, err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := transfer.Import(r.Context(), s.tracker, r.Body)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Expenses:         len(data.Expenses),
		PaymentMethods:   len(data.PaymentMethods),
		CustomCategories: len(data.CustomCategories),
	})
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	data, err := transfer.Seed(r.Context(), s.tracker, s.tracker.Now(), rnd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Expenses:         len(data.Expenses),
		PaymentMethods:   len(data.PaymentMethods),
		CustomCategories: len(data.CustomCategories),
	})
}
