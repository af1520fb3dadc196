package http

import (
	"net/http"

	"expensetracker/internal/core"
	"expensetracker/internal/store"
)

type paymentMethodRequest struct {
	Type     core.PaymentMethodType `json:"type"`
	Name     string                 `json:"name"`
	BankName string                 `json:"bankName"`
}

func (s *Server) handleListPaymentMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Export().PaymentMethods)
}

func (s *Server) handleCreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.tracker.AddPaymentMethod(r.Context(), core.PaymentMethod{Type: req.Type, Name: req.Name, BankName: req.BankName})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var u store.PaymentMethodUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	m, err := s.tracker.UpdatePaymentMethod(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeletePaymentMethod(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoriesResponse struct {
	Categories []string              `json:"categories"`
	Custom     []core.CustomCategory `json:"customCategories"`
}

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	data := s.tracker.Export()
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: data.Categories, Custom: data.CustomCategories})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.tracker.AddCustomCategory(r.Context(), core.CustomCategory{Name: req.Name, Icon: req.Icon, Color: req.Color})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var u store.CategoryUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	c, err := s.tracker.UpdateCustomCategory(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteCustomCategory(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type themeBody struct {
	Theme core.ThemePreference `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	pref, err := s.theme.Get(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: pref})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := s.theme.Save(r.Context(), body.Theme); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleGetCurrency(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.currency)
}
