package http

import (
	"net/http"

	"expensetracker/internal/core"
)

type bucketsResponse struct {
	Buckets []core.BucketComparison `json:"buckets"`
}

func (s *Server) handleMonthlyComparison(w http.ResponseWriter, r *http.Request) {
	ref, err := s.refFromQuery(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.MonthlyComparison(ref))
}

func (s *Server) handleTenDayBuckets(w http.ResponseWriter, r *http.Request) {
	ref, err := s.refFromQuery(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bucketsResponse{Buckets: s.tracker.TenDayBuckets(ref)})
}
