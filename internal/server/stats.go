package server

import (
	"net/http"

	"github.com/alexedwards/flow"
)

func (s *Service) handleUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.UserStats(r.Context(), flow.Param(r.Context(), "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}
