package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/coinfolio/internal/models"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, portfolioID string) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	s.serveHistory(w, r, userID, portfolioID)
}

func (s *Server) handleAllHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	s.serveHistory(w, r, userID, "")
}

func (s *Server) serveHistory(w http.ResponseWriter, r *http.Request, userID, portfolioID string) {
	period := models.HistoryPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = models.Period24h
	}
	if !period.Valid() {
		WriteError(w, http.StatusBadRequest, "Period must be one of: 24h, 7d, 30d")
		return
	}

	resp, err := s.history.BuildHistory(r.Context(), userID, portfolioID, period)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		s.logger.Error().Err(err).
			Str("portfolio_id", portfolioID).
			Str("period", string(period)).
			Msg("Failed to build history")
		WriteError(w, http.StatusInternalServerError, "Failed to build history")
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}
