package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/coinfolio/internal/models"
)

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request, portfolioID string) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := s.holdings.BuildHoldings(r.Context(), userID, portfolioID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		s.logger.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to build holdings")
		WriteError(w, http.StatusInternalServerError, "Failed to build holdings")
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAllHoldings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := s.holdings.BuildAllHoldings(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build combined holdings")
		WriteError(w, http.StatusInternalServerError, "Failed to build holdings")
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}
