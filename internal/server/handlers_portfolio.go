package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/coinfolio/internal/models"
)

type portfolioRequest struct {
	Name string `json:"name"`
}

func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		portfolios, err := s.storage.Portfolios().ListPortfolios(r.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list portfolios")
			WriteError(w, http.StatusInternalServerError, "Failed to list portfolios")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolios": portfolios})

	case http.MethodPost:
		var req portfolioRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			WriteError(w, http.StatusBadRequest, "Portfolio name is required")
			return
		}
		portfolio := &models.Portfolio{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      req.Name,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.storage.Portfolios().SavePortfolio(r.Context(), portfolio); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save portfolio")
			WriteError(w, http.StatusInternalServerError, "Failed to create portfolio")
			return
		}
		WriteJSON(w, http.StatusCreated, portfolio)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request, portfolioID string) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	portfolio, ok := s.ownedPortfolio(w, r, userID, portfolioID)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodDelete:
		if err := s.storage.Portfolios().DeletePortfolio(r.Context(), portfolioID); err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to delete portfolio")
			WriteError(w, http.StatusInternalServerError, "Failed to delete portfolio")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

type transactionRequest struct {
	AssetID      string          `json:"asset_id"`
	AssetSymbol  string          `json:"asset_symbol"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Fee          decimal.Decimal `json:"fee"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, portfolioID string) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if _, ok := s.ownedPortfolio(w, r, userID, portfolioID); !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		transactions, err := s.storage.Ledger().ListByPortfolio(r.Context(), portfolioID)
		if err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to list transactions")
			WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})

	case http.MethodPost:
		var req transactionRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		tx := &models.Transaction{
			UserID:       userID,
			PortfolioID:  portfolioID,
			AssetID:      strings.ToLower(strings.TrimSpace(req.AssetID)),
			AssetSymbol:  strings.ToUpper(strings.TrimSpace(req.AssetSymbol)),
			Kind:         models.TransactionKind(req.Kind),
			Quantity:     req.Quantity,
			PricePerUnit: req.PricePerUnit,
			TotalAmount:  req.TotalAmount,
			Fee:          req.Fee,
			OccurredAt:   req.OccurredAt,
		}
		if tx.OccurredAt.IsZero() {
			tx.OccurredAt = time.Now().UTC()
		}
		// Derive the total when the client only supplies quantity and price.
		if tx.TotalAmount.IsZero() && tx.Quantity.IsPositive() && tx.PricePerUnit.IsPositive() {
			tx.TotalAmount = tx.Quantity.Mul(tx.PricePerUnit)
		}

		if err := s.storage.Ledger().InsertTransaction(r.Context(), tx); err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidTransaction):
				WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, models.ErrInsufficientBalance):
				WriteError(w, http.StatusUnprocessableEntity, "Sell quantity exceeds available balance")
			default:
				s.logger.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to insert transaction")
				WriteError(w, http.StatusInternalServerError, "Failed to record transaction")
			}
			return
		}
		WriteJSON(w, http.StatusCreated, tx)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request, portfolioID, txID string) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	if _, ok := s.ownedPortfolio(w, r, userID, portfolioID); !ok {
		return
	}

	id, err := strconv.ParseUint(txID, 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	if err := s.storage.Ledger().DeleteTransaction(r.Context(), portfolioID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		s.logger.Error().Err(err).Uint64("transaction_id", id).Msg("Failed to delete transaction")
		WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownedPortfolio loads a portfolio and verifies it belongs to the user.
// A portfolio owned by someone else reads as not found.
func (s *Server) ownedPortfolio(w http.ResponseWriter, r *http.Request, userID, portfolioID string) (*models.Portfolio, bool) {
	portfolio, err := s.storage.Portfolios().GetPortfolio(r.Context(), portfolioID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Portfolio not found")
			return nil, false
		}
		s.logger.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to load portfolio")
		WriteError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return nil, false
	}
	if portfolio.UserID != userID {
		WriteError(w, http.StatusNotFound, "Portfolio not found")
		return nil, false
	}
	return portfolio, true
}
