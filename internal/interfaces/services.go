// Package interfaces defines service contracts for Coinfolio
package interfaces

import (
	"context"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// HoldingsService assembles per-holding and portfolio-level profit/loss views.
type HoldingsService interface {
	// BuildHoldings computes holdings for one portfolio owned by userID.
	// Returns models.ErrNotFound when the portfolio does not exist or is not
	// owned by the user. Data-quality problems (missing quotes, ledger
	// inconsistency) never error.
	BuildHoldings(ctx context.Context, userID, portfolioID string) (*models.HoldingsResponse, error)

	// BuildAllHoldings computes holdings across all portfolios of the user.
	BuildAllHoldings(ctx context.Context, userID string) (*models.HoldingsResponse, error)
}

// HistoryService reconstructs portfolio value over a period's time grid.
type HistoryService interface {
	// BuildHistory reconstructs the value series for one portfolio, or all
	// of the user's portfolios when portfolioID is empty. Results are cached
	// per (user, portfolio, period).
	BuildHistory(ctx context.Context, userID, portfolioID string, period models.HistoryPeriod) (*models.HistoryResponse, error)
}
