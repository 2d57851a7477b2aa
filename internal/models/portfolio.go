package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio groups transactions under a user-owned container.
type Portfolio struct {
	ID        string    `badgerhold:"key" json:"id"`
	UserID    string    `badgerholdIndex:"UserID" json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CostBasisResult is the output of FIFO lot accounting over one
// (portfolio, asset) transaction history.
type CostBasisResult struct {
	CostBasis         decimal.Decimal
	RealizedGainLoss  decimal.Decimal
	AvgBuyPrice       decimal.Decimal
	QuantityRemaining decimal.Decimal
	// Oversold is set when a sell consumed more than the open lots held.
	// The numeric result is still defined (the shortfall consumes zero-cost
	// inventory); callers should log this as a data-integrity warning.
	Oversold bool
}

// HoldingSnapshot is a derived per-asset view, recomputed on every request
// and never persisted.
type HoldingSnapshot struct {
	AssetID              string  `json:"asset_id"`
	AssetSymbol          string  `json:"symbol"`
	TotalQuantity        float64 `json:"total_quantity"`
	CostBasis            float64 `json:"cost_basis"`
	AvgBuyPrice          float64 `json:"avg_buy_price"`
	RealizedGainLoss     float64 `json:"realized_gain_loss"`
	CurrentPrice         float64 `json:"current_price"`
	CurrentValue         float64 `json:"current_value"`
	UnrealizedProfitLoss float64 `json:"unrealized_profit_loss"`
	ProfitLossPercent    float64 `json:"profit_loss_percent"`
	PctChange1h          float64 `json:"pct_change_1h"`
	PctChange24h         float64 `json:"pct_change_24h"`
	PctChange7d          float64 `json:"pct_change_7d"`
}

// HoldingsSummary totals all holdings in a response. UniqueAssets is a count.
type HoldingsSummary struct {
	TotalValue             float64 `json:"total_value"`
	TotalCost              float64 `json:"total_cost"`
	TotalProfitLoss        float64 `json:"total_profit_loss"`
	TotalProfitLossPercent float64 `json:"total_profit_loss_percent"`
	UniqueAssets           int     `json:"unique_assets"`
}

// HoldingsResponse is the wire shape of a holdings request.
type HoldingsResponse struct {
	Portfolio string            `json:"portfolio"`
	Holdings  []HoldingSnapshot `json:"holdings"`
	Summary   HoldingsSummary   `json:"summary"`
}
