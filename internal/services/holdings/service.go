// Package holdings assembles per-holding and portfolio-level profit/loss
// views from the transaction ledger and live price quotes.
package holdings

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/models"
	"github.com/bobmcallan/coinfolio/internal/services/accounting"
)

// quoteTimeout bounds the current-quote fetch so a slow oracle cannot block
// a holdings computation.
const quoteTimeout = 10 * time.Second

// Service implements HoldingsService
type Service struct {
	storage interfaces.StorageManager
	oracle  interfaces.PriceOracle
	logger  *common.Logger
}

// NewService creates a new holdings service
func NewService(storage interfaces.StorageManager, oracle interfaces.PriceOracle, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		oracle:  oracle,
		logger:  logger,
	}
}

// BuildHoldings computes holdings for one portfolio owned by userID.
func (s *Service) BuildHoldings(ctx context.Context, userID, portfolioID string) (*models.HoldingsResponse, error) {
	p, err := s.storage.Portfolios().GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	if p.UserID != userID {
		return nil, models.ErrNotFound
	}

	aggregates, err := s.storage.Ledger().ListDistinctAssets(ctx, userID, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return s.build(ctx, p.Name, portfolioID, userID, aggregates)
}

// BuildAllHoldings computes holdings across all portfolios of the user.
func (s *Service) BuildAllHoldings(ctx context.Context, userID string) (*models.HoldingsResponse, error) {
	aggregates, err := s.storage.Ledger().ListDistinctAssets(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return s.build(ctx, "all", "", userID, aggregates)
}

func (s *Service) build(ctx context.Context, portfolioName, portfolioID, userID string, aggregates []models.AssetAggregate) (*models.HoldingsResponse, error) {
	// One batched quote call for all assets. A failed or partial quote fetch
	// degrades to zero prices; it never fails the response.
	assetIDs := make([]string, 0, len(aggregates))
	for _, agg := range aggregates {
		if agg.TotalQuantity.IsPositive() {
			assetIDs = append(assetIDs, agg.AssetID)
		}
	}

	quotes := map[string]models.Quote{}
	if len(assetIDs) > 0 {
		quoteCtx, cancel := context.WithTimeout(ctx, quoteTimeout)
		fetched, err := s.oracle.GetCurrentQuotes(quoteCtx, assetIDs)
		cancel()
		if err != nil {
			s.logger.Warn().Err(err).Int("assets", len(assetIDs)).Msg("Quote fetch failed, using zero prices")
		} else {
			quotes = fetched
		}
	}

	snapshots := make([]models.HoldingSnapshot, 0, len(aggregates))
	var totalValue, totalCost, totalPL float64

	for _, agg := range aggregates {
		if !agg.TotalQuantity.IsPositive() {
			continue
		}

		txs, err := s.listTransactionsForAsset(ctx, userID, portfolioID, agg.AssetID)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions for '%s': %w", agg.AssetID, err)
		}

		// Cost basis from the full transaction history, not the aggregate.
		result := accounting.ComputeCostBasis(txs)
		if result.Oversold {
			s.logger.Warn().
				Str("portfolio", portfolioID).
				Str("asset", agg.AssetID).
				Msg("Ledger inconsistency: sells exceed buys, cost basis degraded")
		}

		quote := quotes[agg.AssetID] // zero-value quote for missing ids

		quantity := result.QuantityRemaining
		price := decimal.NewFromFloat(quote.Price)
		currentValue := quantity.Mul(price)
		unrealized := currentValue.Sub(result.CostBasis)

		plPercent := 0.0
		if result.CostBasis.IsPositive() {
			plPercent = unrealized.Div(result.CostBasis).InexactFloat64() * 100
		}

		snapshot := models.HoldingSnapshot{
			AssetID:              agg.AssetID,
			AssetSymbol:          agg.AssetSymbol,
			TotalQuantity:        quantity.InexactFloat64(),
			CostBasis:            result.CostBasis.InexactFloat64(),
			AvgBuyPrice:          result.AvgBuyPrice.InexactFloat64(),
			RealizedGainLoss:     result.RealizedGainLoss.InexactFloat64(),
			CurrentPrice:         quote.Price,
			CurrentValue:         currentValue.InexactFloat64(),
			UnrealizedProfitLoss: unrealized.InexactFloat64(),
			ProfitLossPercent:    plPercent,
			PctChange1h:          quote.Pct1h,
			PctChange24h:         quote.Pct24h,
			PctChange7d:          quote.Pct7d,
		}
		snapshots = append(snapshots, snapshot)

		totalValue += snapshot.CurrentValue
		totalCost += snapshot.CostBasis
		totalPL += snapshot.UnrealizedProfitLoss
	}

	summary := models.HoldingsSummary{
		TotalValue:      totalValue,
		TotalCost:       totalCost,
		TotalProfitLoss: totalPL,
		UniqueAssets:    len(snapshots),
	}
	if totalCost > 0 {
		summary.TotalProfitLossPercent = totalPL / totalCost * 100
	}

	return &models.HoldingsResponse{
		Portfolio: portfolioName,
		Holdings:  snapshots,
		Summary:   summary,
	}, nil
}

// listTransactionsForAsset loads one asset's history, within a portfolio or
// across all of the user's portfolios.
func (s *Service) listTransactionsForAsset(ctx context.Context, userID, portfolioID, assetID string) ([]models.Transaction, error) {
	if portfolioID != "" {
		return s.storage.Ledger().ListTransactions(ctx, portfolioID, assetID)
	}

	all, err := s.storage.Ledger().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs := make([]models.Transaction, 0, len(all))
	for i := range all {
		if all[i].AssetID == assetID {
			txs = append(txs, all[i])
		}
	}
	return txs, nil
}

// Ensure Service implements HoldingsService
var _ interfaces.HoldingsService = (*Service)(nil)
