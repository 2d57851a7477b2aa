// Package history reconstructs portfolio value over a period's time grid
// from the transaction ledger and historical price series.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/models"
)

// Fetch timeouts: historical batches are heavier than current quotes.
const (
	historicalTimeout = 30 * time.Second
	quoteTimeout      = 10 * time.Second
)

// DefaultCacheTTL is how long an assembled history result stays cached.
const DefaultCacheTTL = 600 * time.Second

// Service implements HistoryService
type Service struct {
	storage  interfaces.StorageManager
	oracle   interfaces.PriceOracle
	logger   *common.Logger
	cacheTTL time.Duration

	// now is stubbed in tests.
	now func() time.Time
}

// NewService creates a new history service
func NewService(storage interfaces.StorageManager, oracle interfaces.PriceOracle, logger *common.Logger) *Service {
	return &Service{
		storage:  storage,
		oracle:   oracle,
		logger:   logger,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

// WithCacheTTL overrides the result cache TTL.
func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
	return s
}

// replayState tracks incremental transaction replay for one asset.
// Transactions are sorted by (OccurredAt, ID) ascending; the cursor advances
// as grid timestamps progress, so the whole series is reconstructed in one
// pass over the ledger.
type replayState struct {
	assetID  string
	txs      []models.Transaction
	cursor   int
	quantity decimal.Decimal
}

// advanceTo folds in all transactions with OccurredAt <= cutoff.
func (r *replayState) advanceTo(cutoff time.Time) {
	for r.cursor < len(r.txs) {
		tx := &r.txs[r.cursor]
		if tx.OccurredAt.After(cutoff) {
			break
		}
		r.quantity = r.quantity.Add(tx.SignedQuantity())
		r.cursor++
	}
}

// BuildHistory reconstructs the value series for one portfolio, or for all
// of the user's portfolios when portfolioID is empty.
func (s *Service) BuildHistory(ctx context.Context, userID, portfolioID string, period models.HistoryPeriod) (*models.HistoryResponse, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("unknown history period '%s'", period)
	}

	if portfolioID != "" {
		p, err := s.storage.Portfolios().GetPortfolio(ctx, portfolioID)
		if err != nil {
			return nil, models.ErrNotFound
		}
		if p.UserID != userID {
			return nil, models.ErrNotFound
		}
	}

	// Cache hit short-circuits the entire reconstruction.
	cacheKey := historyCacheKey(userID, portfolioID, period)
	if data, ok := s.storage.Cache().Get(ctx, cacheKey); ok {
		var cached models.HistoryResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			s.logger.Debug().Str("key", cacheKey).Msg("History cache hit")
			return &cached, nil
		}
	}

	response, err := s.reconstruct(ctx, userID, portfolioID, period)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(response); err == nil {
		if err := s.storage.Cache().Set(ctx, cacheKey, data, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache history result")
		}
	}

	return response, nil
}

func (s *Service) reconstruct(ctx context.Context, userID, portfolioID string, period models.HistoryPeriod) (*models.HistoryResponse, error) {
	start := time.Now()

	// One bulk ledger load instead of one grouped query per grid point.
	var txs []models.Transaction
	var err error
	if portfolioID != "" {
		txs, err = s.storage.Ledger().ListByPortfolio(ctx, portfolioID)
	} else {
		txs, err = s.storage.Ledger().ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	if len(txs) == 0 {
		// No assets ever held: empty points and an all-zero summary.
		return &models.HistoryResponse{
			Period:  string(period),
			Points:  []models.ValuationPoint{},
			Summary: models.HistorySummary{},
		}, nil
	}

	states, assetIDs := buildReplayStates(txs)
	spec := specForPeriod(period)
	grid := generateGrid(period, s.now())

	series, fallback := s.loadPrices(ctx, assetIDs, spec)

	points := make([]models.ValuationPoint, 0, len(grid))
	for _, t := range grid {
		total := decimal.Zero
		for _, st := range states {
			st.advanceTo(t)
			if !st.quantity.IsPositive() {
				continue
			}

			price, ok := priceAt(series, st.assetID, t)
			if !ok {
				price = fallback[st.assetID]
			}
			total = total.Add(st.quantity.Mul(decimal.NewFromFloat(price)))
		}

		points = append(points, models.ValuationPoint{
			Timestamp:     t.Unix(),
			Value:         total.InexactFloat64(),
			DateFormatted: t.Format(spec.dateFormat),
		})
	}

	response := &models.HistoryResponse{
		Period:  string(period),
		Points:  points,
		Summary: summarize(points),
	}

	s.logger.Debug().
		Str("portfolio", portfolioID).
		Str("period", string(period)).
		Int("points", len(points)).
		Int("assets", len(states)).
		Dur("elapsed", time.Since(start)).
		Msg("History reconstructed")

	return response, nil
}

// loadPrices fetches the historical batch; on failure it degrades to current
// prices applied uniformly, and finally to zero prices. The chart stays
// populated either way.
func (s *Service) loadPrices(ctx context.Context, assetIDs []string, spec gridSpec) (map[string]models.HistoricalQuotes, map[string]float64) {
	histCtx, cancel := context.WithTimeout(ctx, historicalTimeout)
	series, err := s.oracle.GetHistoricalQuotes(histCtx, assetIDs, spec.pointCount, spec.interval)
	cancel()
	if err == nil {
		return series, map[string]float64{}
	}
	s.logger.Warn().Err(err).Msg("Historical quote batch failed, falling back to current prices")

	fallback := make(map[string]float64, len(assetIDs))
	quoteCtx, cancel := context.WithTimeout(ctx, quoteTimeout)
	quotes, err := s.oracle.GetCurrentQuotes(quoteCtx, assetIDs)
	cancel()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Current quote fallback failed, using zero prices")
		return map[string]models.HistoricalQuotes{}, fallback
	}
	for id, q := range quotes {
		fallback[id] = q.Price
	}
	return map[string]models.HistoricalQuotes{}, fallback
}

// priceAt resolves an asset's close at t: latest close <= t, else the
// earliest quote in the batch. ok is false when the asset has no series.
func priceAt(series map[string]models.HistoricalQuotes, assetID string, t time.Time) (float64, bool) {
	sq, ok := series[assetID]
	if !ok {
		return 0, false
	}
	return sq.CloseAsOf(t)
}

// buildReplayStates groups transactions per asset. The input is already
// sorted by (OccurredAt, ID), so per-asset order is preserved.
func buildReplayStates(txs []models.Transaction) ([]*replayState, []string) {
	byAsset := make(map[string]*replayState)
	var order []string
	for i := range txs {
		tx := &txs[i]
		st, ok := byAsset[tx.AssetID]
		if !ok {
			st = &replayState{assetID: tx.AssetID, quantity: decimal.Zero}
			byAsset[tx.AssetID] = st
			order = append(order, tx.AssetID)
		}
		st.txs = append(st.txs, *tx)
	}

	states := make([]*replayState, 0, len(order))
	for _, id := range order {
		states = append(states, byAsset[id])
	}
	return states, order
}

func summarize(points []models.ValuationPoint) models.HistorySummary {
	if len(points) == 0 {
		return models.HistorySummary{}
	}

	startValue := points[0].Value
	endValue := points[len(points)-1].Value
	change := endValue - startValue

	changePercent := 0.0
	if startValue != 0 {
		changePercent = change / startValue * 100
	}

	return models.HistorySummary{
		StartValue:    startValue,
		EndValue:      endValue,
		Change:        change,
		ChangePercent: changePercent,
		IsProfit:      change >= 0,
	}
}

func historyCacheKey(userID, portfolioID string, period models.HistoryPeriod) string {
	scope := portfolioID
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("history:%s:%s:%s", userID, scope, period)
}

// Ensure Service implements HistoryService
var _ interfaces.HistoryService = (*Service)(nil)
