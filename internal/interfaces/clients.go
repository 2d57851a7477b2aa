// Package interfaces defines service contracts for Coinfolio
package interfaces

import (
	"context"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// QuoteInterval selects the historical sampling interval.
type QuoteInterval string

const (
	IntervalHourly QuoteInterval = "hourly"
	IntervalDaily  QuoteInterval = "daily"
)

// PriceOracle supplies current and historical prices. Implementations are
// network clients; callers treat them as unreliable and degrade locally on
// failure rather than propagating errors.
type PriceOracle interface {
	// GetCurrentQuotes returns a quote per requested asset id. Ids the
	// provider does not know are absent from the map; callers treat absence
	// as an all-zero quote.
	GetCurrentQuotes(ctx context.Context, assetIDs []string) (map[string]models.Quote, error)

	// GetHistoricalQuotes returns close series covering pointCount samples at
	// the given interval, per asset, ordered ascending by close time.
	GetHistoricalQuotes(ctx context.Context, assetIDs []string, pointCount int, interval QuoteInterval) (map[string]models.HistoricalQuotes, error)
}
