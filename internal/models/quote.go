package models

import "time"

// Quote is a current price snapshot with short-horizon percent changes.
// A zero-value Quote is the defined fallback for assets the oracle does not
// know about.
type Quote struct {
	Price  float64
	Pct1h  float64
	Pct24h float64
	Pct7d  float64
}

// HistoricalQuote is a single close price sample.
type HistoricalQuote struct {
	CloseTime time.Time
	Close     float64
}

// HistoricalQuotes holds an asset's close series ordered ascending by CloseTime.
type HistoricalQuotes struct {
	AssetID string
	Quotes  []HistoricalQuote
}

// CloseAsOf returns the latest close at or before t. When no quote is that
// old it falls back to the earliest available quote. ok is false only when
// the series is empty.
func (h *HistoricalQuotes) CloseAsOf(t time.Time) (float64, bool) {
	if len(h.Quotes) == 0 {
		return 0, false
	}
	price := h.Quotes[0].Close // earliest-quote fallback
	for _, q := range h.Quotes {
		if q.CloseTime.After(t) {
			break
		}
		price = q.Close
	}
	return price, true
}
