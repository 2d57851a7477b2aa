package models

// HistoryPeriod selects the reconstruction time grid.
type HistoryPeriod string

const (
	Period24h HistoryPeriod = "24h"
	Period7d  HistoryPeriod = "7d"
	Period30d HistoryPeriod = "30d"
)

// Valid reports whether the period is one of the supported grids.
func (p HistoryPeriod) Valid() bool {
	switch p {
	case Period24h, Period7d, Period30d:
		return true
	}
	return false
}

// ValuationPoint is one (timestamp, total portfolio value) sample in a
// reconstructed series. Derived, never persisted.
type ValuationPoint struct {
	Timestamp     int64   `json:"timestamp"`
	Value         float64 `json:"value"`
	DateFormatted string  `json:"date_formatted"`
}

// HistorySummary compares the first and last points of a series.
type HistorySummary struct {
	StartValue    float64 `json:"start_value"`
	EndValue      float64 `json:"end_value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	IsProfit      bool    `json:"is_profit"`
}

// HistoryResponse is the wire shape of a portfolio history request.
type HistoryResponse struct {
	Period  string           `json:"period"`
	Points  []ValuationPoint `json:"points"`
	Summary HistorySummary   `json:"summary"`
}
