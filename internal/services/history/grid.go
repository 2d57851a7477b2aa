package history

import (
	"time"

	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/models"
)

// hourlyDateFormat and dailyDateFormat render the date_formatted field of a
// valuation point.
const (
	hourlyDateFormat = "Jan 02 15:04"
	dailyDateFormat  = "Jan 02"
)

// gridSpec describes one period's reconstruction grid.
type gridSpec struct {
	pointCount int
	interval   interfaces.QuoteInterval
	dateFormat string
}

func specForPeriod(period models.HistoryPeriod) gridSpec {
	switch period {
	case models.Period24h:
		return gridSpec{pointCount: 24, interval: interfaces.IntervalHourly, dateFormat: hourlyDateFormat}
	case models.Period7d:
		return gridSpec{pointCount: 7, interval: interfaces.IntervalDaily, dateFormat: dailyDateFormat}
	default: // Period30d
		return gridSpec{pointCount: 30, interval: interfaces.IntervalDaily, dateFormat: dailyDateFormat}
	}
}

// generateGrid produces the period's timestamps, oldest first. The 24h grid
// is 24 hourly points ending at now; daily grids land on local midnight.
func generateGrid(period models.HistoryPeriod, now time.Time) []time.Time {
	spec := specForPeriod(period)
	points := make([]time.Time, 0, spec.pointCount)

	if spec.interval == interfaces.IntervalHourly {
		for i := spec.pointCount - 1; i >= 0; i-- {
			points = append(points, now.Add(-time.Duration(i)*time.Hour))
		}
		return points
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	for i := spec.pointCount - 1; i >= 0; i-- {
		points = append(points, midnight.AddDate(0, 0, -i))
	}
	return points
}
