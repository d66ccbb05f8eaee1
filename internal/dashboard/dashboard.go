// Package dashboard derives presentation analytics from a single report's
// result set: descriptive statistics, load bins, dominant classes, ratios and
// loyalty labels.
//
// Assemblers never fail. Empty inputs produce zero statistics, empty lists and
// a human-readable Message; divisions by zero and non-finite values become 0.
package dashboard

import (
	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/reports"
)

// Derived field names added to report rows.
const (
	FieldLoadCategory     = "load_category"
	FieldDominantClass    = "dominant_class"
	FieldTotalSeats       = "total_seats"
	FieldAvgCheck         = "avg_check"
	FieldSocialPercentage = "social_percentage"
	FieldLoyalty          = "loyalty"
)

// DefaultTopLimit caps the top spenders list.
const DefaultTopLimit = 10

const (
	msgNoData        = "No data available"
	msgNoSpenders    = "No qualifying passengers found"
	msgNoLuxuryUsers = "No luxury-only passengers found"
)

// Statistics describes one numeric column of rows.
func Statistics(rows []reports.Row, column string) calculator.Statistics {
	return calculator.Describe(reports.Column(rows, column))
}

// cloneRows copies rows so derived fields never leak into the caller's slice.
func cloneRows(rows []reports.Row) []reports.Row {
	out := make([]reports.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
