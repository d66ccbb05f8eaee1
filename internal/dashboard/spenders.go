package dashboard

import (
	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/reports"
)

// SpendersPayload is the TopSpendingPassengers dashboard.
type SpendersPayload struct {
	Statistics calculator.Statistics `json:"statistics"`
	TopList    []reports.Row         `json:"top_list"`
	Message    string                `json:"message,omitempty"`
}

// TopSpenders describes total_spent over every qualifying passenger, then
// returns the first limit rows (already sorted by the report) with avg_check.
// A non-positive limit means DefaultTopLimit.
func TopSpenders(rows []reports.Row, limit int) SpendersPayload {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	payload := SpendersPayload{
		Statistics: Statistics(rows, reports.FieldTotalSpent),
	}

	top := rows
	if len(top) > limit {
		top = top[:limit]
	}
	payload.TopList = cloneRows(top)
	for _, row := range payload.TopList {
		row[FieldAvgCheck] = calculator.SafeDiv(
			row.Float(reports.FieldTotalSpent),
			row.Float(reports.FieldTripsCount),
		)
	}

	if len(rows) == 0 {
		payload.Message = msgNoSpenders
	}
	return payload
}
