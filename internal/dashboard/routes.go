package dashboard

import (
	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/reports"
)

// RoutesPayload is the AveragePricePerRoute dashboard.
type RoutesPayload struct {
	Statistics         calculator.Statistics `json:"statistics"`
	StatisticsForRoute []reports.Row         `json:"statistics_for_route"`
	Message            string                `json:"message,omitempty"`
}

// Routes describes avg_price across routes and passes the rows through.
func Routes(rows []reports.Row) RoutesPayload {
	payload := RoutesPayload{
		Statistics:         Statistics(rows, reports.FieldAvgPrice),
		StatisticsForRoute: cloneRows(rows),
	}
	if len(rows) == 0 {
		payload.Message = msgNoData
	}
	return payload
}
