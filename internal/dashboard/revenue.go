package dashboard

import (
	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/reports"
)

// Load categories, lowest first.
const (
	LoadLow    = "Low"
	LoadMedium = "Medium"
	LoadHigh   = "High"
)

// LoadCategories lists the bins in order.
var LoadCategories = []string{LoadLow, LoadMedium, LoadHigh}

// LoadCategory bins a tickets_sold count: [0, 10] Low, (10, 20] Medium,
// (20, 30] High. Counts outside [0, 30] are unclassified (ok is false).
func LoadCategory(ticketsSold int) (category string, ok bool) {
	switch {
	case ticketsSold < 0:
		return "", false
	case ticketsSold <= 10:
		return LoadLow, true
	case ticketsSold <= 20:
		return LoadMedium, true
	case ticketsSold <= 30:
		return LoadHigh, true
	default:
		return "", false
	}
}

// CategoryRevenue is total revenue summed over one load category.
type CategoryRevenue struct {
	LoadCategory string  `json:"load_category"`
	TotalRevenue float64 `json:"total_revenue"`
}

// RevenuePayload is the RevenueByTrain dashboard.
type RevenuePayload struct {
	Statistics      calculator.Statistics `json:"statistics"`
	GroupedAnalysis []CategoryRevenue     `json:"grouped_analysis"`
	RawData         []reports.Row         `json:"raw_data"`
	Message         string                `json:"message,omitempty"`
}

// Revenue builds the revenue dashboard from RevenueByTrain rows. Statistics
// describe total_revenue; every row gains load_category (null when
// unclassified); grouped_analysis always lists Low, Medium and High.
func Revenue(rows []reports.Row) RevenuePayload {
	payload := RevenuePayload{
		Statistics: Statistics(rows, reports.FieldTotalRevenue),
		RawData:    cloneRows(rows),
	}

	sums := make(map[string]float64, len(LoadCategories))
	for _, row := range payload.RawData {
		category, ok := LoadCategory(row.Int(reports.FieldTicketsSold))
		if !ok {
			row[FieldLoadCategory] = nil
			continue
		}
		row[FieldLoadCategory] = category
		sums[category] += row.Float(reports.FieldTotalRevenue)
	}

	payload.GroupedAnalysis = make([]CategoryRevenue, 0, len(LoadCategories))
	for _, category := range LoadCategories {
		payload.GroupedAnalysis = append(payload.GroupedAnalysis, CategoryRevenue{
			LoadCategory: category,
			TotalRevenue: calculator.Round2(sums[category]),
		})
	}

	if len(rows) == 0 {
		payload.Message = msgNoData
	}
	return payload
}
