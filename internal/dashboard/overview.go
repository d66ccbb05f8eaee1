package dashboard

import (
	"sort"

	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/reports"
)

// SocialTotals sums benefit holders across every train.
type SocialTotals struct {
	Student  int `json:"student"`
	Military int `json:"military"`
}

// LuxBucket is one bar of the lux-ticket histogram.
type LuxBucket struct {
	LuxTickets int `json:"lux_tickets"`
	Passengers int `json:"passengers"`
}

// Filters echoes the filters an overview was built with.
type Filters struct {
	SearchQuery string  `json:"search_query"`
	CityFilter  string  `json:"city_filter"`
	MinRevenue  float64 `json:"min_revenue"`
}

// OverviewPayload carries every panel of the combined dashboard. Empty panels
// are empty lists; Message is set only when the snapshot holds no tickets.
type OverviewPayload struct {
	Revenue      []reports.Row `json:"revenue"`
	TopSpenders  []reports.Row `json:"top_spenders"`
	Classes      []reports.Row `json:"classes"`
	Routes       []reports.Row `json:"routes"`
	SocialTotals SocialTotals  `json:"social_totals"`
	LuxHistogram []LuxBucket   `json:"lux_histogram"`
	Cities       []string      `json:"cities"`
	Filters      Filters       `json:"filters"`
	Message      string        `json:"message,omitempty"`
}

// Overview assembles the combined dashboard: revenue at or above
// p.MinRevenue, the top spenders (any positive spend) whose last name matches
// p.SearchQuery, per-train class counts, routes departing from p.CityFilter,
// benefit totals, a histogram of lux tickets per luxury-only passenger and the
// list of departure cities. p.MinSpent is ignored.
func Overview(s *models.Snapshot, p reports.Params, limit int) OverviewPayload {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	spenders := reports.FilterLastName(reports.TopSpendingPassengers(s, 0), p.SearchQuery)
	if len(spenders) > limit {
		spenders = spenders[:limit]
	}

	payload := OverviewPayload{
		Revenue:     reports.FilterMinRevenue(reports.RevenueByTrain(s), p.MinRevenue),
		TopSpenders: cloneRows(spenders),
		Classes:     cloneRows(reports.TicketClassDistributionByTrain(s)),
		Routes:      cloneRows(reports.FilterDepartureCity(reports.AveragePricePerRoute(s), p.CityFilter)),
		Cities:      append([]string{}, reports.DistinctDepartureCities(s)...),
		Filters: Filters{
			SearchQuery: p.SearchQuery,
			CityFilter:  p.CityFilter,
			MinRevenue:  p.MinRevenue,
		},
	}

	for _, row := range reports.SocialStatsByTrain(s) {
		payload.SocialTotals.Student += row.Int(reports.FieldStudentCount)
		payload.SocialTotals.Military += row.Int(reports.FieldMilitaryCount)
	}

	payload.LuxHistogram = luxHistogram(reports.LuxuryOnlyPassengers(s))

	if len(s.Tickets) == 0 {
		payload.Message = msgNoData
	}
	return payload
}

func luxHistogram(rows []reports.Row) []LuxBucket {
	counts := make(map[int]int)
	for _, row := range rows {
		counts[row.Int(reports.FieldLuxTickets)]++
	}
	buckets := make([]LuxBucket, 0, len(counts))
	for n, c := range counts {
		buckets = append(buckets, LuxBucket{LuxTickets: n, Passengers: c})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].LuxTickets < buckets[j].LuxTickets })
	return buckets
}
