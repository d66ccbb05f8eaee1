package dashboard

import (
	"sort"

	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/reports"
)

// Loyalty labels.
const (
	LoyaltyOneTime = "One-time"
	LoyaltyRegular = "Regular"
)

// Loyalty labels a luxury-only passenger by how many Lux tickets they hold.
func Loyalty(luxTickets int) string {
	if luxTickets == 1 {
		return LoyaltyOneTime
	}
	return LoyaltyRegular
}

// LoyaltyCount is the number of passengers carrying one loyalty label.
type LoyaltyCount struct {
	Loyalty string `json:"loyalty"`
	Count   int    `json:"count"`
}

// LuxuryPayload is the LuxuryOnlyPassengers dashboard.
type LuxuryPayload struct {
	Statistics      calculator.Statistics `json:"statistics"`
	LoyaltyAnalysis []LoyaltyCount        `json:"loyalty_analysis"`
	Passengers      []reports.Row         `json:"passengers"`
	Message         string                `json:"message,omitempty"`
}

// Luxury describes lux_tickets, labels every passenger and counts the labels.
func Luxury(rows []reports.Row) LuxuryPayload {
	payload := LuxuryPayload{
		Statistics: Statistics(rows, reports.FieldLuxTickets),
		Passengers: cloneRows(rows),
	}

	counts := make(map[string]int)
	for _, row := range payload.Passengers {
		label := Loyalty(row.Int(reports.FieldLuxTickets))
		row[FieldLoyalty] = label
		counts[label]++
	}

	payload.LoyaltyAnalysis = make([]LoyaltyCount, 0, len(counts))
	for _, label := range []string{LoyaltyOneTime, LoyaltyRegular} {
		if n := counts[label]; n > 0 {
			payload.LoyaltyAnalysis = append(payload.LoyaltyAnalysis, LoyaltyCount{Loyalty: label, Count: n})
		}
	}
	sort.SliceStable(payload.LoyaltyAnalysis, func(i, j int) bool {
		return payload.LoyaltyAnalysis[i].Count > payload.LoyaltyAnalysis[j].Count
	})

	if len(rows) == 0 {
		payload.Message = msgNoLuxuryUsers
	}
	return payload
}
