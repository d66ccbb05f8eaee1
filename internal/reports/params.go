package reports

import (
	"math"
	"strconv"
	"strings"
)

// Params are the optional report filters a caller may send.
type Params struct {
	// MinSpent is the TopSpendingPassengers threshold (exclusive).
	MinSpent float64

	// MinRevenue drops trains earning less than this (inclusive bound).
	MinRevenue float64

	// SearchQuery keeps passengers whose last name contains it, ignoring case.
	SearchQuery string

	// CityFilter keeps routes departing from exactly this city.
	CityFilter string
}

// DefaultParams returns the filters used when a caller sends none.
func DefaultParams() Params {
	return Params{MinSpent: DefaultMinSpent}
}

// ParseThreshold reads a numeric filter value. Numbers and numeric strings are
// accepted; anything missing, malformed or non-finite yields def.
func ParseThreshold(raw any, def float64) float64 {
	var v float64
	switch x := raw.(type) {
	case nil:
		return def
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return def
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return def
		}
		v = f
	default:
		return def
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// ParamsFromMap builds Params from loosely typed request fields
// (min_spent, min_revenue, search_query, city_filter).
func ParamsFromMap(m map[string]any) Params {
	p := Params{
		MinSpent:   ParseThreshold(m["min_spent"], DefaultMinSpent),
		MinRevenue: ParseThreshold(m["min_revenue"], 0),
	}
	p.SearchQuery, _ = m["search_query"].(string)
	p.CityFilter, _ = m["city_filter"].(string)
	p.SearchQuery = strings.TrimSpace(p.SearchQuery)
	p.CityFilter = strings.TrimSpace(p.CityFilter)
	return p
}

// FilterMinRevenue keeps rows whose total_revenue is at least min.
func FilterMinRevenue(rows []Row, min float64) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Float(FieldTotalRevenue) >= min {
			out = append(out, r)
		}
	}
	return out
}

// FilterLastName keeps rows whose last_name contains query, case-insensitively.
// An empty query keeps everything.
func FilterLastName(rows []Row, query string) []Row {
	if query == "" {
		return rows
	}
	q := strings.ToLower(query)
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.String(FieldLastName)), q) {
			out = append(out, r)
		}
	}
	return out
}

// FilterDepartureCity keeps route rows departing from city.
// An empty city keeps everything.
func FilterDepartureCity(rows []Row, city string) []Row {
	city = strings.TrimSpace(city)
	if city == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.String(FieldBeginPoint)) == city {
			out = append(out, r)
		}
	}
	return out
}
