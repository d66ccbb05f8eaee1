package reports

import (
	"strconv"
)

// Field names shared by every report row. They are part of the external
// contract: dashboards and API clients read rows by these keys.
const (
	FieldTrainID     = "train_id"
	FieldTrainNumber = "train_number"
	FieldPassengerID = "passenger_id"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldBeginPoint  = "begin_point"
	FieldEndPoint    = "end_point"
	FieldRoute       = "route"

	FieldTotalRevenue = "total_revenue"
	FieldTicketsSold  = "tickets_sold"

	FieldTotalSpent = "total_spent"
	FieldTripsCount = "trips_count"

	FieldPlazkartCount = "plazkart_count"
	FieldKupeCount     = "kupe_count"
	FieldLuxCount      = "lux_count"

	FieldAvgPrice = "avg_price"
	FieldMaxPrice = "max_price"
	FieldTrips    = "trips"

	FieldMilitaryCount   = "military_count"
	FieldStudentCount    = "student_count"
	FieldTotalPassengers = "total_passengers"

	FieldLuxTickets   = "lux_tickets"
	FieldTotalTickets = "total_tickets"

	FieldTotalIncome  = "total_income"
	FieldAveragePrice = "average_price"
)

// Row is one record of a report result set: a plain mapping from field name
// to value. Money and averages are float64, counts are int, labels are string.
type Row map[string]any

// Float reads a numeric field. Missing or non-numeric values read as 0.
func (r Row) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int reads a count field. Fractions are truncated; missing values read as 0.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	default:
		return int(r.Float(key))
	}
}

// String reads a text field. Missing or non-string values read as "".
func (r Row) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Clone returns a shallow copy of r, so derived fields can be added without
// touching the report's own rows.
func (r Row) Clone() Row {
	out := make(Row, len(r)+2)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Column extracts one numeric column from rows.
func Column(rows []Row, key string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Float(key)
	}
	return out
}
