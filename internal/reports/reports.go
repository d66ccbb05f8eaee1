// Package reports implements the catalogue of aggregate reports over a
// point-in-time Snapshot of passengers, trains and tickets.
//
// Every report is a pure, deterministic function: same snapshot in, same rows
// out. Groups keep the snapshot's natural order (trains by number, passengers
// by name) and are then stable-sorted by the report's sort key, so ties never
// reorder between runs.
package reports

import (
	"sort"
	"strings"

	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/models"
)

// DefaultMinSpent is the TopSpendingPassengers threshold when none is given.
const DefaultMinSpent = 1000

// trainAgg accumulates per-train figures in one pass over the tickets.
type trainAgg struct {
	revenue  float64
	sold     int
	byClass  map[models.TicketClass]int
	military int
	student  int
}

// passengerAgg accumulates per-passenger figures.
type passengerAgg struct {
	spent float64
	trips int
	lux   int
}

func aggregateByTrain(s *models.Snapshot) map[string]*trainAgg {
	passengers := s.PassengerIndex()
	aggs := make(map[string]*trainAgg, len(s.Trains))
	for _, t := range s.Trains {
		aggs[t.ID] = &trainAgg{byClass: make(map[models.TicketClass]int)}
	}
	for _, ticket := range s.Tickets {
		agg, ok := aggs[ticket.TrainID]
		if !ok {
			continue
		}
		agg.revenue += ticket.Price
		agg.sold++
		agg.byClass[ticket.Class]++
		if i, ok := passengers[ticket.PassengerID]; ok {
			p := s.Passengers[i]
			if p.IsMilitary {
				agg.military++
			}
			if p.IsStudent {
				agg.student++
			}
		}
	}
	return aggs
}

func aggregateByPassenger(s *models.Snapshot) map[string]*passengerAgg {
	aggs := make(map[string]*passengerAgg, len(s.Passengers))
	for _, p := range s.Passengers {
		aggs[p.ID] = &passengerAgg{}
	}
	for _, ticket := range s.Tickets {
		agg, ok := aggs[ticket.PassengerID]
		if !ok {
			continue
		}
		agg.spent += ticket.Price
		agg.trips++
		if ticket.Class == models.ClassLux {
			agg.lux++
		}
	}
	return aggs
}

func trainRow(t models.Train) Row {
	return Row{
		FieldTrainID:     t.ID,
		FieldTrainNumber: t.TrainNumber,
	}
}

func passengerRow(p models.Passenger) Row {
	return Row{
		FieldPassengerID: p.ID,
		FieldFirstName:   p.FirstName,
		FieldLastName:    p.LastName,
	}
}

// sortDesc stable-sorts rows by a numeric field, largest first.
func sortDesc(rows []Row, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Float(key) > rows[j].Float(key)
	})
}

// RevenueByTrain lists every train with total_revenue (sum of final prices)
// and tickets_sold, highest revenue first. Trains with no tickets appear with zeros.
func RevenueByTrain(s *models.Snapshot) []Row {
	aggs := aggregateByTrain(s)
	rows := make([]Row, 0, len(s.Trains))
	for _, t := range s.Trains {
		agg := aggs[t.ID]
		row := trainRow(t)
		row[FieldTotalRevenue] = calculator.Round2(agg.revenue)
		row[FieldTicketsSold] = agg.sold
		rows = append(rows, row)
	}
	sortDesc(rows, FieldTotalRevenue)
	return rows
}

// TopSpendingPassengers lists passengers whose total_spent is strictly greater
// than minSpent, biggest spender first. Passengers without tickets never qualify.
func TopSpendingPassengers(s *models.Snapshot, minSpent float64) []Row {
	aggs := aggregateByPassenger(s)
	var rows []Row
	for _, p := range s.Passengers {
		agg := aggs[p.ID]
		spent := calculator.Round2(agg.spent)
		if agg.trips == 0 || spent <= minSpent {
			continue
		}
		row := passengerRow(p)
		row[FieldTotalSpent] = spent
		row[FieldTripsCount] = agg.trips
		rows = append(rows, row)
	}
	sortDesc(rows, FieldTotalSpent)
	return rows
}

// TicketClassDistributionByTrain counts tickets per class for every train
// that has sold at least one ticket, in train-number order.
func TicketClassDistributionByTrain(s *models.Snapshot) []Row {
	aggs := aggregateByTrain(s)
	var rows []Row
	for _, t := range s.Trains {
		agg := aggs[t.ID]
		if agg.sold == 0 {
			continue
		}
		row := trainRow(t)
		row[FieldPlazkartCount] = agg.byClass[models.ClassPlazkart]
		row[FieldKupeCount] = agg.byClass[models.ClassKupe]
		row[FieldLuxCount] = agg.byClass[models.ClassLux]
		rows = append(rows, row)
	}
	return rows
}

type routeKey struct {
	begin, end string
}

type routeAgg struct {
	sum   float64
	max   float64
	trips int
}

// AveragePricePerRoute groups tickets by their train's (begin_point, end_point)
// and reports avg_price, max_price and trips, highest average first.
func AveragePricePerRoute(s *models.Snapshot) []Row {
	trains := s.TrainIndex()
	aggs := make(map[routeKey]*routeAgg)
	labels := make(map[routeKey]string)
	var keys []routeKey
	for _, ticket := range s.Tickets {
		i, ok := trains[ticket.TrainID]
		if !ok {
			continue
		}
		train := s.Trains[i]
		key := routeKey{begin: train.BeginPoint, end: train.EndPoint}
		agg, ok := aggs[key]
		if !ok {
			agg = &routeAgg{max: ticket.Price}
			aggs[key] = agg
			labels[key] = train.Route()
			keys = append(keys, key)
		}
		agg.sum += ticket.Price
		agg.trips++
		if ticket.Price > agg.max {
			agg.max = ticket.Price
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].begin != keys[j].begin {
			return keys[i].begin < keys[j].begin
		}
		return keys[i].end < keys[j].end
	})

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		agg := aggs[key]
		rows = append(rows, Row{
			FieldBeginPoint: key.begin,
			FieldEndPoint:   key.end,
			FieldRoute:      labels[key],
			FieldAvgPrice:   calculator.SafeDiv(agg.sum, float64(agg.trips)),
			FieldMaxPrice:   agg.max,
			FieldTrips:      agg.trips,
		})
	}
	sortDesc(rows, FieldAvgPrice)
	return rows
}

// SocialStatsByTrain counts, per train, tickets held by military passengers,
// by students, and in total. Trains with no tickets are left out; the train
// with the most students comes first.
func SocialStatsByTrain(s *models.Snapshot) []Row {
	aggs := aggregateByTrain(s)
	var rows []Row
	for _, t := range s.Trains {
		agg := aggs[t.ID]
		if agg.sold == 0 {
			continue
		}
		row := trainRow(t)
		row[FieldMilitaryCount] = agg.military
		row[FieldStudentCount] = agg.student
		row[FieldTotalPassengers] = agg.sold
		rows = append(rows, row)
	}
	sortDesc(rows, FieldStudentCount)
	return rows
}

// LuxuryOnlyPassengers lists passengers who hold at least one ticket and whose
// every ticket is Lux class.
func LuxuryOnlyPassengers(s *models.Snapshot) []Row {
	aggs := aggregateByPassenger(s)
	var rows []Row
	for _, p := range s.Passengers {
		agg := aggs[p.ID]
		if agg.trips == 0 || agg.lux != agg.trips {
			continue
		}
		row := passengerRow(p)
		row[FieldLuxTickets] = agg.lux
		row[FieldTotalTickets] = agg.trips
		rows = append(rows, row)
	}
	return rows
}

// DistinctDepartureCities returns every non-empty begin_point once, ascending.
func DistinctDepartureCities(s *models.Snapshot) []string {
	seen := make(map[string]bool)
	var cities []string
	for _, t := range s.Trains {
		city := strings.TrimSpace(t.BeginPoint)
		if city == "" || seen[city] {
			continue
		}
		seen[city] = true
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// TicketSummary is the single-row overall sales report: total_tickets,
// total_income and average_price (0 when nothing has been sold).
func TicketSummary(s *models.Snapshot) Row {
	var income float64
	for _, t := range s.Tickets {
		income += t.Price
	}
	income = calculator.Round2(income)
	return Row{
		FieldTotalTickets: len(s.Tickets),
		FieldTotalIncome:  income,
		FieldAveragePrice: calculator.Round2(calculator.SafeDiv(income, float64(len(s.Tickets)))),
	}
}
