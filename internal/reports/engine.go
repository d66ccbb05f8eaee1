package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/storage"
)

// Name identifies a report in the catalogue.
type Name string

const (
	RevenueByTrainReport          Name = "revenue_by_train"
	TopSpendingPassengersReport   Name = "top_spending_passengers"
	TicketClassDistributionReport Name = "ticket_class_distribution"
	AveragePricePerRouteReport    Name = "average_price_per_route"
	SocialStatsReport             Name = "social_stats"
	LuxuryOnlyPassengersReport    Name = "luxury_only_passengers"
	DepartureCitiesReport         Name = "departure_cities"
	TicketSummaryReport           Name = "ticket_summary"
)

// ErrUnknownReport is returned by Run for a name outside the catalogue.
var ErrUnknownReport = errors.New("unknown report")

// Names lists the catalogue in a fixed order.
func Names() []Name {
	return []Name{
		RevenueByTrainReport,
		TopSpendingPassengersReport,
		TicketClassDistributionReport,
		AveragePricePerRouteReport,
		SocialStatsReport,
		LuxuryOnlyPassengersReport,
		DepartureCitiesReport,
		TicketSummaryReport,
	}
}

// Engine runs reports against whatever the SnapshotReader currently holds.
// It keeps no state of its own between calls.
type Engine struct {
	source storage.SnapshotReader
}

// NewEngine creates an Engine reading from source.
func NewEngine(source storage.SnapshotReader) *Engine {
	return &Engine{source: source}
}

// Snapshot takes a point-in-time copy of the store.
func (e *Engine) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return snap, nil
}

// Run takes a fresh snapshot and evaluates the named report with p.
func (e *Engine) Run(ctx context.Context, name Name, p Params) ([]Row, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Evaluate(snap, name, p)
}

// Evaluate runs the named report over an existing snapshot.
// Row filters in p apply only to the reports they make sense for.
func Evaluate(s *models.Snapshot, name Name, p Params) ([]Row, error) {
	switch name {
	case RevenueByTrainReport:
		return FilterMinRevenue(RevenueByTrain(s), p.MinRevenue), nil
	case TopSpendingPassengersReport:
		return FilterLastName(TopSpendingPassengers(s, p.MinSpent), p.SearchQuery), nil
	case TicketClassDistributionReport:
		return TicketClassDistributionByTrain(s), nil
	case AveragePricePerRouteReport:
		return FilterDepartureCity(AveragePricePerRoute(s), p.CityFilter), nil
	case SocialStatsReport:
		return SocialStatsByTrain(s), nil
	case LuxuryOnlyPassengersReport:
		return LuxuryOnlyPassengers(s), nil
	case DepartureCitiesReport:
		cities := DistinctDepartureCities(s)
		rows := make([]Row, len(cities))
		for i, c := range cities {
			rows[i] = Row{FieldBeginPoint: c}
		}
		return rows, nil
	case TicketSummaryReport:
		return []Row{TicketSummary(s)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
}
