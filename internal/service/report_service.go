package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/railstats/internal/cache"
	"github.com/mmynk/railstats/internal/dashboard"
	"github.com/mmynk/railstats/internal/reports"
)

// ReportService serves the analytics dashboards. Payloads are cached until
// the next entity write.
type ReportService struct {
	engine   *reports.Engine
	cache    cache.Cache
	topLimit int
	logger   *slog.Logger
}

// NewReportService creates a ReportService. topLimit caps the top spenders
// list when a request does not send its own limit.
func NewReportService(engine *reports.Engine, c cache.Cache, topLimit int, logger *slog.Logger) *ReportService {
	if c == nil {
		c = cache.Nop{}
	}
	if topLimit <= 0 {
		topLimit = dashboard.DefaultTopLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{engine: engine, cache: c, topLimit: topLimit, logger: logger}
}

// reportRequest is the union of every dashboard's filters.
type reportRequest struct {
	reports.Params
	Limit int
}

func (s *ReportService) parseRequest(msg *structpb.Struct) reportRequest {
	fields := msg.AsMap()
	req := reportRequest{
		Params: reports.ParamsFromMap(fields),
		Limit:  int(reports.ParseThreshold(fields["limit"], float64(s.topLimit))),
	}
	if req.Limit <= 0 {
		req.Limit = s.topLimit
	}
	return req
}

// cacheKey identifies one dashboard built with one set of filters.
func cacheKey(name string, req reportRequest) string {
	return fmt.Sprintf("%s|spent=%g|rev=%g|q=%s|city=%s|limit=%d",
		name, req.MinSpent, req.MinRevenue, req.SearchQuery, req.CityFilter, req.Limit)
}

// serve returns the cached payload for key or builds, caches and returns a
// fresh one. The payload is cached under the generation read before building,
// so a write that lands mid-build leaves it unreachable. Cache failures are
// logged and otherwise ignored.
func (s *ReportService) serve(ctx context.Context, key string, build func() (any, error)) (*connect.Response[structpb.Struct], error) {
	gen, err := s.cache.Generation(ctx)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("Report cache generation unavailable", "key", key, "error", err)
	}

	if cacheable {
		cached, ok, err := s.cache.Get(ctx, gen, key)
		if err != nil {
			s.logger.Warn("Report cache read failed", "key", key, "error", err)
		}
		if ok {
			s.logger.Debug("Report cache hit", "key", key, "generation", gen)
			msg, err := structFromJSON(cached)
			if err == nil {
				return connect.NewResponse(msg), nil
			}
			s.logger.Warn("Discarding unreadable cached report", "key", key, "error", err)
		}
	}

	payload, err := build()
	if err != nil {
		s.logger.Error("Report failed", "key", key, "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("report unavailable: %w", err))
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to encode report: %w", err))
	}
	msg, err := structFromJSON(data)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, gen, key, data); err != nil {
			s.logger.Warn("Report cache write failed", "key", key, "error", err)
		}
	}
	return connect.NewResponse(msg), nil
}

// dashboardFor runs one report and shapes its rows with assemble.
func (s *ReportService) dashboardFor(ctx context.Context, req *connect.Request[structpb.Struct], name reports.Name, assemble func(rows []reports.Row, r reportRequest) any) (*connect.Response[structpb.Struct], error) {
	r := s.parseRequest(req.Msg)
	return s.serve(ctx, cacheKey(string(name), r), func() (any, error) {
		rows, err := s.engine.Run(ctx, name, r.Params)
		if err != nil {
			return nil, err
		}
		return assemble(rows, r), nil
	})
}

// RevenueByTrain serves revenue per train with load categories.
func (s *ReportService) RevenueByTrain(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.RevenueByTrainReport, func(rows []reports.Row, _ reportRequest) any {
		return dashboard.Revenue(rows)
	})
}

// TopSpendingPassengers serves the biggest spenders above min_spent.
func (s *ReportService) TopSpendingPassengers(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.TopSpendingPassengersReport, func(rows []reports.Row, r reportRequest) any {
		return dashboard.TopSpenders(rows, r.Limit)
	})
}

// TicketClassDistribution serves per-train class counts and dominance.
func (s *ReportService) TicketClassDistribution(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.TicketClassDistributionReport, func(rows []reports.Row, _ reportRequest) any {
		return dashboard.ClassDistribution(rows)
	})
}

// AveragePricePerRoute serves price statistics per route.
func (s *ReportService) AveragePricePerRoute(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.AveragePricePerRouteReport, func(rows []reports.Row, _ reportRequest) any {
		return dashboard.Routes(rows)
	})
}

// SocialStats serves benefit-holder shares per train.
func (s *ReportService) SocialStats(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.SocialStatsReport, func(rows []reports.Row, _ reportRequest) any {
		return dashboard.Social(rows)
	})
}

// LuxuryOnlyPassengers serves passengers who only ever travel Lux.
func (s *ReportService) LuxuryOnlyPassengers(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.LuxuryOnlyPassengersReport, func(rows []reports.Row, _ reportRequest) any {
		return dashboard.Luxury(rows)
	})
}

// DepartureCities lists every city a train departs from.
func (s *ReportService) DepartureCities(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.DepartureCitiesReport, func(rows []reports.Row, _ reportRequest) any {
		cities := make([]string, 0, len(rows))
		for _, row := range rows {
			cities = append(cities, row.String(reports.FieldBeginPoint))
		}
		return map[string]any{"cities": cities}
	})
}

// TicketSummary serves overall sales totals.
func (s *ReportService) TicketSummary(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return s.dashboardFor(ctx, req, reports.TicketSummaryReport, func(rows []reports.Row, _ reportRequest) any {
		if len(rows) == 0 {
			return reports.Row{}
		}
		return rows[0]
	})
}

// Overview serves every panel of the combined dashboard from one snapshot.
func (s *ReportService) Overview(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	r := s.parseRequest(req.Msg)
	return s.serve(ctx, cacheKey("overview", r), func() (any, error) {
		snap, err := s.engine.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return dashboard.Overview(snap, r.Params, r.Limit), nil
	})
}
