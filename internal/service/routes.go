package service

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/railstats/internal/auth"
	"github.com/mmynk/railstats/internal/middleware"
)

// Connect service names.
const (
	AuthServiceName   = "railstats.v1.AuthService"
	EntityServiceName = "railstats.v1.EntityService"
	ReportServiceName = "railstats.v1.ReportService"
)

type unaryFunc func(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error)

type procedure struct {
	path      string
	fn        unaryFunc
	protected bool
}

// Services bundles the handlers Register mounts.
type Services struct {
	Auth     *AuthService
	Entities *EntityService
	Reports  *ReportService

	// JWT guards protected procedures.
	JWT *auth.JWTManager
}

func path(service, method string) string {
	return "/" + service + "/" + method
}

func (s Services) procedures() []procedure {
	var procs []procedure
	if s.Auth != nil {
		procs = append(procs,
			procedure{path(AuthServiceName, "Register"), s.Auth.Register, false},
			procedure{path(AuthServiceName, "Login"), s.Auth.Login, false},
		)
	}
	if e := s.Entities; e != nil {
		procs = append(procs,
			procedure{path(EntityServiceName, "ListPassengers"), e.ListPassengers, false},
			procedure{path(EntityServiceName, "GetPassenger"), e.GetPassenger, false},
			procedure{path(EntityServiceName, "CreatePassenger"), e.CreatePassenger, true},
			procedure{path(EntityServiceName, "UpdatePassenger"), e.UpdatePassenger, true},
			procedure{path(EntityServiceName, "DeletePassenger"), e.DeletePassenger, true},

			procedure{path(EntityServiceName, "ListTrains"), e.ListTrains, false},
			procedure{path(EntityServiceName, "GetTrain"), e.GetTrain, false},
			procedure{path(EntityServiceName, "CreateTrain"), e.CreateTrain, true},
			procedure{path(EntityServiceName, "UpdateTrain"), e.UpdateTrain, true},
			procedure{path(EntityServiceName, "DeleteTrain"), e.DeleteTrain, true},

			procedure{path(EntityServiceName, "ListTickets"), e.ListTickets, false},
			procedure{path(EntityServiceName, "GetTicket"), e.GetTicket, false},
			procedure{path(EntityServiceName, "CreateTicket"), e.CreateTicket, true},
			procedure{path(EntityServiceName, "UpdateTicket"), e.UpdateTicket, true},
			procedure{path(EntityServiceName, "DeleteTicket"), e.DeleteTicket, true},
		)
	}
	if r := s.Reports; r != nil {
		procs = append(procs,
			procedure{path(ReportServiceName, "RevenueByTrain"), r.RevenueByTrain, false},
			procedure{path(ReportServiceName, "TopSpendingPassengers"), r.TopSpendingPassengers, false},
			procedure{path(ReportServiceName, "TicketClassDistribution"), r.TicketClassDistribution, false},
			procedure{path(ReportServiceName, "AveragePricePerRoute"), r.AveragePricePerRoute, false},
			procedure{path(ReportServiceName, "SocialStats"), r.SocialStats, false},
			procedure{path(ReportServiceName, "LuxuryOnlyPassengers"), r.LuxuryOnlyPassengers, false},
			procedure{path(ReportServiceName, "DepartureCities"), r.DepartureCities, false},
			procedure{path(ReportServiceName, "TicketSummary"), r.TicketSummary, true},
			procedure{path(ReportServiceName, "Overview"), r.Overview, false},
		)
	}
	return procs
}

// Register mounts every procedure of svc on mux and returns their paths.
// Protected procedures require a valid operator token; the others record the
// operator when one is sent. opts apply to every handler, inside the auth check.
func Register(mux *http.ServeMux, svc Services, opts ...connect.HandlerOption) []string {
	var paths []string
	for _, p := range svc.procedures() {
		authInterceptor := middleware.OptionalAuth(svc.JWT)
		if p.protected {
			authInterceptor = middleware.RequireAuth(svc.JWT)
		}
		handlerOpts := append([]connect.HandlerOption{connect.WithInterceptors(authInterceptor)}, opts...)

		mux.Handle(p.path, connect.NewUnaryHandler[structpb.Struct, structpb.Struct](p.path, p.fn, handlerOpts...))
		paths = append(paths, p.path)
	}
	return paths
}
