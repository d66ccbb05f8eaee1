package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/railstats/internal/cache"
	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/storage"
)

// EntityService exposes the record store: CRUD for passengers, trains and
// tickets. Every successful write invalidates the report cache.
type EntityService struct {
	store  storage.Store
	cache  cache.Cache
	logger *slog.Logger
}

// NewEntityService creates an EntityService. A nil cache disables invalidation.
func NewEntityService(store storage.Store, c cache.Cache, logger *slog.Logger) *EntityService {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EntityService{store: store, cache: c, logger: logger}
}

// invalidate drops cached reports after a write. Failure only costs freshness,
// so it is logged rather than returned.
func (s *EntityService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate report cache", "error", err)
	}
}

// --- passengers ---

// ListPassengers returns every passenger ordered by name.
func (s *EntityService) ListPassengers(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	passengers, err := s.store.ListPassengers(ctx)
	if err != nil {
		s.logger.Error("ListPassengers failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]passengerDTO, 0, len(passengers))
	for _, p := range passengers {
		out = append(out, toPassengerDTO(p))
	}
	return respond(map[string]any{"passengers": out})
}

// GetPassenger returns one passenger by ID.
func (s *EntityService) GetPassenger(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in idRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, invalidArgument("id required")
	}

	p, err := s.store.GetPassenger(ctx, in.ID)
	if err != nil {
		s.logger.Error("GetPassenger failed", "passenger_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if p == nil {
		return nil, notFound("passenger", in.ID)
	}
	return respond(map[string]any{"passenger": toPassengerDTO(p)})
}

// CreatePassenger registers a passenger. The passport must be unique.
func (s *EntityService) CreatePassenger(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in passengerPatch
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	p := &models.Passenger{}
	in.apply(p)
	if strings.TrimSpace(p.Passport) == "" {
		return nil, invalidArgument("passport required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return nil, invalidArgument("last_name required")
	}

	if err := s.store.CreatePassenger(ctx, p); err != nil {
		s.logger.Warn("CreatePassenger failed", "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx)

	s.logger.Info("Passenger created", "passenger_id", p.ID)
	return respond(map[string]any{"passenger": toPassengerDTO(p)})
}

// UpdatePassenger changes the fields present in the request. Existing tickets
// keep their prices.
func (s *EntityService) UpdatePassenger(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in passengerPatch
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, invalidArgument("id required")
	}

	p, err := s.store.GetPassenger(ctx, in.ID)
	if err != nil {
		return nil, storeError(err)
	}
	if p == nil {
		return nil, notFound("passenger", in.ID)
	}
	in.apply(p)
	if strings.TrimSpace(p.Passport) == "" {
		return nil, invalidArgument("passport required")
	}

	ok, err := s.store.UpdatePassenger(ctx, p)
	if err != nil {
		s.logger.Warn("UpdatePassenger failed", "passenger_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if !ok {
		return nil, notFound("passenger", in.ID)
	}
	s.invalidate(ctx)

	return respond(map[string]any{"passenger": toPassengerDTO(p)})
}

// DeletePassenger removes a passenger together with their tickets.
func (s *EntityService) DeletePassenger(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in idRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	ok, err := s.store.DeletePassenger(ctx, in.ID)
	if err != nil {
		s.logger.Error("DeletePassenger failed", "passenger_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if ok {
		s.invalidate(ctx)
		s.logger.Info("Passenger deleted", "passenger_id", in.ID)
	}
	return respond(deleteResponse{Deleted: ok})
}

// --- trains ---

// ListTrains returns every train ordered by number.
func (s *EntityService) ListTrains(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	trains, err := s.store.ListTrains(ctx)
	if err != nil {
		s.logger.Error("ListTrains failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]trainDTO, 0, len(trains))
	for _, t := range trains {
		out = append(out, toTrainDTO(t))
	}
	return respond(map[string]any{"trains": out})
}

// GetTrain returns one train by ID.
func (s *EntityService) GetTrain(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in idRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, invalidArgument("id required")
	}

	t, err := s.store.GetTrain(ctx, in.ID)
	if err != nil {
		s.logger.Error("GetTrain failed", "train_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if t == nil {
		return nil, notFound("train", in.ID)
	}
	return respond(map[string]any{"train": toTrainDTO(t)})
}

// CreateTrain adds a train. The train number must be unique.
func (s *EntityService) CreateTrain(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in trainPatch
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	t := &models.Train{}
	in.apply(t)
	if strings.TrimSpace(t.TrainNumber) == "" {
		return nil, invalidArgument("train_number required")
	}

	if err := s.store.CreateTrain(ctx, t); err != nil {
		s.logger.Warn("CreateTrain failed", "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx)

	s.logger.Info("Train created", "train_id", t.ID, "train_number", t.TrainNumber)
	return respond(map[string]any{"train": toTrainDTO(t)})
}

// UpdateTrain changes the fields present in the request.
func (s *EntityService) UpdateTrain(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in trainPatch
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, invalidArgument("id required")
	}

	t, err := s.store.GetTrain(ctx, in.ID)
	if err != nil {
		return nil, storeError(err)
	}
	if t == nil {
		return nil, notFound("train", in.ID)
	}
	in.apply(t)
	if strings.TrimSpace(t.TrainNumber) == "" {
		return nil, invalidArgument("train_number required")
	}

	ok, err := s.store.UpdateTrain(ctx, t)
	if err != nil {
		s.logger.Warn("UpdateTrain failed", "train_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if !ok {
		return nil, notFound("train", in.ID)
	}
	s.invalidate(ctx)

	return respond(map[string]any{"train": toTrainDTO(t)})
}

// DeleteTrain removes a train together with its tickets.
func (s *EntityService) DeleteTrain(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in idRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	ok, err := s.store.DeleteTrain(ctx, in.ID)
	if err != nil {
		s.logger.Error("DeleteTrain failed", "train_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if ok {
		s.invalidate(ctx)
		s.logger.Info("Train deleted", "train_id", in.ID)
	}
	return respond(deleteResponse{Deleted: ok})
}

// --- tickets ---

// ListTickets returns every ticket, newest first.
func (s *EntityService) ListTickets(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		s.logger.Error("ListTickets failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]ticketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketDTO(t))
	}
	return respond(map[string]any{"tickets": out})
}

// GetTicket returns one ticket by ID.
func (s *EntityService) GetTicket(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in idRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, invalidArgument("id required")
	}

	t, err := s.store.GetTicket(ctx, in.ID)
	if err != nil {
		s.logger.Error("GetTicket failed", "ticket_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if t == nil {
		return nil, notFound("ticket", in.ID)
	}
	return respond(map[string]any{"ticket": toTicketDTO(t)})
}

// CreateTicket sells a ticket. The store prices it from base_fare and the
// passenger's eligibility flags.
func (s *EntityService) CreateTicket(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in ticketPatch
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	if in.PassengerID == nil || *in.PassengerID == "" {
		return nil, invalidArgument("passenger_id required")
	}
	if in.TrainID == nil || *in.TrainID == "" {
		return nil, invalidArgument("train_id required")
	}
	if in.fare() == nil {
		return nil, invalidArgument("base_fare required")
	}

	t := &models.Ticket{}
	if err := in.apply(t); err != nil {
		return nil, err
	}

	if err := s.store.CreateTicket(ctx, t); err != nil {
		s.logger.Warn("CreateTicket failed", "passenger_id", t.PassengerID, "train_id", t.TrainID, "error", err)
		return nil, storeError(err)
	}
	s.invalidate(ctx)

	s.logger.Info("Ticket created",
		"ticket_id", t.ID,
		"class", t.Class,
		"base_fare", t.BaseFare,
		"price", t.Price,
	)
	return respond(map[string]any{"ticket": toTicketDTO(t)})
}

// UpdateTicket changes the fields present in the request and reprices the
// ticket from its base fare. The purchase date never changes.
func (s *EntityService) UpdateTicket(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in ticketPatch
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}
	if in.ID == "" {
		return nil, invalidArgument("id required")
	}

	t, err := s.store.UpdateTicket(ctx, in.ID, in.apply)
	if err != nil {
		s.logger.Warn("UpdateTicket failed", "ticket_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if t == nil {
		return nil, notFound("ticket", in.ID)
	}
	s.invalidate(ctx)

	s.logger.Info("Ticket updated", "ticket_id", t.ID, "base_fare", t.BaseFare, "price", t.Price)
	return respond(map[string]any{"ticket": toTicketDTO(t)})
}

// DeleteTicket removes a ticket.
func (s *EntityService) DeleteTicket(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var in idRequest
	if err := decode(req.Msg, &in); err != nil {
		return nil, err
	}

	ok, err := s.store.DeleteTicket(ctx, in.ID)
	if err != nil {
		s.logger.Error("DeleteTicket failed", "ticket_id", in.ID, "error", err)
		return nil, storeError(err)
	}
	if ok {
		s.invalidate(ctx)
	}
	return respond(deleteResponse{Deleted: ok})
}
