// Package storetest holds the behavioural suite every storage.Store
// implementation must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/storage"
)

// Open returns a fresh, empty store that prices tickets with
// calculator.ComputePrice. The suite closes it.
type Open func(t *testing.T) storage.Store

// Run exercises open's store against the storage.Store contract.
func Run(t *testing.T, open Open) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"PassengerCRUD", testPassengerCRUD},
		{"PassportConflict", testPassportConflict},
		{"TrainCRUD", testTrainCRUD},
		{"TrainNumberConflict", testTrainNumberConflict},
		{"MissingEntities", testMissingEntities},
		{"TicketPricing", testTicketPricing},
		{"TicketUpdateDoesNotCompound", testTicketUpdateDoesNotCompound},
		{"TicketUpdateValidation", testTicketUpdateValidation},
		{"TicketOrdering", testTicketOrdering},
		{"TicketRejectsUnknownRefs", testTicketRejectsUnknownRefs},
		{"CascadeDelete", testCascadeDelete},
		{"Users", testUsers},
		{"Snapshot", testSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func mustPassenger(t *testing.T, s storage.Store, last, passport string, flags models.DiscountFlags) *models.Passenger {
	t.Helper()
	p := &models.Passenger{
		FirstName:  "Test",
		LastName:   last,
		Passport:   passport,
		IsStudent:  flags.IsStudent,
		IsMilitary: flags.IsMilitary,
		IsKid:      flags.IsKid,
	}
	if err := s.CreatePassenger(context.Background(), p); err != nil {
		t.Fatalf("CreatePassenger failed: %v", err)
	}
	return p
}

func mustTrain(t *testing.T, s storage.Store, number, from, to string) *models.Train {
	t.Helper()
	tr := &models.Train{TrainNumber: number, BeginPoint: from, EndPoint: to}
	if err := s.CreateTrain(context.Background(), tr); err != nil {
		t.Fatalf("CreateTrain failed: %v", err)
	}
	return tr
}

func mustTicket(t *testing.T, s storage.Store, p *models.Passenger, tr *models.Train, class models.TicketClass, fare float64) *models.Ticket {
	t.Helper()
	ticket := &models.Ticket{PassengerID: p.ID, TrainID: tr.ID, Class: class, BaseFare: fare}
	if err := s.CreateTicket(context.Background(), ticket); err != nil {
		t.Fatalf("CreateTicket failed: %v", err)
	}
	return ticket
}

func testPassengerCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()

	p := mustPassenger(t, s, "Shevchenko", "AA100", models.DiscountFlags{IsStudent: true})
	if p.ID == "" {
		t.Fatal("expected passenger ID to be generated")
	}

	got, err := s.GetPassenger(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPassenger failed: %v", err)
	}
	if got == nil || *got != *p {
		t.Fatalf("GetPassenger = %+v, want %+v", got, p)
	}

	got.LastName = "Franko"
	got.IsMilitary = true
	ok, err := s.UpdatePassenger(ctx, got)
	if err != nil || !ok {
		t.Fatalf("UpdatePassenger = %v, %v", ok, err)
	}
	again, _ := s.GetPassenger(ctx, p.ID)
	if again.LastName != "Franko" || !again.IsMilitary || !again.IsStudent {
		t.Errorf("update not persisted: %+v", again)
	}

	mustPassenger(t, s, "Bondar", "AA101", models.DiscountFlags{})
	list, err := s.ListPassengers(ctx)
	if err != nil {
		t.Fatalf("ListPassengers failed: %v", err)
	}
	if len(list) != 2 || list[0].LastName != "Bondar" {
		t.Errorf("ListPassengers = %+v, want Bondar first", list)
	}

	ok, err = s.DeletePassenger(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("DeletePassenger = %v, %v", ok, err)
	}
	if gone, _ := s.GetPassenger(ctx, p.ID); gone != nil {
		t.Errorf("passenger still present after delete: %+v", gone)
	}
}

func testPassportConflict(t *testing.T, s storage.Store) {
	ctx := context.Background()
	mustPassenger(t, s, "One", "DUP", models.DiscountFlags{})

	err := s.CreatePassenger(ctx, &models.Passenger{LastName: "Two", Passport: "DUP"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate passport: got %v, want ErrConflict", err)
	}

	other := mustPassenger(t, s, "Three", "UNIQUE", models.DiscountFlags{})
	other.Passport = "DUP"
	if _, err := s.UpdatePassenger(ctx, other); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("update to taken passport: got %v, want ErrConflict", err)
	}
}

func testTrainCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()

	tr := mustTrain(t, s, "092K", "Kyiv", "Lviv")
	got, err := s.GetTrain(ctx, tr.ID)
	if err != nil || got == nil || *got != *tr {
		t.Fatalf("GetTrain = %+v, %v; want %+v", got, err, tr)
	}

	got.EndPoint = "Uzhhorod"
	if ok, err := s.UpdateTrain(ctx, got); err != nil || !ok {
		t.Fatalf("UpdateTrain = %v, %v", ok, err)
	}
	again, _ := s.GetTrain(ctx, tr.ID)
	if again.EndPoint != "Uzhhorod" {
		t.Errorf("update not persisted: %+v", again)
	}

	mustTrain(t, s, "001", "Odesa", "Kyiv")
	list, err := s.ListTrains(ctx)
	if err != nil {
		t.Fatalf("ListTrains failed: %v", err)
	}
	if len(list) != 2 || list[0].TrainNumber != "001" {
		t.Errorf("ListTrains = %+v, want 001 first", list)
	}

	if ok, err := s.DeleteTrain(ctx, tr.ID); err != nil || !ok {
		t.Fatalf("DeleteTrain = %v, %v", ok, err)
	}
}

func testTrainNumberConflict(t *testing.T, s storage.Store) {
	mustTrain(t, s, "743", "Kyiv", "Kharkiv")
	err := s.CreateTrain(context.Background(), &models.Train{TrainNumber: "743"})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("duplicate train number: got %v, want ErrConflict", err)
	}
}

func testMissingEntities(t *testing.T, s storage.Store) {
	ctx := context.Background()

	if p, err := s.GetPassenger(ctx, "missing"); p != nil || err != nil {
		t.Errorf("GetPassenger(missing) = %v, %v; want nil, nil", p, err)
	}
	if tr, err := s.GetTrain(ctx, "missing"); tr != nil || err != nil {
		t.Errorf("GetTrain(missing) = %v, %v; want nil, nil", tr, err)
	}
	if tk, err := s.GetTicket(ctx, "missing"); tk != nil || err != nil {
		t.Errorf("GetTicket(missing) = %v, %v; want nil, nil", tk, err)
	}
	if ok, err := s.UpdatePassenger(ctx, &models.Passenger{ID: "missing", Passport: "X"}); ok || err != nil {
		t.Errorf("UpdatePassenger(missing) = %v, %v; want false, nil", ok, err)
	}
	if ok, err := s.UpdateTrain(ctx, &models.Train{ID: "missing", TrainNumber: "X"}); ok || err != nil {
		t.Errorf("UpdateTrain(missing) = %v, %v; want false, nil", ok, err)
	}
	if tk, err := s.UpdateTicket(ctx, "missing", nil); tk != nil || err != nil {
		t.Errorf("UpdateTicket(missing) = %v, %v; want nil, nil", tk, err)
	}
	if ok, err := s.DeletePassenger(ctx, "missing"); ok || err != nil {
		t.Errorf("DeletePassenger(missing) = %v, %v; want false, nil", ok, err)
	}
	if ok, err := s.DeleteTrain(ctx, "missing"); ok || err != nil {
		t.Errorf("DeleteTrain(missing) = %v, %v; want false, nil", ok, err)
	}
	if ok, err := s.DeleteTicket(ctx, "missing"); ok || err != nil {
		t.Errorf("DeleteTicket(missing) = %v, %v; want false, nil", ok, err)
	}
}

func testTicketPricing(t *testing.T, s storage.Store) {
	ctx := context.Background()
	all := mustPassenger(t, s, "All", "P1", models.DiscountFlags{IsStudent: true, IsMilitary: true, IsKid: true})
	plain := mustPassenger(t, s, "Plain", "P2", models.DiscountFlags{})
	tr := mustTrain(t, s, "100", "Kyiv", "Lviv")

	discounted := mustTicket(t, s, all, tr, models.ClassLux, 100)
	if discounted.Price != 28 {
		t.Errorf("price with every discount = %v, want 28", discounted.Price)
	}
	if discounted.BaseFare != 100 {
		t.Errorf("base fare changed to %v", discounted.BaseFare)
	}
	if discounted.DatePurchased == 0 {
		t.Error("expected DatePurchased to be set")
	}

	full := mustTicket(t, s, plain, tr, "", 100)
	if full.Price != 100 {
		t.Errorf("price without discounts = %v, want 100", full.Price)
	}
	if full.Class != models.ClassPlazkart {
		t.Errorf("default class = %q, want Plazkart", full.Class)
	}

	stored, err := s.GetTicket(ctx, discounted.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetTicket = %v, %v", stored, err)
	}
	if *stored != *discounted {
		t.Errorf("GetTicket = %+v, want %+v", stored, discounted)
	}

	bad := &models.Ticket{PassengerID: plain.ID, TrainID: tr.ID, BaseFare: -1}
	if err := s.CreateTicket(ctx, bad); !errors.Is(err, storage.ErrInvalidTicket) {
		t.Errorf("negative base fare: got %v, want ErrInvalidTicket", err)
	}
	bad = &models.Ticket{PassengerID: plain.ID, TrainID: tr.ID, Class: "XX", BaseFare: 10}
	if err := s.CreateTicket(ctx, bad); !errors.Is(err, storage.ErrInvalidTicket) {
		t.Errorf("unknown class: got %v, want ErrInvalidTicket", err)
	}
}

func testTicketUpdateDoesNotCompound(t *testing.T, s storage.Store) {
	ctx := context.Background()
	student := mustPassenger(t, s, "Student", "S1", models.DiscountFlags{IsStudent: true})
	plain := mustPassenger(t, s, "Plain", "S2", models.DiscountFlags{})
	tr := mustTrain(t, s, "200", "Kyiv", "Odesa")

	ticket := mustTicket(t, s, student, tr, models.ClassKupe, 500)
	if ticket.Price != 400 {
		t.Fatalf("initial price = %v, want 400", ticket.Price)
	}

	for i := 0; i < 3; i++ {
		updated, err := s.UpdateTicket(ctx, ticket.ID, func(tk *models.Ticket) error {
			tk.Class = models.ClassLux
			return nil
		})
		if err != nil {
			t.Fatalf("UpdateTicket #%d failed: %v", i, err)
		}
		if updated.Price != 400 {
			t.Fatalf("update #%d price = %v, want 400 (discount must not compound)", i, updated.Price)
		}
		if updated.DatePurchased != ticket.DatePurchased {
			t.Fatalf("update #%d changed DatePurchased", i)
		}
	}

	updated, err := s.UpdateTicket(ctx, ticket.ID, func(tk *models.Ticket) error {
		tk.PassengerID = plain.ID
		tk.BaseFare = 600
		tk.DatePurchased = 1
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateTicket failed: %v", err)
	}
	if updated.Price != 600 {
		t.Errorf("price after passenger change = %v, want 600", updated.Price)
	}
	if updated.DatePurchased != ticket.DatePurchased {
		t.Errorf("DatePurchased must never change, got %d want %d", updated.DatePurchased, ticket.DatePurchased)
	}

	stored, _ := s.GetTicket(ctx, ticket.ID)
	if stored.Price != 600 || stored.BaseFare != 600 || stored.Class != models.ClassLux {
		t.Errorf("stored ticket = %+v", stored)
	}
}

func testTicketUpdateValidation(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustPassenger(t, s, "P", "V1", models.DiscountFlags{})
	tr := mustTrain(t, s, "300", "Lviv", "Kyiv")
	ticket := mustTicket(t, s, p, tr, models.ClassKupe, 250)

	_, err := s.UpdateTicket(ctx, ticket.ID, func(tk *models.Ticket) error {
		tk.BaseFare = -5
		return nil
	})
	if !errors.Is(err, storage.ErrInvalidTicket) {
		t.Fatalf("negative fare update: got %v, want ErrInvalidTicket", err)
	}

	sentinel := errors.New("stop")
	if _, err := s.UpdateTicket(ctx, ticket.ID, func(*models.Ticket) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("mutate error not propagated: %v", err)
	}

	stored, _ := s.GetTicket(ctx, ticket.ID)
	if stored.BaseFare != 250 || stored.Price != 250 {
		t.Errorf("failed updates must leave the ticket untouched, got %+v", stored)
	}
}

func testTicketOrdering(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustPassenger(t, s, "P", "O1", models.DiscountFlags{})
	tr := mustTrain(t, s, "400", "Kyiv", "Lviv")

	for _, ts := range []int64{100, 300, 200} {
		tk := &models.Ticket{PassengerID: p.ID, TrainID: tr.ID, BaseFare: float64(ts), DatePurchased: ts}
		if err := s.CreateTicket(ctx, tk); err != nil {
			t.Fatalf("CreateTicket failed: %v", err)
		}
	}

	list, err := s.ListTickets(ctx)
	if err != nil {
		t.Fatalf("ListTickets failed: %v", err)
	}
	want := []int64{300, 200, 100}
	if len(list) != len(want) {
		t.Fatalf("ListTickets returned %d tickets, want %d", len(list), len(want))
	}
	for i, tk := range list {
		if tk.DatePurchased != want[i] {
			t.Errorf("ticket %d purchased at %d, want %d", i, tk.DatePurchased, want[i])
		}
	}
}

func testTicketRejectsUnknownRefs(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := mustPassenger(t, s, "P", "R1", models.DiscountFlags{})
	tr := mustTrain(t, s, "500", "Kyiv", "Lviv")

	err := s.CreateTicket(ctx, &models.Ticket{PassengerID: "ghost", TrainID: tr.ID, BaseFare: 10})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown passenger: got %v, want ErrNotFound", err)
	}
	err = s.CreateTicket(ctx, &models.Ticket{PassengerID: p.ID, TrainID: "ghost", BaseFare: 10})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown train: got %v, want ErrNotFound", err)
	}
}

func testCascadeDelete(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p1 := mustPassenger(t, s, "A", "C1", models.DiscountFlags{})
	p2 := mustPassenger(t, s, "B", "C2", models.DiscountFlags{})
	t1 := mustTrain(t, s, "601", "Kyiv", "Lviv")
	t2 := mustTrain(t, s, "602", "Lviv", "Kyiv")

	mustTicket(t, s, p1, t1, models.ClassKupe, 10)
	mustTicket(t, s, p1, t2, models.ClassKupe, 10)
	keep := mustTicket(t, s, p2, t2, models.ClassKupe, 10)
	mustTicket(t, s, p2, t1, models.ClassKupe, 10)

	if ok, err := s.DeletePassenger(ctx, p1.ID); err != nil || !ok {
		t.Fatalf("DeletePassenger = %v, %v", ok, err)
	}
	if ok, err := s.DeleteTrain(ctx, t1.ID); err != nil || !ok {
		t.Fatalf("DeleteTrain = %v, %v", ok, err)
	}

	list, err := s.ListTickets(ctx)
	if err != nil {
		t.Fatalf("ListTickets failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Errorf("tickets after cascade = %+v, want only %s", list, keep.ID)
	}
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	user := models.NewUser("ops@rail.example", "Ops", "hash")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, user.Email)
	if err != nil || byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail = %+v, %v", byEmail, err)
	}
	byID, err := s.GetUserByID(ctx, user.ID)
	if err != nil || byID == nil || byID.Email != user.Email || byID.PasswordHash != "hash" {
		t.Fatalf("GetUserByID = %+v, %v", byID, err)
	}

	if missing, err := s.GetUserByEmail(ctx, "nobody@rail.example"); missing != nil || err != nil {
		t.Errorf("GetUserByEmail(missing) = %v, %v; want nil, nil", missing, err)
	}

	dup := models.NewUser(user.Email, "Other", "hash2")
	if err := s.CreateUser(ctx, dup); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate email: got %v, want ErrConflict", err)
	}
}

func testSnapshot(t *testing.T, s storage.Store) {
	ctx := context.Background()

	empty, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(empty.Passengers)+len(empty.Trains)+len(empty.Tickets) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", empty)
	}

	p := mustPassenger(t, s, "Snap", "N1", models.DiscountFlags{IsKid: true})
	tr := mustTrain(t, s, "700", "Dnipro", "Kyiv")
	mustTicket(t, s, p, tr, models.ClassPlazkart, 200)

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Passengers) != 1 || len(snap.Trains) != 1 || len(snap.Tickets) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Tickets[0].Price != 140 {
		t.Errorf("snapshot ticket price = %v, want 140", snap.Tickets[0].Price)
	}
	if !snap.Passengers[0].IsKid {
		t.Error("snapshot lost passenger flags")
	}
}
