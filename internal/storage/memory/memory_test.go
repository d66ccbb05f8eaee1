package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/storage"
	"github.com/mmynk/railstats/internal/storage/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return New(calculator.ComputePrice)
	})
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New(calculator.ComputePrice)

	p := &models.Passenger{LastName: "Original", Passport: "M1"}
	if err := s.CreatePassenger(ctx, p); err != nil {
		t.Fatalf("CreatePassenger failed: %v", err)
	}
	p.LastName = "Changed"

	got, _ := s.GetPassenger(ctx, p.ID)
	got.Passport = "Mutated"

	again, _ := s.GetPassenger(ctx, p.ID)
	if again.LastName != "Original" || again.Passport != "M1" {
		t.Errorf("store shares memory with callers: %+v", again)
	}
}

func TestConcurrentTicketUpdates(t *testing.T) {
	ctx := context.Background()
	s := New(calculator.ComputePrice)

	p := &models.Passenger{LastName: "Kid", Passport: "K1", IsKid: true}
	tr := &models.Train{TrainNumber: "800"}
	if err := s.CreatePassenger(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTrain(ctx, tr); err != nil {
		t.Fatal(err)
	}
	ticket := &models.Ticket{PassengerID: p.ID, TrainID: tr.ID, BaseFare: 1000}
	if err := s.CreateTicket(ctx, ticket); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.UpdateTicket(ctx, ticket.ID, nil); err != nil {
				t.Errorf("UpdateTicket failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.GetTicket(ctx, ticket.ID)
	if got.Price != 700 {
		t.Errorf("price after concurrent updates = %v, want 700", got.Price)
	}
}
