package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/railstats/internal/calculator"
	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/storage"
	"github.com/mmynk/railstats/internal/storage/storetest"
)

func tempDBPath(t *testing.T) string {
	t.Helper()
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "railstats-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return filepath.Join(tempDir, "test.db")
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		store, err := New(tempDBPath(t), calculator.ComputePrice)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		return store
	})
}

func TestNewRequiresPricer(t *testing.T) {
	if _, err := New(tempDBPath(t), nil); err == nil {
		t.Fatal("expected an error without a pricer")
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	dbPath := tempDBPath(t)
	ctx := context.Background()

	store, err := New(dbPath, calculator.ComputePrice)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	p := &models.Passenger{FirstName: "Lesya", LastName: "Ukrainka", Passport: "UA1", IsStudent: true}
	if err := store.CreatePassenger(ctx, p); err != nil {
		t.Fatalf("CreatePassenger failed: %v", err)
	}
	tr := &models.Train{TrainNumber: "017", BeginPoint: "Kyiv", EndPoint: "Kovel"}
	if err := store.CreateTrain(ctx, tr); err != nil {
		t.Fatalf("CreateTrain failed: %v", err)
	}
	ticket := &models.Ticket{PassengerID: p.ID, TrainID: tr.ID, Class: models.ClassKupe, BaseFare: 350}
	if err := store.CreateTicket(ctx, ticket); err != nil {
		t.Fatalf("CreateTicket failed: %v", err)
	}
	store.Close()

	// Migrations must be idempotent on an existing database
	reopened, err := New(dbPath, calculator.ComputePrice)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetTicket(ctx, ticket.ID)
	if err != nil || got == nil {
		t.Fatalf("GetTicket after reopen = %v, %v", got, err)
	}
	if got.BaseFare != 350 || got.Price != 280 || got.Class != models.ClassKupe {
		t.Errorf("ticket after reopen = %+v", got)
	}

	gotP, _ := reopened.GetPassenger(ctx, p.ID)
	if gotP == nil || !gotP.IsStudent || gotP.IsMilitary {
		t.Errorf("passenger flags after reopen = %+v", gotP)
	}
}
