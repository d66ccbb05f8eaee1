package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/railstats/internal/models"
)

// Snapshot reads all passengers, trains and tickets inside one transaction,
// so the three collections agree with each other.
func (s *SQLiteStore) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	passengers, err := listPassengers(ctx, tx)
	if err != nil {
		return nil, err
	}
	trains, err := listTrains(ctx, tx)
	if err != nil {
		return nil, err
	}
	tickets, err := listTickets(ctx, tx)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		Passengers: make([]models.Passenger, len(passengers)),
		Trains:     make([]models.Train, len(trains)),
		Tickets:    make([]models.Ticket, len(tickets)),
	}
	for i, p := range passengers {
		snap.Passengers[i] = *p
	}
	for i, t := range trains {
		snap.Trains[i] = *t
	}
	for i, t := range tickets {
		snap.Tickets[i] = *t
	}
	return snap, nil
}
