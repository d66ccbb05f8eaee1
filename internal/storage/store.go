// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/railstats/internal/models"
)

var (
	// ErrNotFound is returned when a record referenced by a write does not exist.
	ErrNotFound = errors.New("referenced record not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	// (passport, train number, user email).
	ErrConflict = errors.New("record already exists")

	// ErrInvalidTicket is returned for an unknown class or a negative base fare.
	ErrInvalidTicket = errors.New("invalid ticket")
)

// PassengerRepository is the record-store capability set for passengers.
// Get, Update and Delete on a missing ID are no-ops: they return a nil
// record or false, never an error.
type PassengerRepository interface {
	ListPassengers(ctx context.Context) ([]*models.Passenger, error)
	GetPassenger(ctx context.Context, id string) (*models.Passenger, error)

	// CreatePassenger persists a new passenger. The ID field will be populated by the store.
	CreatePassenger(ctx context.Context, p *models.Passenger) error

	UpdatePassenger(ctx context.Context, p *models.Passenger) (bool, error)

	// DeletePassenger removes the passenger and all of their tickets.
	DeletePassenger(ctx context.Context, id string) (bool, error)
}

// TrainRepository is the record-store capability set for trains.
type TrainRepository interface {
	ListTrains(ctx context.Context) ([]*models.Train, error)
	GetTrain(ctx context.Context, id string) (*models.Train, error)
	CreateTrain(ctx context.Context, t *models.Train) error
	UpdateTrain(ctx context.Context, t *models.Train) (bool, error)

	// DeleteTrain removes the train and every ticket sold on it.
	DeleteTrain(ctx context.Context, id string) (bool, error)
}

// TicketRepository is the record-store capability set for tickets.
// Every write prices the ticket from its base fare with the store's Pricer.
type TicketRepository interface {
	ListTickets(ctx context.Context) ([]*models.Ticket, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)

	// CreateTicket validates and prices t, then persists it.
	// ID and DatePurchased are populated by the store.
	CreateTicket(ctx context.Context, t *models.Ticket) error

	// UpdateTicket loads the ticket, applies mutate, reprices it from its base
	// fare and saves it as one atomic read-modify-write.
	// Returns nil, nil if the ticket does not exist.
	UpdateTicket(ctx context.Context, id string, mutate func(t *models.Ticket) error) (*models.Ticket, error)

	DeleteTicket(ctx context.Context, id string) (bool, error)
}

// UserRepository stores operator accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SnapshotReader returns a consistent point-in-time copy of all records.
// A snapshot never contains a partially written record.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the service layer.
type Store interface {
	PassengerRepository
	TrainRepository
	TicketRepository
	UserRepository
	SnapshotReader

	// Close releases any resources held by the store.
	Close() error
}
