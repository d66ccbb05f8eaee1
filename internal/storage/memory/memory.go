// Package memory provides an in-memory implementation of the storage.Store
// interface. It is used by tests and by the server when RAIL_DB_PATH is ":memory:".
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps every record in maps guarded by a single RWMutex.
// Records are copied in and out, so callers never share memory with the store.
type Store struct {
	mu     sync.RWMutex
	pricer storage.Pricer

	passengers map[string]models.Passenger
	trains     map[string]models.Train
	tickets    map[string]models.Ticket
	users      map[string]models.User

	// seq orders tickets bought within the same second.
	seq       int64
	ticketSeq map[string]int64
}

// New creates an empty store that prices tickets with pricer.
func New(pricer storage.Pricer) *Store {
	return &Store{
		pricer:     pricer,
		passengers: make(map[string]models.Passenger),
		trains:     make(map[string]models.Train),
		tickets:    make(map[string]models.Ticket),
		users:      make(map[string]models.User),
		ticketSeq:  make(map[string]int64),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// --- passengers ---

func (s *Store) ListPassengers(ctx context.Context) ([]*models.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Passenger, 0, len(s.passengers))
	for _, p := range s.sortedPassengers() {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (s *Store) GetPassenger(ctx context.Context, id string) (*models.Passenger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.passengers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) CreatePassenger(ctx context.Context, p *models.Passenger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if s.passportTaken(p.Passport, p.ID) {
		return fmt.Errorf("failed to insert passenger: %w: passport %s", storage.ErrConflict, p.Passport)
	}
	s.passengers[p.ID] = *p
	return nil
}

func (s *Store) UpdatePassenger(ctx context.Context, p *models.Passenger) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.passengers[p.ID]; !ok {
		return false, nil
	}
	if s.passportTaken(p.Passport, p.ID) {
		return false, fmt.Errorf("failed to update passenger: %w: passport %s", storage.ErrConflict, p.Passport)
	}
	s.passengers[p.ID] = *p
	return true, nil
}

func (s *Store) DeletePassenger(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.passengers[id]; !ok {
		return false, nil
	}
	delete(s.passengers, id)
	for tid, t := range s.tickets {
		if t.PassengerID == id {
			s.deleteTicketLocked(tid)
		}
	}
	return true, nil
}

func (s *Store) passportTaken(passport, exceptID string) bool {
	for id, p := range s.passengers {
		if id != exceptID && p.Passport == passport {
			return true
		}
	}
	return false
}

// --- trains ---

func (s *Store) ListTrains(ctx context.Context) ([]*models.Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Train, 0, len(s.trains))
	for _, t := range s.sortedTrains() {
		t := t
		out = append(out, &t)
	}
	return out, nil
}

func (s *Store) GetTrain(ctx context.Context, id string) (*models.Train, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trains[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) CreateTrain(ctx context.Context, t *models.Train) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if s.trainNumberTaken(t.TrainNumber, t.ID) {
		return fmt.Errorf("failed to insert train: %w: train number %s", storage.ErrConflict, t.TrainNumber)
	}
	s.trains[t.ID] = *t
	return nil
}

func (s *Store) UpdateTrain(ctx context.Context, t *models.Train) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trains[t.ID]; !ok {
		return false, nil
	}
	if s.trainNumberTaken(t.TrainNumber, t.ID) {
		return false, fmt.Errorf("failed to update train: %w: train number %s", storage.ErrConflict, t.TrainNumber)
	}
	s.trains[t.ID] = *t
	return true, nil
}

func (s *Store) DeleteTrain(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trains[id]; !ok {
		return false, nil
	}
	delete(s.trains, id)
	for tid, t := range s.tickets {
		if t.TrainID == id {
			s.deleteTicketLocked(tid)
		}
	}
	return true, nil
}

func (s *Store) trainNumberTaken(number, exceptID string) bool {
	for id, t := range s.trains {
		if id != exceptID && t.TrainNumber == number {
			return true
		}
	}
	return false
}

// --- tickets ---

func (s *Store) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Ticket, 0, len(s.tickets))
	for _, t := range s.sortedTickets() {
		t := t
		out = append(out, &t)
	}
	return out, nil
}

func (s *Store) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) CreateTicket(ctx context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.DatePurchased == 0 {
		t.DatePurchased = time.Now().Unix()
	}
	if err := s.priceLocked(t); err != nil {
		return err
	}

	s.seq++
	s.ticketSeq[t.ID] = s.seq
	s.tickets[t.ID] = *t
	return nil
}

func (s *Store) UpdateTicket(ctx context.Context, id string, mutate func(t *models.Ticket) error) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}

	t := current
	if mutate != nil {
		if err := mutate(&t); err != nil {
			return nil, err
		}
	}
	t.ID = id
	t.DatePurchased = current.DatePurchased

	if err := s.priceLocked(&t); err != nil {
		return nil, err
	}
	s.tickets[id] = t
	return &t, nil
}

func (s *Store) DeleteTicket(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[id]; !ok {
		return false, nil
	}
	s.deleteTicketLocked(id)
	return true, nil
}

func (s *Store) deleteTicketLocked(id string) {
	delete(s.tickets, id)
	delete(s.ticketSeq, id)
}

func (s *Store) priceLocked(t *models.Ticket) error {
	passenger, ok := s.passengers[t.PassengerID]
	if !ok {
		return fmt.Errorf("%w: passenger %s", storage.ErrNotFound, t.PassengerID)
	}
	if _, ok := s.trains[t.TrainID]; !ok {
		return fmt.Errorf("%w: train %s", storage.ErrNotFound, t.TrainID)
	}
	return storage.PriceTicket(t, &passenger, s.pricer)
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: %w: email %s", storage.ErrConflict, user.Email)
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// --- snapshot ---

// Snapshot copies every collection under one read lock.
func (s *Store) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &models.Snapshot{
		Passengers: s.sortedPassengers(),
		Trains:     s.sortedTrains(),
		Tickets:    s.sortedTickets(),
	}, nil
}

// sortedPassengers returns passengers by last name, first name, then ID,
// matching the SQLite store's ordering. Callers hold the lock.
func (s *Store) sortedPassengers() []models.Passenger {
	out := make([]models.Passenger, 0, len(s.passengers))
	for _, p := range s.passengers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) sortedTrains() []models.Train {
	out := make([]models.Train, 0, len(s.trains))
	for _, t := range s.trains {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrainNumber != out[j].TrainNumber {
			return out[i].TrainNumber < out[j].TrainNumber
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// sortedTickets returns the newest purchase first.
func (s *Store) sortedTickets() []models.Ticket {
	out := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DatePurchased != out[j].DatePurchased {
			return out[i].DatePurchased > out[j].DatePurchased
		}
		return s.ticketSeq[out[i].ID] > s.ticketSeq[out[j].ID]
	})
	return out
}
