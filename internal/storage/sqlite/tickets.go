package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/railstats/internal/models"
	"github.com/mmynk/railstats/internal/storage"
)

const ticketColumns = "id, passenger_id, train_id, ticket_type, base_fare, price, date_purchased"

func scanTicket(row scanner) (*models.Ticket, error) {
	t := &models.Ticket{}
	var class string
	err := row.Scan(&t.ID, &t.PassengerID, &t.TrainID, &class, &t.BaseFare, &t.Price, &t.DatePurchased)
	t.Class = models.TicketClass(class)
	return t, err
}

// ListTickets returns every ticket, newest purchase first.
func (s *SQLiteStore) ListTickets(ctx context.Context) ([]*models.Ticket, error) {
	return listTickets(ctx, s.db)
}

func listTickets(ctx context.Context, q querier) ([]*models.Ticket, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets ORDER BY date_purchased DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return tickets, nil
}

// GetTicket retrieves a ticket by ID. Returns nil, nil if not found.
func (s *SQLiteStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	return getTicket(ctx, s.db, id)
}

func getTicket(ctx context.Context, q querier, id string) (*models.Ticket, error) {
	t, err := scanTicket(q.QueryRowContext(ctx, "SELECT "+ticketColumns+" FROM tickets WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil // Ticket not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return t, nil
}

// priceInTx resolves the ticket's passenger and train inside tx and prices it.
func (s *SQLiteStore) priceInTx(ctx context.Context, tx *sql.Tx, t *models.Ticket) error {
	passenger, err := getPassenger(ctx, tx, t.PassengerID)
	if err != nil {
		return err
	}
	if passenger == nil {
		return fmt.Errorf("%w: passenger %s", storage.ErrNotFound, t.PassengerID)
	}
	train, err := getTrain(ctx, tx, t.TrainID)
	if err != nil {
		return err
	}
	if train == nil {
		return fmt.Errorf("%w: train %s", storage.ErrNotFound, t.TrainID)
	}
	return storage.PriceTicket(t, passenger, s.pricer)
}

// CreateTicket prices the ticket from its base fare and persists it.
func (s *SQLiteStore) CreateTicket(ctx context.Context, t *models.Ticket) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.DatePurchased == 0 {
		t.DatePurchased = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.priceInTx(ctx, tx, t); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO tickets ("+ticketColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.PassengerID, t.TrainID, string(t.Class), t.BaseFare, t.Price, t.DatePurchased,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateTicket applies mutate to the stored ticket and reprices it from its
// base fare, all inside one immediate transaction.
func (s *SQLiteStore) UpdateTicket(ctx context.Context, id string, mutate func(t *models.Ticket) error) (*models.Ticket, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := getTicket(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	purchased := t.DatePurchased
	if mutate != nil {
		if err := mutate(t); err != nil {
			return nil, err
		}
	}
	t.ID = id
	t.DatePurchased = purchased

	if err := s.priceInTx(ctx, tx, t); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tickets
		 SET passenger_id = ?, train_id = ?, ticket_type = ?, base_fare = ?, price = ?
		 WHERE id = ?`,
		t.PassengerID, t.TrainID, string(t.Class), t.BaseFare, t.Price, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return t, nil
}

// DeleteTicket removes a ticket by ID.
func (s *SQLiteStore) DeleteTicket(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete ticket: %w", err)
	}
	return rowsAffected(res)
}
