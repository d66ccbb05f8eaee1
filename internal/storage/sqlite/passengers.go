package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/railstats/internal/models"
)

const passengerColumns = "id, first_name, last_name, passport, is_military, is_student, is_kid"

func scanPassenger(row scanner) (*models.Passenger, error) {
	p := &models.Passenger{}
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Passport, &p.IsMilitary, &p.IsStudent, &p.IsKid)
	return p, err
}

// ListPassengers returns every passenger ordered by last name, then first name.
func (s *SQLiteStore) ListPassengers(ctx context.Context) ([]*models.Passenger, error) {
	return listPassengers(ctx, s.db)
}

func listPassengers(ctx context.Context, q querier) ([]*models.Passenger, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+passengerColumns+" FROM passengers ORDER BY last_name, first_name, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list passengers: %w", err)
	}
	defer rows.Close()

	var passengers []*models.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan passenger: %w", err)
		}
		passengers = append(passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate passengers: %w", err)
	}
	return passengers, nil
}

// GetPassenger retrieves a passenger by ID. Returns nil, nil if not found.
func (s *SQLiteStore) GetPassenger(ctx context.Context, id string) (*models.Passenger, error) {
	return getPassenger(ctx, s.db, id)
}

func getPassenger(ctx context.Context, q querier, id string) (*models.Passenger, error) {
	p, err := scanPassenger(q.QueryRowContext(ctx,
		"SELECT "+passengerColumns+" FROM passengers WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, nil // Passenger not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get passenger: %w", err)
	}
	return p, nil
}

// CreatePassenger persists a new passenger.
func (s *SQLiteStore) CreatePassenger(ctx context.Context, p *models.Passenger) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO passengers ("+passengerColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.FirstName, p.LastName, p.Passport, p.IsMilitary, p.IsStudent, p.IsKid,
	)
	if err != nil {
		return fmt.Errorf("failed to insert passenger: %w", mapConstraintError(err, "passport "+p.Passport))
	}
	return nil
}

// UpdatePassenger overwrites the passenger's fields.
// Existing tickets keep their prices; they are repriced only when updated themselves.
func (s *SQLiteStore) UpdatePassenger(ctx context.Context, p *models.Passenger) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE passengers
		 SET first_name = ?, last_name = ?, passport = ?, is_military = ?, is_student = ?, is_kid = ?
		 WHERE id = ?`,
		p.FirstName, p.LastName, p.Passport, p.IsMilitary, p.IsStudent, p.IsKid, p.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update passenger: %w", mapConstraintError(err, "passport "+p.Passport))
	}
	return rowsAffected(res)
}

// DeletePassenger removes a passenger; their tickets go with them.
func (s *SQLiteStore) DeletePassenger(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM passengers WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete passenger: %w", err)
	}
	return rowsAffected(res)
}
