package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/railstats/internal/models"
)

const trainColumns = "id, train_number, begin_point, end_point"

func scanTrain(row scanner) (*models.Train, error) {
	t := &models.Train{}
	err := row.Scan(&t.ID, &t.TrainNumber, &t.BeginPoint, &t.EndPoint)
	return t, err
}

// ListTrains returns every train ordered by train number.
func (s *SQLiteStore) ListTrains(ctx context.Context) ([]*models.Train, error) {
	return listTrains(ctx, s.db)
}

func listTrains(ctx context.Context, q querier) ([]*models.Train, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+trainColumns+" FROM trains ORDER BY train_number, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list trains: %w", err)
	}
	defer rows.Close()

	var trains []*models.Train
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan train: %w", err)
		}
		trains = append(trains, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trains: %w", err)
	}
	return trains, nil
}

// GetTrain retrieves a train by ID. Returns nil, nil if not found.
func (s *SQLiteStore) GetTrain(ctx context.Context, id string) (*models.Train, error) {
	return getTrain(ctx, s.db, id)
}

func getTrain(ctx context.Context, q querier, id string) (*models.Train, error) {
	t, err := scanTrain(q.QueryRowContext(ctx, "SELECT "+trainColumns+" FROM trains WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil // Train not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get train: %w", err)
	}
	return t, nil
}

// CreateTrain persists a new train.
func (s *SQLiteStore) CreateTrain(ctx context.Context, t *models.Train) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO trains ("+trainColumns+") VALUES (?, ?, ?, ?)",
		t.ID, t.TrainNumber, t.BeginPoint, t.EndPoint,
	)
	if err != nil {
		return fmt.Errorf("failed to insert train: %w", mapConstraintError(err, "train number "+t.TrainNumber))
	}
	return nil
}

// UpdateTrain overwrites the train's fields.
func (s *SQLiteStore) UpdateTrain(ctx context.Context, t *models.Train) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE trains SET train_number = ?, begin_point = ?, end_point = ? WHERE id = ?",
		t.TrainNumber, t.BeginPoint, t.EndPoint, t.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update train: %w", mapConstraintError(err, "train number "+t.TrainNumber))
	}
	return rowsAffected(res)
}

// DeleteTrain removes a train; tickets sold on it go with it.
func (s *SQLiteStore) DeleteTrain(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trains WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete train: %w", err)
	}
	return rowsAffected(res)
}
