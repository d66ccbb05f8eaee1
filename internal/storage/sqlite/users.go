package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/railstats/internal/models"
)

const userColumns = "id, email, display_name, password_hash, created_at, updated_at"

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUser inserts a new operator account. A taken email maps to ErrConflict.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapConstraintError(err, "email "+user.Email))
	}
	return nil
}

// GetUserByEmail looks an operator up by login email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return getUserBy(ctx, s.db, "email", email)
}

// GetUserByID looks an operator up by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getUserBy(ctx, s.db, "id", id)
}

// getUserBy looks a user up by a unique column. column is never caller input.
func getUserBy(ctx context.Context, q querier, column, value string) (*models.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value,
	))
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return u, nil
}
