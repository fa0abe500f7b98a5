package sqlstore

import (
	"context"

	"github.com/example/planner/internal/persistence"
)

// CreateUser inserts an account record.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := s.exec(ctx,
		`INSERT INTO users (id, display_name, created_at) VALUES (?, ?, ?)`,
		user.ID, user.DisplayName, formatTime(user.CreatedAt),
	)
	return mapError(err)
}

// GetUser loads an account record.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	var (
		user    persistence.User
		created string
	)
	err := s.queryRow(ctx, `SELECT id, display_name, created_at FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.DisplayName, &created)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	if user.CreatedAt, err = parseTime(created); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}
