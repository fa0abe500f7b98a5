package sqlstore

import (
	"context"

	"github.com/example/planner/internal/persistence"
)

// CreateEventList inserts an event list and returns it with its identifier.
func (s *Store) CreateEventList(ctx context.Context, list persistence.EventList) (persistence.EventList, error) {
	err := s.queryRow(ctx,
		`INSERT INTO event_lists (user_id, name, color, is_default, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		list.UserID, list.Name, list.Color, list.IsDefault, formatTime(list.CreatedAt),
	).Scan(&list.ID)
	if err != nil {
		return persistence.EventList{}, mapError(err)
	}
	return list, nil
}

// GetEventList loads an event list.
func (s *Store) GetEventList(ctx context.Context, id int64) (persistence.EventList, error) {
	var (
		list    persistence.EventList
		created string
	)
	err := s.queryRow(ctx,
		`SELECT id, user_id, name, color, is_default, created_at FROM event_lists WHERE id = ?`, id,
	).Scan(&list.ID, &list.UserID, &list.Name, &list.Color, &list.IsDefault, &created)
	if err != nil {
		return persistence.EventList{}, mapError(err)
	}
	if list.CreatedAt, err = parseTime(created); err != nil {
		return persistence.EventList{}, err
	}
	return list, nil
}

// CreateTaskList inserts a task list and returns it with its identifier.
func (s *Store) CreateTaskList(ctx context.Context, list persistence.TaskList) (persistence.TaskList, error) {
	err := s.queryRow(ctx,
		`INSERT INTO task_lists (user_id, name, color, is_default, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		list.UserID, list.Name, list.Color, list.IsDefault, formatTime(list.CreatedAt),
	).Scan(&list.ID)
	if err != nil {
		return persistence.TaskList{}, mapError(err)
	}
	return list, nil
}
