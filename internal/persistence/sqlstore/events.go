package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/planner/internal/persistence"
)

const eventColumns = `e.id, e.event_list_id, l.user_id, e.title, e.description, e.start_date,
	e.end_date, e.is_all_day, e.version, e.created_at, e.updated_at`

// CreateEvent inserts the event and its task associations.
func (s *Store) CreateEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	var created persistence.Event
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		var id int64
		err := s.queryRow(ctx,
			`INSERT INTO events (event_list_id, title, description, start_date, end_date, is_all_day, version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?) RETURNING id`,
			event.EventListID, event.Title, nullString(event.Description),
			formatTime(event.Start), formatTime(event.End), event.IsAllDay,
			formatTime(event.CreatedAt), formatTime(event.UpdatedAt),
		).Scan(&id)
		if err != nil {
			return mapError(err)
		}
		if err := s.syncEventTasks(ctx, id, event.TaskIDs()); err != nil {
			return err
		}
		created, err = s.GetEvent(ctx, id)
		return err
	})
	if err != nil {
		return persistence.Event{}, err
	}
	return created, nil
}

// UpdateEvent writes the event when its version is current and synchronises
// the task associations.
func (s *Store) UpdateEvent(ctx context.Context, event persistence.Event) (persistence.Event, error) {
	var updated persistence.Event
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		result, err := s.exec(ctx,
			`UPDATE events
			 SET event_list_id = ?, title = ?, description = ?, start_date = ?, end_date = ?,
			     is_all_day = ?, version = version + 1, updated_at = ?
			 WHERE id = ? AND version = ?`,
			event.EventListID, event.Title, nullString(event.Description),
			formatTime(event.Start), formatTime(event.End), event.IsAllDay,
			formatTime(event.UpdatedAt), event.ID, event.Version,
		)
		if err != nil {
			return mapError(err)
		}
		if err := s.expectOneRow(ctx, result, event.ID); err != nil {
			return err
		}
		if err := s.syncEventTasks(ctx, event.ID, event.TaskIDs()); err != nil {
			return err
		}
		updated, err = s.GetEvent(ctx, event.ID)
		return err
	})
	if err != nil {
		return persistence.Event{}, err
	}
	return updated, nil
}

// GetEvent loads an event with its owner and associations.
func (s *Store) GetEvent(ctx context.Context, id int64) (persistence.Event, error) {
	row := s.queryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e JOIN event_lists l ON l.id = e.event_list_id
		 WHERE e.id = ?`, id)
	event, err := scanEvent(row)
	if err != nil {
		return persistence.Event{}, err
	}

	tasks, err := s.loadEventTasks(ctx, []int64{id})
	if err != nil {
		return persistence.Event{}, err
	}
	event.Tasks = tasks[id]
	return event, nil
}

// DeleteEvent removes the event when its version is current. Associations
// are removed by the foreign key cascade.
func (s *Store) DeleteEvent(ctx context.Context, id, version int64) error {
	return s.WithinTransaction(ctx, func(ctx context.Context) error {
		result, err := s.exec(ctx, `DELETE FROM events WHERE id = ? AND version = ?`, id, version)
		if err != nil {
			return mapError(err)
		}
		return s.expectOneRow(ctx, result, id)
	})
}

// ListEventsInRange returns the user's events with start <= to and end >= from,
// ordered by start then id.
func (s *Store) ListEventsInRange(ctx context.Context, userID string, from, to time.Time) ([]persistence.Event, error) {
	rows, err := s.query(ctx,
		`SELECT `+eventColumns+`
		 FROM events e JOIN event_lists l ON l.id = e.event_list_id
		 WHERE l.user_id = ? AND e.start_date <= ? AND e.end_date >= ?
		 ORDER BY e.start_date, e.id`,
		userID, formatTime(to), formatTime(from),
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var (
		events []persistence.Event
		ids    []int64
	)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
		ids = append(ids, event.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	if len(events) == 0 {
		return []persistence.Event{}, nil
	}

	tasks, err := s.loadEventTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Tasks = tasks[events[i].ID]
	}
	return events, nil
}

// syncEventTasks makes the stored associations equal desired. Rows outside
// desired are deleted before new rows are inserted so the (event, task)
// uniqueness constraint is never hit by a transient duplicate.
func (s *Store) syncEventTasks(ctx context.Context, eventID int64, desired []int64) error {
	current, err := s.loadEventTasks(ctx, []int64{eventID})
	if err != nil {
		return err
	}

	want := make(map[int64]struct{}, len(desired))
	for _, id := range desired {
		want[id] = struct{}{}
	}
	have := make(map[int64]struct{}, len(current[eventID]))
	for _, link := range current[eventID] {
		have[link.TaskID] = struct{}{}
		if _, keep := want[link.TaskID]; keep {
			continue
		}
		if _, err := s.exec(ctx, `DELETE FROM event_tasks WHERE id = ?`, link.ID); err != nil {
			return mapError(err)
		}
	}

	for _, taskID := range desired {
		if _, exists := have[taskID]; exists {
			continue
		}
		have[taskID] = struct{}{}
		if _, err := s.exec(ctx,
			`INSERT INTO event_tasks (event_id, task_id) VALUES (?, ?)
			 ON CONFLICT (event_id, task_id) DO NOTHING`,
			eventID, taskID,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (s *Store) loadEventTasks(ctx context.Context, eventIDs []int64) (map[int64][]persistence.EventTask, error) {
	out := make(map[int64][]persistence.EventTask, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(eventIDs)), ", ")
	args := make([]any, len(eventIDs))
	for i, id := range eventIDs {
		args[i] = id
	}

	rows, err := s.query(ctx,
		`SELECT id, event_id, task_id FROM event_tasks
		 WHERE event_id IN (`+placeholders+`)
		 ORDER BY id`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			link    persistence.EventTask
			eventID int64
		)
		if err := rows.Scan(&link.ID, &eventID, &link.TaskID); err != nil {
			return nil, mapError(err)
		}
		out[eventID] = append(out[eventID], link)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// expectOneRow turns a versioned write that touched nothing into ErrNotFound
// or ErrConflict depending on whether the row still exists.
func (s *Store) expectOneRow(ctx context.Context, result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = s.queryRow(ctx, `SELECT 1 FROM events WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return mapError(err)
	}
	return fmt.Errorf("%w: event %d", persistence.ErrConflict, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (persistence.Event, error) {
	var (
		event       persistence.Event
		description sql.NullString
		start, end  string
		created     string
		updated     string
	)
	if err := row.Scan(&event.ID, &event.EventListID, &event.OwnerID, &event.Title, &description,
		&start, &end, &event.IsAllDay, &event.Version, &created, &updated); err != nil {
		return persistence.Event{}, mapError(err)
	}
	event.Description = stringPtr(description)

	var err error
	if event.Start, err = parseTime(start); err != nil {
		return persistence.Event{}, err
	}
	if event.End, err = parseTime(end); err != nil {
		return persistence.Event{}, err
	}
	if event.CreatedAt, err = parseTime(created); err != nil {
		return persistence.Event{}, err
	}
	if event.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}
