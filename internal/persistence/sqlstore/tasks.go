package sqlstore

import (
	"context"
	"database/sql"

	"github.com/example/planner/internal/persistence"
)

// CreateTask inserts a task. Status defaults to NOT_STARTED.
func (s *Store) CreateTask(ctx context.Context, task persistence.Task) (persistence.Task, error) {
	if task.Status == "" {
		task.Status = "NOT_STARTED"
	}
	var reminder sql.NullString
	if task.ReminderAt != nil {
		reminder = sql.NullString{String: formatTime(*task.ReminderAt), Valid: true}
	}
	err := s.queryRow(ctx,
		`INSERT INTO tasks (task_list_id, title, main_task, estimated_duration, actual_duration, status, reminder_at, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		task.TaskListID, task.Title, task.MainTask,
		nullInt(task.EstimatedDuration), nullInt(task.ActualDuration),
		task.Status, reminder, nullString(task.Description), formatTime(task.CreatedAt),
	).Scan(&task.ID)
	if err != nil {
		return persistence.Task{}, mapError(err)
	}
	if owner, err := s.taskListOwner(ctx, task.TaskListID); err == nil {
		task.OwnerID = owner
	}
	return task, nil
}

// GetTask loads a task with the user owning its task list.
func (s *Store) GetTask(ctx context.Context, id int64) (persistence.Task, error) {
	var (
		task        persistence.Task
		estimated   sql.NullInt64
		actual      sql.NullInt64
		reminder    sql.NullString
		description sql.NullString
		created     string
	)
	err := s.queryRow(ctx,
		`SELECT t.id, t.task_list_id, l.user_id, t.title, t.main_task, t.estimated_duration,
		        t.actual_duration, t.status, t.reminder_at, t.description, t.created_at
		 FROM tasks t JOIN task_lists l ON l.id = t.task_list_id
		 WHERE t.id = ?`, id,
	).Scan(&task.ID, &task.TaskListID, &task.OwnerID, &task.Title, &task.MainTask, &estimated,
		&actual, &task.Status, &reminder, &description, &created)
	if err != nil {
		return persistence.Task{}, mapError(err)
	}

	task.EstimatedDuration = intPtr(estimated)
	task.ActualDuration = intPtr(actual)
	task.Description = stringPtr(description)
	if reminder.Valid {
		at, err := parseTime(reminder.String)
		if err != nil {
			return persistence.Task{}, err
		}
		task.ReminderAt = &at
	}
	if task.CreatedAt, err = parseTime(created); err != nil {
		return persistence.Task{}, err
	}
	return task, nil
}

func (s *Store) taskListOwner(ctx context.Context, taskListID int64) (string, error) {
	var owner string
	err := s.queryRow(ctx, `SELECT user_id FROM task_lists WHERE id = ?`, taskListID).Scan(&owner)
	return owner, mapError(err)
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
