package persistence

import (
	"context"
	"time"
)

// UserRepository stores account records.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
}

// EventListRepository stores event lists.
type EventListRepository interface {
	CreateEventList(ctx context.Context, list EventList) (EventList, error)
	GetEventList(ctx context.Context, id int64) (EventList, error)
}

// TaskRepository stores task lists and tasks.
type TaskRepository interface {
	CreateTaskList(ctx context.Context, list TaskList) (TaskList, error)
	CreateTask(ctx context.Context, task Task) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
}

// EventRepository stores events and their task associations.
//
// CreateEvent assigns the identifier and version 1. UpdateEvent succeeds only
// when event.Version matches the stored version, then increments it; the task
// associations are synchronised to event.Tasks, removals first.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	DeleteEvent(ctx context.Context, id, version int64) error
	ListEventsInRange(ctx context.Context, userID string, from, to time.Time) ([]Event, error)
}
