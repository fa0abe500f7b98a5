package application

import (
	"time"

	"github.com/example/planner/internal/scheduler"
)

// EventList is the owning container of events as seen by the service.
type EventList struct {
	ID        int64
	UserID    string
	Name      string
	Color     string
	IsDefault bool
}

// TaskStatus enumerates task progress states.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusPostponed  TaskStatus = "POSTPONED"
	TaskStatusCanceled   TaskStatus = "CANCELED"
)

// Task is a task reference. OwnerID is the user owning the task's list.
type Task struct {
	ID         int64
	TaskListID int64
	OwnerID    string
	Title      string
	Status     TaskStatus
}

// OwnedEvent pairs a stored event with the user owning its event list.
type OwnedEvent struct {
	Event   *scheduler.Event
	OwnerID string
}

// CreateEventRequest captures the fields required to create an event.
type CreateEventRequest struct {
	EventListID int64
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	IsAllDay    bool
	Description string
	TaskIDs     []int64
}

// UpdateEventRequest captures a partial update. Absent fields leave the event unchanged.
// A present TaskIDs with no elements removes every association.
type UpdateEventRequest struct {
	EventListID Optional[int64]
	Title       Optional[string]
	StartDate   Optional[time.Time]
	EndDate     Optional[time.Time]
	IsAllDay    Optional[bool]
	Description Optional[string]
	TaskIDs     Optional[[]int64]
}

func (r UpdateEventRequest) touchesDateTime() bool {
	return r.StartDate.IsPresent() || r.EndDate.IsPresent() || r.IsAllDay.IsPresent()
}

// EventResponse is the outbound representation of an event.
type EventResponse struct {
	ID          int64
	EventListID int64
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	IsAllDay    bool
	Description string
	TaskIDs     []int64
}

// CalendarRange bounds a calendar listing; both ends are inclusive.
type CalendarRange struct {
	From time.Time
	To   time.Time
}
