package persistence

import "time"

// User is an account that owns lists. Authentication data lives elsewhere.
type User struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}

// EventList groups events belonging to one user.
type EventList struct {
	ID        int64
	UserID    string
	Name      string
	Color     string
	IsDefault bool
	CreatedAt time.Time
}

// TaskList groups tasks belonging to one user.
type TaskList struct {
	ID        int64
	UserID    string
	Name      string
	Color     string
	IsDefault bool
	CreatedAt time.Time
}

// Task is a unit of work. OwnerID is filled from the owning task list on reads.
type Task struct {
	ID                int64
	TaskListID        int64
	OwnerID           string
	Title             string
	MainTask          bool
	EstimatedDuration *int
	ActualDuration    *int
	Status            string
	ReminderAt        *time.Time
	Description       *string
	CreatedAt         time.Time
}

// EventTask is one stored event to task association.
type EventTask struct {
	ID     int64
	TaskID int64
}

// Event is a stored calendar entry. OwnerID is filled from the owning event
// list on reads.
type Event struct {
	ID          int64
	EventListID int64
	OwnerID     string
	Title       string
	Description *string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
	Tasks       []EventTask
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskIDs lists the associated task identifiers in stored order.
func (e Event) TaskIDs() []int64 {
	ids := make([]int64, 0, len(e.Tasks))
	for _, t := range e.Tasks {
		ids = append(ids, t.TaskID)
	}
	return ids
}
