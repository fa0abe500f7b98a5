package scheduler

import (
	"slices"
	"strings"
	"time"
)

// EventTask links an event to one task. Instances only exist inside an Event.
type EventTask struct {
	id     int64
	taskID int64
}

// ID returns the persisted identifier of the association, or zero when it has
// not been stored yet.
func (t EventTask) ID() int64 { return t.id }

// TaskID returns the referenced task identifier.
func (t EventTask) TaskID() int64 { return t.taskID }

// Event is the aggregate root for a scheduled calendar entry and the task
// associations it owns.
type Event struct {
	id          int64
	eventListID int64
	title       string
	description string
	when        EventDateTime
	tasks       []EventTask
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// EventSnapshot is the flattened state of an Event used by storage adapters.
type EventSnapshot struct {
	ID          int64
	EventListID int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
	Tasks       []EventTaskSnapshot
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventTaskSnapshot is the flattened state of an association.
type EventTaskSnapshot struct {
	ID     int64
	TaskID int64
}

// NewEvent builds an unsaved event. Title and description are trimmed.
func NewEvent(eventListID int64, title, description string, when EventDateTime) *Event {
	return &Event{
		eventListID: eventListID,
		title:       strings.TrimSpace(title),
		description: strings.TrimSpace(description),
		when:        when,
	}
}

// RestoreEvent rehydrates an event from stored state. Duplicate task
// references are collapsed.
func RestoreEvent(s EventSnapshot) *Event {
	e := &Event{
		id:          s.ID,
		eventListID: s.EventListID,
		title:       s.Title,
		description: s.Description,
		when:        EventDateTime{start: s.Start, end: s.End, isAllDay: s.IsAllDay},
		version:     s.Version,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
	for _, t := range s.Tasks {
		if e.hasTask(t.TaskID) {
			continue
		}
		e.tasks = append(e.tasks, EventTask{id: t.ID, taskID: t.TaskID})
	}
	return e
}

// Snapshot returns a copy of the event state.
func (e *Event) Snapshot() EventSnapshot {
	tasks := make([]EventTaskSnapshot, 0, len(e.tasks))
	for _, t := range e.tasks {
		tasks = append(tasks, EventTaskSnapshot{ID: t.id, TaskID: t.taskID})
	}
	return EventSnapshot{
		ID:          e.id,
		EventListID: e.eventListID,
		Title:       e.title,
		Description: e.description,
		Start:       e.when.start,
		End:         e.when.end,
		IsAllDay:    e.when.isAllDay,
		Tasks:       tasks,
		Version:     e.version,
		CreatedAt:   e.createdAt,
		UpdatedAt:   e.updatedAt,
	}
}

// ID returns the persisted identifier, or zero before the first save.
func (e *Event) ID() int64 { return e.id }

// EventListID returns the list the event belongs to.
func (e *Event) EventListID() int64 { return e.eventListID }

// Title returns the trimmed title.
func (e *Event) Title() string { return e.title }

// Description returns the trimmed description, possibly empty.
func (e *Event) Description() string { return e.description }

// DateTime returns when the event takes place.
func (e *Event) DateTime() EventDateTime { return e.when }

// Version returns the stored version used for optimistic locking.
func (e *Event) Version() int64 { return e.version }

// CreatedAt returns when the event was first saved.
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns when the event was last modified.
func (e *Event) UpdatedAt() time.Time { return e.updatedAt }

// Tasks returns a copy of the task associations in attachment order.
func (e *Event) Tasks() []EventTask { return slices.Clone(e.tasks) }

// TaskIDs returns the associated task identifiers in attachment order.
func (e *Event) TaskIDs() []int64 {
	ids := make([]int64, 0, len(e.tasks))
	for _, t := range e.tasks {
		ids = append(ids, t.taskID)
	}
	return ids
}

// ChangeEventList moves the event to another list. Zero is ignored.
func (e *Event) ChangeEventList(eventListID int64) {
	if eventListID == 0 {
		return
	}
	e.eventListID = eventListID
}

// Rename sets the trimmed title. Blank values are ignored.
func (e *Event) Rename(title string) {
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		e.title = trimmed
	}
}

// Describe sets the trimmed description. Blank values are ignored.
func (e *Event) Describe(description string) {
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		e.description = trimmed
	}
}

// Reschedule replaces the whole date range. The zero range is ignored.
func (e *Event) Reschedule(when EventDateTime) {
	if when.IsZero() {
		return
	}
	e.when = when
}

// AddTask attaches a task and reports whether the association was created.
func (e *Event) AddTask(taskID int64) bool {
	if taskID == 0 || e.hasTask(taskID) {
		return false
	}
	e.tasks = append(e.tasks, EventTask{taskID: taskID})
	return true
}

// RemoveTask detaches a task and reports whether it was attached.
func (e *Event) RemoveTask(taskID int64) bool {
	idx := slices.IndexFunc(e.tasks, func(t EventTask) bool { return t.taskID == taskID })
	if idx < 0 {
		return false
	}
	e.tasks = slices.Delete(e.tasks, idx, idx+1)
	return true
}

// ReplaceTasks reconciles the associations against desired, applying
// removals before additions. It returns the computed delta.
func (e *Event) ReplaceTasks(desired []int64) (added, removed []int64) {
	added, removed = Reconcile(e.TaskIDs(), desired)
	for _, id := range removed {
		e.RemoveTask(id)
	}
	for _, id := range added {
		e.AddTask(id)
	}
	return added, removed
}

// Touch records a modification at now, setting the creation time on first use.
func (e *Event) Touch(now time.Time) {
	if e.createdAt.IsZero() {
		e.createdAt = now
	}
	e.updatedAt = now
}

// MarkPersisted records the identity and bookkeeping assigned by storage.
func (e *Event) MarkPersisted(id, version int64, createdAt, updatedAt time.Time) {
	e.id = id
	e.version = version
	e.createdAt = createdAt
	e.updatedAt = updatedAt
}

func (e *Event) hasTask(taskID int64) bool {
	return slices.ContainsFunc(e.tasks, func(t EventTask) bool { return t.taskID == taskID })
}
