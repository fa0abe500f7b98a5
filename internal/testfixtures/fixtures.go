package testfixtures

import (
	"time"

	"github.com/example/planner/internal/application"
	"github.com/example/planner/internal/persistence"
	"github.com/example/planner/internal/scheduler"
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical timestamp shared by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ----------------------------- User fixtures -----------------------------

// UserFixture describes an account that owns lists.
type UserFixture struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}

type UserOption func(*UserFixture)

func NewUserFixture(opts ...UserOption) UserFixture {
	f := UserFixture{
		ID:          "user-1",
		DisplayName: "Fixture User",
		CreatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

func WithUserDisplayName(name string) UserOption {
	return func(f *UserFixture) { f.DisplayName = name }
}

func (f UserFixture) Persistence() persistence.User {
	return persistence.User{ID: f.ID, DisplayName: f.DisplayName, CreatedAt: f.CreatedAt}
}

// --------------------------- Event list fixtures --------------------------

// EventListFixture describes an event list. ID is only meaningful for
// in-memory use; storage assigns its own.
type EventListFixture struct {
	ID        int64
	UserID    string
	Name      string
	Color     string
	IsDefault bool
	CreatedAt time.Time
}

type EventListOption func(*EventListFixture)

func NewEventListFixture(opts ...EventListOption) EventListFixture {
	f := EventListFixture{
		ID:        1,
		UserID:    "user-1",
		Name:      "Work",
		Color:     "#3366ff",
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func WithEventListID(id int64) EventListOption {
	return func(f *EventListFixture) { f.ID = id }
}

func WithEventListOwner(userID string) EventListOption {
	return func(f *EventListFixture) { f.UserID = userID }
}

func WithEventListName(name string) EventListOption {
	return func(f *EventListFixture) { f.Name = name }
}

func WithDefaultEventList() EventListOption {
	return func(f *EventListFixture) { f.IsDefault = true }
}

func (f EventListFixture) Application() application.EventList {
	return application.EventList{
		ID:        f.ID,
		UserID:    f.UserID,
		Name:      f.Name,
		Color:     f.Color,
		IsDefault: f.IsDefault,
	}
}

func (f EventListFixture) Persistence() persistence.EventList {
	return persistence.EventList{
		ID:        f.ID,
		UserID:    f.UserID,
		Name:      f.Name,
		Color:     f.Color,
		IsDefault: f.IsDefault,
		CreatedAt: f.CreatedAt,
	}
}

// --------------------------- Task list fixtures ---------------------------

type TaskListFixture struct {
	ID        int64
	UserID    string
	Name      string
	Color     string
	CreatedAt time.Time
}

type TaskListOption func(*TaskListFixture)

func NewTaskListFixture(opts ...TaskListOption) TaskListFixture {
	f := TaskListFixture{
		ID:        1,
		UserID:    "user-1",
		Name:      "Inbox",
		Color:     "#999999",
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func WithTaskListID(id int64) TaskListOption {
	return func(f *TaskListFixture) { f.ID = id }
}

func WithTaskListOwner(userID string) TaskListOption {
	return func(f *TaskListFixture) { f.UserID = userID }
}

func (f TaskListFixture) Persistence() persistence.TaskList {
	return persistence.TaskList{
		ID:        f.ID,
		UserID:    f.UserID,
		Name:      f.Name,
		Color:     f.Color,
		CreatedAt: f.CreatedAt,
	}
}

// ------------------------------ Task fixtures -----------------------------

// TaskFixture describes a task. OwnerID mirrors the owner of TaskListID.
type TaskFixture struct {
	ID         int64
	TaskListID int64
	OwnerID    string
	Title      string
	Status     application.TaskStatus
	CreatedAt  time.Time
}

type TaskOption func(*TaskFixture)

func NewTaskFixture(opts ...TaskOption) TaskFixture {
	f := TaskFixture{
		ID:         1,
		TaskListID: 1,
		OwnerID:    "user-1",
		Title:      "Prepare slides",
		Status:     application.TaskStatusNotStarted,
		CreatedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func WithTaskID(id int64) TaskOption {
	return func(f *TaskFixture) { f.ID = id }
}

// WithTaskList places the task in a list owned by ownerID.
func WithTaskList(taskListID int64, ownerID string) TaskOption {
	return func(f *TaskFixture) {
		f.TaskListID = taskListID
		f.OwnerID = ownerID
	}
}

func WithTaskTitle(title string) TaskOption {
	return func(f *TaskFixture) { f.Title = title }
}

func WithTaskStatus(status application.TaskStatus) TaskOption {
	return func(f *TaskFixture) { f.Status = status }
}

func (f TaskFixture) Application() application.Task {
	return application.Task{
		ID:         f.ID,
		TaskListID: f.TaskListID,
		OwnerID:    f.OwnerID,
		Title:      f.Title,
		Status:     f.Status,
	}
}

func (f TaskFixture) Persistence() persistence.Task {
	return persistence.Task{
		ID:         f.ID,
		TaskListID: f.TaskListID,
		OwnerID:    f.OwnerID,
		Title:      f.Title,
		Status:     string(f.Status),
		CreatedAt:  f.CreatedAt,
	}
}

// ----------------------------- Event fixtures -----------------------------

// EventFixture describes a stored event. The default is a one hour meeting on
// 2024-01-10 in event list 1 owned by user-1.
type EventFixture struct {
	ID          int64
	EventListID int64
	OwnerID     string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
	TaskIDs     []int64
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EventOption func(*EventFixture)

func NewEventFixture(opts ...EventOption) EventFixture {
	f := EventFixture{
		ID:          1,
		EventListID: 1,
		OwnerID:     "user-1",
		Title:       "Planning meeting",
		Start:       time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC),
		Version:     1,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func WithEventID(id int64) EventOption {
	return func(f *EventFixture) { f.ID = id }
}

// WithEventList moves the event into a list owned by ownerID.
func WithEventList(eventListID int64, ownerID string) EventOption {
	return func(f *EventFixture) {
		f.EventListID = eventListID
		f.OwnerID = ownerID
	}
}

func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) { f.Title = title }
}

func WithEventDescription(description string) EventOption {
	return func(f *EventFixture) { f.Description = description }
}

func WithEventTimes(start, end time.Time) EventOption {
	return func(f *EventFixture) {
		f.Start = start
		f.End = end
		f.IsAllDay = false
	}
}

// WithAllDayEvent spans whole days from the first to the last date inclusive.
func WithAllDayEvent(first time.Time, days int) EventOption {
	return func(f *EventFixture) {
		start := Day(first.Year(), first.Month(), first.Day())
		f.Start = start
		f.End = start.AddDate(0, 0, days)
		f.IsAllDay = true
	}
}

func WithEventTasks(taskIDs ...int64) EventOption {
	return func(f *EventFixture) { f.TaskIDs = append([]int64(nil), taskIDs...) }
}

func WithEventVersion(version int64) EventOption {
	return func(f *EventFixture) { f.Version = version }
}

// Scheduler returns the event as a restored aggregate. Association rows get
// synthetic identifiers unless the event itself is unsaved.
func (f EventFixture) Scheduler() *scheduler.Event {
	tasks := make([]scheduler.EventTaskSnapshot, 0, len(f.TaskIDs))
	for i, id := range f.TaskIDs {
		var rowID int64
		if f.ID != 0 {
			rowID = f.ID*100 + int64(i) + 1
		}
		tasks = append(tasks, scheduler.EventTaskSnapshot{ID: rowID, TaskID: id})
	}
	return scheduler.RestoreEvent(scheduler.EventSnapshot{
		ID:          f.ID,
		EventListID: f.EventListID,
		Title:       f.Title,
		Description: f.Description,
		Start:       f.Start,
		End:         f.End,
		IsAllDay:    f.IsAllDay,
		Tasks:       tasks,
		Version:     f.Version,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	})
}

func (f EventFixture) Owned() application.OwnedEvent {
	return application.OwnedEvent{Event: f.Scheduler(), OwnerID: f.OwnerID}
}

// Persistence returns the stored form. Association row identifiers are left
// for storage to assign.
func (f EventFixture) Persistence() persistence.Event {
	var description *string
	if f.Description != "" {
		d := f.Description
		description = &d
	}
	tasks := make([]persistence.EventTask, 0, len(f.TaskIDs))
	for _, id := range f.TaskIDs {
		tasks = append(tasks, persistence.EventTask{TaskID: id})
	}
	return persistence.Event{
		ID:          f.ID,
		EventListID: f.EventListID,
		OwnerID:     f.OwnerID,
		Title:       f.Title,
		Description: description,
		Start:       f.Start,
		End:         f.End,
		IsAllDay:    f.IsAllDay,
		Tasks:       tasks,
		Version:     f.Version,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// CreateRequest returns the request that would create this event.
func (f EventFixture) CreateRequest() application.CreateEventRequest {
	return application.CreateEventRequest{
		EventListID: f.EventListID,
		Title:       f.Title,
		StartDate:   f.Start,
		EndDate:     f.End,
		IsAllDay:    f.IsAllDay,
		Description: f.Description,
		TaskIDs:     append([]int64(nil), f.TaskIDs...),
	}
}
