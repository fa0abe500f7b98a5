package main

import (
	"context"
	"time"

	"github.com/example/planner/internal/application"
	"github.com/example/planner/internal/persistence"
	"github.com/example/planner/internal/scheduler"
)

type eventListDirectoryAdapter struct {
	repo persistence.EventListRepository
}

func newEventListDirectoryAdapter(repo persistence.EventListRepository) *eventListDirectoryAdapter {
	return &eventListDirectoryAdapter{repo: repo}
}

func (a *eventListDirectoryAdapter) FindEventList(ctx context.Context, id int64) (application.EventList, error) {
	stored, err := a.repo.GetEventList(ctx, id)
	if err != nil {
		return application.EventList{}, err
	}
	return application.EventList{
		ID:        stored.ID,
		UserID:    stored.UserID,
		Name:      stored.Name,
		Color:     stored.Color,
		IsDefault: stored.IsDefault,
	}, nil
}

type taskDirectoryAdapter struct {
	repo persistence.TaskRepository
}

func newTaskDirectoryAdapter(repo persistence.TaskRepository) *taskDirectoryAdapter {
	return &taskDirectoryAdapter{repo: repo}
}

func (a *taskDirectoryAdapter) FindTask(ctx context.Context, id int64) (application.Task, error) {
	stored, err := a.repo.GetTask(ctx, id)
	if err != nil {
		return application.Task{}, err
	}
	return application.Task{
		ID:         stored.ID,
		TaskListID: stored.TaskListID,
		OwnerID:    stored.OwnerID,
		Title:      stored.Title,
		Status:     application.TaskStatus(stored.Status),
	}, nil
}

// eventRepositoryAdapter stores scheduler aggregates through the persistence
// event repository. Unsaved events (ID zero) are inserted, others updated
// under their version.
type eventRepositoryAdapter struct {
	repo persistence.EventRepository
}

func newEventRepositoryAdapter(repo persistence.EventRepository) *eventRepositoryAdapter {
	return &eventRepositoryAdapter{repo: repo}
}

func (a *eventRepositoryAdapter) FindEvent(ctx context.Context, id int64) (application.OwnedEvent, error) {
	stored, err := a.repo.GetEvent(ctx, id)
	if err != nil {
		return application.OwnedEvent{}, err
	}
	return application.OwnedEvent{Event: toSchedulerEvent(stored), OwnerID: stored.OwnerID}, nil
}

func (a *eventRepositoryAdapter) SaveEvent(ctx context.Context, event *scheduler.Event) (*scheduler.Event, error) {
	model := toPersistenceEvent(event)

	var (
		stored persistence.Event
		err    error
	)
	if model.ID == 0 {
		stored, err = a.repo.CreateEvent(ctx, model)
	} else {
		stored, err = a.repo.UpdateEvent(ctx, model)
	}
	if err != nil {
		return nil, err
	}
	return toSchedulerEvent(stored), nil
}

func (a *eventRepositoryAdapter) DeleteEvent(ctx context.Context, id, version int64) error {
	return a.repo.DeleteEvent(ctx, id, version)
}

func (a *eventRepositoryAdapter) ListEventsInRange(ctx context.Context, userID string, from, to time.Time) ([]*scheduler.Event, error) {
	stored, err := a.repo.ListEventsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	events := make([]*scheduler.Event, 0, len(stored))
	for _, model := range stored {
		events = append(events, toSchedulerEvent(model))
	}
	return events, nil
}

func toSchedulerEvent(model persistence.Event) *scheduler.Event {
	tasks := make([]scheduler.EventTaskSnapshot, 0, len(model.Tasks))
	for _, t := range model.Tasks {
		tasks = append(tasks, scheduler.EventTaskSnapshot{ID: t.ID, TaskID: t.TaskID})
	}
	var description string
	if model.Description != nil {
		description = *model.Description
	}
	return scheduler.RestoreEvent(scheduler.EventSnapshot{
		ID:          model.ID,
		EventListID: model.EventListID,
		Title:       model.Title,
		Description: description,
		Start:       model.Start,
		End:         model.End,
		IsAllDay:    model.IsAllDay,
		Tasks:       tasks,
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}

func toPersistenceEvent(event *scheduler.Event) persistence.Event {
	snap := event.Snapshot()
	tasks := make([]persistence.EventTask, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		tasks = append(tasks, persistence.EventTask{ID: t.ID, TaskID: t.TaskID})
	}
	var description *string
	if snap.Description != "" {
		description = &snap.Description
	}
	return persistence.Event{
		ID:          snap.ID,
		EventListID: snap.EventListID,
		Title:       snap.Title,
		Description: description,
		Start:       snap.Start,
		End:         snap.End,
		IsAllDay:    snap.IsAllDay,
		Tasks:       tasks,
		Version:     snap.Version,
		CreatedAt:   snap.CreatedAt,
		UpdatedAt:   snap.UpdatedAt,
	}
}
