package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planner/internal/application"
	"github.com/example/planner/internal/scheduler"
)

type singleListRepo struct {
	list application.EventList
}

func (r singleListRepo) FindEventList(ctx context.Context, id int64) (application.EventList, error) {
	if id != r.list.ID {
		return application.EventList{}, application.ErrNotFound
	}
	return r.list, nil
}

type capturingEventRepo struct {
	saved *scheduler.Event
}

func (r *capturingEventRepo) FindEvent(ctx context.Context, id int64) (application.OwnedEvent, error) {
	return application.OwnedEvent{}, application.ErrNotFound
}

func (r *capturingEventRepo) SaveEvent(ctx context.Context, event *scheduler.Event) (*scheduler.Event, error) {
	event.MarkPersisted(7, 1, event.CreatedAt(), event.UpdatedAt())
	r.saved = event
	return event, nil
}

func (r *capturingEventRepo) DeleteEvent(ctx context.Context, id, version int64) error {
	return nil
}

func (r *capturingEventRepo) ListEventsInRange(ctx context.Context, userID string, from, to time.Time) ([]*scheduler.Event, error) {
	return nil, nil
}

type noTasks struct{}

func (noTasks) FindTask(ctx context.Context, id int64) (application.Task, error) {
	return application.Task{}, application.ErrNotFound
}

func TestServiceFactoryNewEventServiceUsesClock(t *testing.T) {
	factory := NewServiceFactory()
	list := NewEventListFixture()
	events := &capturingEventRepo{}

	svc := factory.NewEventService(EventServiceDeps{
		EventLists: singleListRepo{list: list.Application()},
		Events:     events,
		Tasks:      noTasks{},
	})

	fixture := NewEventFixture()
	resp, err := svc.CreateEvent(context.Background(), list.UserID, fixture.CreateRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ID)
	require.NotNil(t, events.saved)
	assert.Equal(t, factory.Clock.Current(), events.saved.CreatedAt())
	assert.Equal(t, fixture.Start, resp.StartDate)
}

func TestSQLiteHarnessSeedsRelatedRecords(t *testing.T) {
	h := NewSQLiteHarness(t)
	user := h.SeedUser(NewUserFixture())
	list := h.SeedEventList(NewEventListFixture(WithEventListOwner(user.ID)))
	taskList := h.SeedTaskList(NewTaskListFixture(WithTaskListOwner(user.ID)))
	task := h.SeedTask(NewTaskFixture(WithTaskList(taskList.ID, user.ID)))

	event := h.SeedEvent(NewEventFixture(
		WithEventList(list.ID, user.ID),
		WithAllDayEvent(Day(2024, time.February, 1), 2),
		WithEventTasks(task.ID),
	))

	assert.NotZero(t, event.ID)
	assert.Equal(t, int64(1), event.Version)
	assert.Equal(t, user.ID, event.OwnerID)
	assert.True(t, event.IsAllDay)
	assert.Equal(t, Day(2024, time.February, 3), event.End)
	assert.Equal(t, []int64{task.ID}, event.TaskIDs())
}
