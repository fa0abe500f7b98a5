package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/planner/internal/persistence"
	"github.com/example/planner/internal/scheduler"
)

// EventListRepository resolves event lists.
type EventListRepository interface {
	FindEventList(ctx context.Context, id int64) (EventList, error)
}

// EventRepository captures the persistence interactions needed for events.
// SaveEvent inserts events without an identity and otherwise updates them,
// failing when the stored version no longer matches.
type EventRepository interface {
	FindEvent(ctx context.Context, id int64) (OwnedEvent, error)
	SaveEvent(ctx context.Context, event *scheduler.Event) (*scheduler.Event, error)
	DeleteEvent(ctx context.Context, id, version int64) error
	ListEventsInRange(ctx context.Context, userID string, from, to time.Time) ([]*scheduler.Event, error)
}

// TaskRepository resolves tasks together with the user owning their task list.
type TaskRepository interface {
	FindTask(ctx context.Context, id int64) (Task, error)
}

// EventServiceOptions tunes optional behaviour of the event service.
//
// AfterTransaction, when set, runs fn once the transaction carried by ctx has
// ended, or immediately when ctx carries none. Writes use it to purge the
// calendar cache again after commit.
type EventServiceOptions struct {
	CalendarCacheTTL  time.Duration
	CalendarCacheSize int
	AfterTransaction  func(ctx context.Context, fn func())
	Logger            *slog.Logger
}

// EventService orchestrates ownership checks, validation and persistence for events.
type EventService struct {
	eventLists EventListRepository
	events     EventRepository
	tasks      TaskRepository
	mapper     EventMapper
	cache      *calendarCache
	afterTx    func(ctx context.Context, fn func())
	now        func() time.Time
	logger     *slog.Logger
}

// NewEventService wires dependencies for event operations.
func NewEventService(eventLists EventListRepository, events EventRepository, tasks TaskRepository, now func() time.Time) *EventService {
	return NewEventServiceWithOptions(eventLists, events, tasks, now, EventServiceOptions{})
}

// NewEventServiceWithOptions wires dependencies with explicit cache and logger settings.
func NewEventServiceWithOptions(eventLists EventListRepository, events EventRepository, tasks TaskRepository, now func() time.Time, opts EventServiceOptions) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{
		eventLists: eventLists,
		events:     events,
		tasks:      tasks,
		cache:      newCalendarCache(opts.CalendarCacheTTL, opts.CalendarCacheSize),
		afterTx:    opts.AfterTransaction,
		now:        now,
		logger:     defaultLogger(opts.Logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

func (s *EventService) configured() error {
	if s.eventLists == nil || s.events == nil || s.tasks == nil {
		return fmt.Errorf("event repositories not configured")
	}
	return nil
}

// CreateEvent validates the request, verifies ownership of the event list and
// every referenced task, and persists the new event.
func (s *EventService) CreateEvent(ctx context.Context, requesterID string, req CreateEventRequest) (resp EventResponse, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateEvent",
		"user_id", requesterID,
		"event_list_id", req.EventListID,
	)
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "failed to create event", err)
			return
		}
		logger.With("event_id", resp.ID, "task_count", len(resp.TaskIDs)).InfoContext(ctx, "event created")
	}()

	if err = s.configured(); err != nil {
		return
	}

	if vErr := validateCreateRequest(req); vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = resolveOwned(ctx, s.eventLists.FindEventList, eventListOwner, ResourceEventList, req.EventListID, requesterID); err != nil {
		return
	}

	if err = s.verifyTasks(ctx, requesterID, req.TaskIDs); err != nil {
		return
	}

	when, dErr := scheduler.NewEventDateTime(req.StartDate, req.EndDate, req.IsAllDay)
	if dErr != nil {
		err = dateTimeValidationError(dErr, req.StartDate, req.EndDate)
		return
	}

	event := s.mapper.ToEntity(req, when)
	event.Touch(s.now())

	saved, sErr := s.events.SaveEvent(ctx, event)
	if sErr != nil {
		err = mapEventRepoError(sErr)
		return
	}
	s.purgeCalendar(ctx)

	resp = s.mapper.ToResponse(saved)
	return
}

// GetEvent returns the event when it belongs to the requester.
func (s *EventService) GetEvent(ctx context.Context, requesterID string, eventID int64) (resp EventResponse, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetEvent", "user_id", requesterID, "event_id", eventID)
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "failed to get event", err)
		}
	}()

	if err = s.configured(); err != nil {
		return
	}

	owned, rErr := resolveOwned(ctx, s.events.FindEvent, eventOwner, ResourceEvent, eventID, requesterID)
	if rErr != nil {
		err = rErr
		return
	}

	resp = s.mapper.ToResponse(owned.Event)
	return
}

// UpdateEvent applies a partial update. Every lookup, ownership check and
// validation runs before the aggregate is touched, so a failure leaves the
// stored event unchanged.
func (s *EventService) UpdateEvent(ctx context.Context, requesterID string, eventID int64, req UpdateEventRequest) (resp EventResponse, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEvent", "user_id", requesterID, "event_id", eventID)
	var added, removed []int64
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "failed to update event", err)
			return
		}
		logger.With("tasks_added", len(added), "tasks_removed", len(removed)).InfoContext(ctx, "event updated")
	}()

	if err = s.configured(); err != nil {
		return
	}

	owned, rErr := resolveOwned(ctx, s.events.FindEvent, eventOwner, ResourceEvent, eventID, requesterID)
	if rErr != nil {
		err = rErr
		return
	}
	event := owned.Event

	listID, changeList := req.EventListID.Get()
	if changeList {
		if listID <= 0 {
			vErr := &ValidationError{}
			vErr.add("event_list_id", "event list id must be positive")
			err = vErr
			return
		}
		if _, err = resolveOwned(ctx, s.eventLists.FindEventList, eventListOwner, ResourceEventList, listID, requesterID); err != nil {
			return
		}
	}

	var when scheduler.EventDateTime
	if req.touchesDateTime() {
		start, _ := req.StartDate.Get()
		end, _ := req.EndDate.Get()
		var dErr error
		when, dErr = scheduler.NewEventDateTime(start, end, req.IsAllDay.OrElse(false))
		if dErr != nil {
			err = dateTimeValidationError(dErr, start, end)
			return
		}
	}

	desired, replaceTasks := req.TaskIDs.Get()
	if replaceTasks {
		if err = s.verifyTasks(ctx, requesterID, desired); err != nil {
			return
		}
	}

	if changeList {
		event.ChangeEventList(listID)
	}
	if title, ok := req.Title.Get(); ok {
		event.Rename(title)
	}
	if description, ok := req.Description.Get(); ok {
		event.Describe(description)
	}
	event.Reschedule(when)
	if replaceTasks {
		added, removed = event.ReplaceTasks(desired)
	}
	event.Touch(s.now())

	saved, sErr := s.events.SaveEvent(ctx, event)
	if sErr != nil {
		err = mapEventRepoError(sErr)
		return
	}
	s.purgeCalendar(ctx)

	resp = s.mapper.ToResponse(saved)
	return
}

// DeleteEvent removes an owned event together with its task associations.
func (s *EventService) DeleteEvent(ctx context.Context, requesterID string, eventID int64) (err error) {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteEvent", "user_id", requesterID, "event_id", eventID)
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "failed to delete event", err)
			return
		}
		logger.InfoContext(ctx, "event deleted")
	}()

	if err = s.configured(); err != nil {
		return
	}

	owned, rErr := resolveOwned(ctx, s.events.FindEvent, eventOwner, ResourceEvent, eventID, requesterID)
	if rErr != nil {
		return rErr
	}

	if dErr := s.events.DeleteEvent(ctx, eventID, owned.Event.Version()); dErr != nil {
		if isNotFoundError(dErr) {
			return notFound(ResourceEvent, eventID, requesterID)
		}
		return mapEventRepoError(dErr)
	}
	s.purgeCalendar(ctx)
	return nil
}

// ListCalendarEvents returns the requester's events overlapping the inclusive
// range, ordered by start and then id.
func (s *EventService) ListCalendarEvents(ctx context.Context, requesterID string, window CalendarRange) (events []EventResponse, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ListCalendarEvents", "user_id", requesterID)
	defer func() {
		if err != nil {
			logFailure(ctx, logger, "failed to list calendar events", err)
			return
		}
		logger.With("result_count", len(events)).DebugContext(ctx, "calendar events listed")
	}()

	if err = s.configured(); err != nil {
		return
	}

	if vErr := validateCalendarRange(window); vErr.HasErrors() {
		err = vErr
		return
	}

	key := buildCalendarCacheKey(requesterID, window)
	if cached, ok := s.cache.Get(key); ok {
		events = cached
		return
	}

	generation := s.cache.Generation()
	found, lErr := s.events.ListEventsInRange(ctx, requesterID, window.From, window.To)
	if lErr != nil {
		if isNotFoundError(lErr) {
			events = []EventResponse{}
			return
		}
		err = lErr
		return
	}

	ordered := make([]*scheduler.Event, len(found))
	copy(ordered, found)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].DateTime().Start(), ordered[j].DateTime().Start()
		if a.Equal(b) {
			return ordered[i].ID() < ordered[j].ID()
		}
		return a.Before(b)
	})

	events = make([]EventResponse, 0, len(ordered))
	for _, event := range ordered {
		events = append(events, s.mapper.ToResponse(event))
	}
	s.cache.Store(key, events, generation)
	return
}

// purgeCalendar drops cached listings now and again once the surrounding
// transaction ends; listings read while it was open may hold either state.
func (s *EventService) purgeCalendar(ctx context.Context) {
	s.cache.Invalidate()
	if s.afterTx != nil {
		s.afterTx(ctx, s.cache.Invalidate)
	}
}

// verifyTasks resolves each task in order and stops at the first failure.
func (s *EventService) verifyTasks(ctx context.Context, requesterID string, ids []int64) error {
	for _, id := range ids {
		if _, err := resolveOwned(ctx, s.tasks.FindTask, taskOwner, ResourceTask, id, requesterID); err != nil {
			return err
		}
	}
	return nil
}

func validateCreateRequest(req CreateEventRequest) *ValidationError {
	vErr := &ValidationError{}
	if req.EventListID <= 0 {
		vErr.add("event_list_id", "event list id is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		vErr.add("title", "title is required")
	}
	return vErr
}

func validateCalendarRange(window CalendarRange) *ValidationError {
	vErr := &ValidationError{}
	if window.From.IsZero() {
		vErr.add("from", "from is required")
	}
	if window.To.IsZero() {
		vErr.add("to", "to is required")
	}
	if !window.From.IsZero() && !window.To.IsZero() && window.From.After(window.To) {
		vErr.add("from", "from must not be after to")
	}
	return vErr
}

func dateTimeValidationError(err error, start, end time.Time) *ValidationError {
	vErr := &ValidationError{cause: err}
	switch {
	case errors.Is(err, scheduler.ErrMissingDate):
		if start.IsZero() {
			vErr.add("start_date", "start date is required")
		}
		if end.IsZero() {
			vErr.add("end_date", "end date is required")
		}
	case errors.Is(err, scheduler.ErrInvalidRange):
		vErr.add("end_date", "end date must not be before start date")
	case errors.Is(err, scheduler.ErrInvalidAllDayRange):
		vErr.add("is_all_day", "all-day events must start and end at midnight and span at least one day")
	default:
		vErr.add("date", err.Error())
	}
	return vErr
}

func mapEventRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, persistence.ErrConflict):
		return fmt.Errorf("%w: event was modified concurrently", ErrConflict)
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return fmt.Errorf("%w: referenced records changed", ErrConflict)
	case errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: duplicate task association", ErrConflict)
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
