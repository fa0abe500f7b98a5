package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/planner/internal/application"
)

// dateTimeLayout is the wire format for event instants. Values are UTC.
const dateTimeLayout = "2006-01-02T15:04:05"

var acceptedLayouts = []string{
	dateTimeLayout,
	"2006-01-02T15:04",
	time.RFC3339,
}

// errFractionalSeconds rejects instants finer than the stored precision.
var errFractionalSeconds = errors.New("fractional seconds are not supported")

// parseDateTime accepts zone-less values as UTC and converts zoned values to UTC.
func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range acceptedLayouts {
		ts, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if ts.Nanosecond() != 0 {
			return time.Time{}, errFractionalSeconds
		}
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q", value)
}

func dateTimeProblem(err error) string {
	if errors.Is(err, errFractionalSeconds) {
		return "must be whole seconds"
	}
	return "must look like 2024-04-01T10:00:00"
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}

// field tracks whether a JSON member was present. An explicit null counts as
// absent.
type field[T any] struct {
	value T
	set   bool
}

func (f *field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.value, f.set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.set = true
	return nil
}

func (f field[T]) optional() application.Optional[T] {
	if !f.set {
		return application.None[T]()
	}
	return application.Some(f.value)
}

type createEventRequest struct {
	EventListID int64   `json:"event_list_id" binding:"required,gt=0"`
	Title       string  `json:"title" binding:"required,max=255"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	IsAllDay    *bool   `json:"is_all_day"`
	Description string  `json:"description" binding:"max=4000"`
	TaskIDs     []int64 `json:"task_ids"`
}

func (r createEventRequest) toApplication() (application.CreateEventRequest, map[string]string) {
	fields := map[string]string{}
	start, err := parseDateTime(r.StartDate)
	if err != nil {
		fields["start_date"] = dateTimeProblem(err)
	}
	end, err := parseDateTime(r.EndDate)
	if err != nil {
		fields["end_date"] = dateTimeProblem(err)
	}

	return application.CreateEventRequest{
		EventListID: r.EventListID,
		Title:       r.Title,
		StartDate:   start,
		EndDate:     end,
		IsAllDay:    r.IsAllDay != nil && *r.IsAllDay,
		Description: r.Description,
		TaskIDs:     append([]int64(nil), r.TaskIDs...),
	}, fields
}

type updateEventRequest struct {
	EventListID field[int64]   `json:"event_list_id"`
	Title       field[string]  `json:"title"`
	StartDate   field[string]  `json:"start_date"`
	EndDate     field[string]  `json:"end_date"`
	IsAllDay    field[bool]    `json:"is_all_day"`
	Description field[string]  `json:"description"`
	TaskIDs     field[[]int64] `json:"task_ids"`
}

func (r updateEventRequest) toApplication() (application.UpdateEventRequest, map[string]string) {
	fields := map[string]string{}
	req := application.UpdateEventRequest{
		EventListID: r.EventListID.optional(),
		Title:       r.Title.optional(),
		IsAllDay:    r.IsAllDay.optional(),
		Description: r.Description.optional(),
		TaskIDs:     r.TaskIDs.optional(),
	}

	if r.StartDate.set {
		start, err := parseDateTime(r.StartDate.value)
		if err != nil {
			fields["start_date"] = dateTimeProblem(err)
		} else {
			req.StartDate = application.Some(start)
		}
	}
	if r.EndDate.set {
		end, err := parseDateTime(r.EndDate.value)
		if err != nil {
			fields["end_date"] = dateTimeProblem(err)
		} else {
			req.EndDate = application.Some(end)
		}
	}
	return req, fields
}

type eventDTO struct {
	ID          int64   `json:"id"`
	EventListID int64   `json:"event_list_id"`
	Title       string  `json:"title"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	IsAllDay    bool    `json:"is_all_day"`
	Description string  `json:"description"`
	TaskIDs     []int64 `json:"task_ids"`
}

func toEventDTO(resp application.EventResponse) eventDTO {
	taskIDs := resp.TaskIDs
	if taskIDs == nil {
		taskIDs = []int64{}
	}
	return eventDTO{
		ID:          resp.ID,
		EventListID: resp.EventListID,
		Title:       resp.Title,
		StartDate:   formatDateTime(resp.StartDate),
		EndDate:     formatDateTime(resp.EndDate),
		IsAllDay:    resp.IsAllDay,
		Description: resp.Description,
		TaskIDs:     taskIDs,
	}
}

type eventEnvelope struct {
	Event   eventDTO `json:"event"`
	Message string   `json:"message,omitempty"`
}

type calendarDTO struct {
	From   string     `json:"from"`
	To     string     `json:"to"`
	Events []eventDTO `json:"events"`
}
