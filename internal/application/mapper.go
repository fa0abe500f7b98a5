package application

import "github.com/example/planner/internal/scheduler"

// EventMapper translates between request/response shapes and the Event aggregate.
type EventMapper struct{}

// ToEntity builds an unsaved event from a create request and its validated
// date range. Repeated task ids are attached once.
func (EventMapper) ToEntity(req CreateEventRequest, when scheduler.EventDateTime) *scheduler.Event {
	event := scheduler.NewEvent(req.EventListID, req.Title, req.Description, when)
	for _, id := range req.TaskIDs {
		event.AddTask(id)
	}
	return event
}

// ToResponse flattens an event into its outbound shape.
func (EventMapper) ToResponse(event *scheduler.Event) EventResponse {
	if event == nil {
		return EventResponse{TaskIDs: []int64{}}
	}
	when := event.DateTime()
	return EventResponse{
		ID:          event.ID(),
		EventListID: event.EventListID(),
		Title:       event.Title(),
		StartDate:   when.Start(),
		EndDate:     when.End(),
		IsAllDay:    when.IsAllDay(),
		Description: event.Description(),
		TaskIDs:     event.TaskIDs(),
	}
}

func cloneResponses(in []EventResponse) []EventResponse {
	if in == nil {
		return nil
	}
	out := make([]EventResponse, len(in))
	for i, r := range in {
		r.TaskIDs = append([]int64{}, r.TaskIDs...)
		out[i] = r
	}
	return out
}
