// Package calendar renders calendar windows as iCalendar documents.
package calendar

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ProductID identifies this service in exported documents.
const ProductID = "-//planner//calendar export//EN"

// Event is the subset of an event carried into an export.
type Event struct {
	ID          int64
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	IsAllDay    bool
}

// UID returns the stable iCalendar identifier for an event id.
func UID(id int64) string {
	return fmt.Sprintf("event-%d@planner", id)
}

// EncodeICS writes events as a PUBLISH calendar. All-day events carry DATE
// values with DTEND as the exclusive end day; timed events are written in UTC.
// now stamps every VEVENT.
func EncodeICS(w io.Writer, name string, events []Event, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		vevent := cal.AddEvent(UID(ev.ID))
		vevent.SetDtStampTime(now.UTC())
		if ev.IsAllDay {
			vevent.SetAllDayStartAt(ev.Start.UTC())
			vevent.SetAllDayEndAt(ev.End.UTC())
		} else {
			vevent.SetStartAt(ev.Start)
			vevent.SetEndAt(ev.End)
		}
		vevent.SetSummary(ev.Title)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to serialise calendar: %w", err)
	}
	return nil
}
