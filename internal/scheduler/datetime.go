package scheduler

import (
	"errors"
	"time"
)

var (
	// ErrMissingDate is returned when either boundary of a date range is absent.
	ErrMissingDate = errors.New("scheduler: start and end dates are required")
	// ErrInvalidRange is returned when the end precedes the start.
	ErrInvalidRange = errors.New("scheduler: end date must not be before start date")
	// ErrInvalidAllDayRange is returned when an all-day range is not midnight aligned or spans less than a day.
	ErrInvalidAllDayRange = errors.New("scheduler: all-day events must start and end at midnight and span at least one day")
)

// EventDateTime is the validated time range of an event. The zero value
// represents an absent range and is never produced by NewEventDateTime.
type EventDateTime struct {
	start    time.Time
	end      time.Time
	isAllDay bool
}

// NewEventDateTime validates the combination and returns the value object.
func NewEventDateTime(start, end time.Time, isAllDay bool) (EventDateTime, error) {
	if start.IsZero() || end.IsZero() {
		return EventDateTime{}, ErrMissingDate
	}
	if end.Before(start) {
		return EventDateTime{}, ErrInvalidRange
	}
	if isAllDay {
		if !isMidnight(start) || !isMidnight(end) || wholeDaysBetween(start, end) < 1 {
			return EventDateTime{}, ErrInvalidAllDayRange
		}
	}
	return EventDateTime{start: start, end: end, isAllDay: isAllDay}, nil
}

// Start returns the beginning of the range.
func (d EventDateTime) Start() time.Time { return d.start }

// End returns the end of the range.
func (d EventDateTime) End() time.Time { return d.end }

// IsAllDay reports whether the range covers whole calendar days.
func (d EventDateTime) IsAllDay() bool { return d.isAllDay }

// IsZero reports whether the value is the absent range.
func (d EventDateTime) IsZero() bool {
	return d.start.IsZero() && d.end.IsZero()
}

// Equal reports whether both ranges describe the same instants and flag.
func (d EventDateTime) Equal(other EventDateTime) bool {
	return d.start.Equal(other.start) && d.end.Equal(other.end) && d.isAllDay == other.isAllDay
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// wholeDaysBetween counts calendar days between the dates of start and end,
// read in the location of each timestamp.
func wholeDaysBetween(start, end time.Time) int {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
