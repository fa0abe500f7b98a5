package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeICS(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{
			ID:    1,
			Title: "Standup",
			Start: time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2024, time.January, 15, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Title:       "Offsite",
			Description: "bring laptop",
			Start:       time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC),
			End:         time.Date(2024, time.January, 18, 0, 0, 0, 0, time.UTC),
			IsAllDay:    true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeICS(&buf, "Work", events, now))

	raw := buf.String()
	assert.Contains(t, raw, "METHOD:PUBLISH")
	assert.Contains(t, raw, "X-WR-CALNAME:Work")
	assert.Contains(t, raw, "DTSTART;VALUE=DATE:20240116")
	assert.Contains(t, raw, "DTEND;VALUE=DATE:20240118")
	assert.Contains(t, raw, "DTSTART:20240115T090000Z")

	cal, err := ics.ParseCalendar(strings.NewReader(raw))
	require.NoError(t, err)
	parsed := cal.Events()
	require.Len(t, parsed, 2)

	assert.Equal(t, "event-1@planner", parsed[0].Id())
	assert.Equal(t, "Standup", parsed[0].GetProperty(ics.ComponentPropertySummary).Value)
	start, err := parsed[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(events[0].Start))

	assert.Equal(t, "event-2@planner", parsed[1].Id())
	assert.Equal(t, "bring laptop", parsed[1].GetProperty(ics.ComponentPropertyDescription).Value)
}

func TestEncodeICS_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, EncodeICS(&buf, "", nil, time.Now()))
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.NotContains(t, buf.String(), "BEGIN:VEVENT")
	assert.NotContains(t, buf.String(), "X-WR-CALNAME")
}
