package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/planner/internal/scheduler"
)

func TestEventMapper(t *testing.T) {
	t.Parallel()

	when, err := scheduler.NewEventDateTime(ts(1, 0, 0), ts(2, 0, 0), true)
	require.NoError(t, err)

	var mapper EventMapper
	event := mapper.ToEntity(CreateEventRequest{
		EventListID: 4,
		Title:       " Holiday ",
		Description: " off ",
		TaskIDs:     []int64{3, 3, 5},
	}, when)

	resp := mapper.ToResponse(event)
	assert.Equal(t, EventResponse{
		EventListID: 4,
		Title:       "Holiday",
		StartDate:   ts(1, 0, 0),
		EndDate:     ts(2, 0, 0),
		IsAllDay:    true,
		Description: "off",
		TaskIDs:     []int64{3, 5},
	}, resp)

	assert.Equal(t, []int64{}, mapper.ToResponse(nil).TaskIDs)
}

func TestCloneResponses(t *testing.T) {
	t.Parallel()

	original := []EventResponse{{ID: 1, TaskIDs: []int64{1}}}
	clone := cloneResponses(original)
	clone[0].TaskIDs[0] = 9

	assert.Equal(t, int64(1), original[0].TaskIDs[0])
	assert.Nil(t, cloneResponses(nil))
}
