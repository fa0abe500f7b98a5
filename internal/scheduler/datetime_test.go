package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func TestNewEventDateTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		allDay  bool
		wantErr error
	}{
		{name: "timed range", start: at(1, 10, 0), end: at(1, 10, 30)},
		{name: "zero length range", start: at(1, 10, 0), end: at(1, 10, 0)},
		{name: "missing start", end: at(1, 10, 0), wantErr: ErrMissingDate},
		{name: "missing end", start: at(1, 10, 0), wantErr: ErrMissingDate},
		{name: "missing both all-day", allDay: true, wantErr: ErrMissingDate},
		{name: "end before start", start: at(1, 10, 0), end: at(1, 9, 0), wantErr: ErrInvalidRange},
		{name: "end before start all-day", start: at(2, 0, 0), end: at(1, 0, 0), allDay: true, wantErr: ErrInvalidRange},
		{name: "all-day single day", start: at(1, 0, 0), end: at(2, 0, 0), allDay: true},
		{name: "all-day multi day", start: at(1, 0, 0), end: at(5, 0, 0), allDay: true},
		{name: "all-day start not midnight", start: at(1, 1, 0), end: at(2, 0, 0), allDay: true, wantErr: ErrInvalidAllDayRange},
		{name: "all-day end not midnight", start: at(1, 0, 0), end: at(2, 0, 1), allDay: true, wantErr: ErrInvalidAllDayRange},
		{name: "all-day same day", start: at(1, 0, 0), end: at(1, 0, 0), allDay: true, wantErr: ErrInvalidAllDayRange},
		{name: "all-day nanosecond offset", start: at(1, 0, 0).Add(time.Nanosecond), end: at(3, 0, 0), allDay: true, wantErr: ErrInvalidAllDayRange},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewEventDateTime(tc.start, tc.end, tc.allDay)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Start().Equal(tc.start))
			assert.True(t, got.End().Equal(tc.end))
			assert.Equal(t, tc.allDay, got.IsAllDay())
			assert.False(t, got.IsZero())
		})
	}
}

func TestNewEventDateTime_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	base := at(1, 0, 0)

	for i := 0; i < 500; i++ {
		start := base.Add(time.Duration(rng.Int63n(int64(90 * 24 * time.Hour))))
		end := start.Add(time.Duration(rng.Int63n(int64(72*time.Hour))) - 36*time.Hour)

		timed, err := NewEventDateTime(start, end, false)
		if end.Before(start) {
			require.ErrorIs(t, err, ErrInvalidRange)
			_, allDayErr := NewEventDateTime(start, end, true)
			require.ErrorIs(t, allDayErr, ErrInvalidRange)
			continue
		}
		require.NoError(t, err)
		require.True(t, timed.Start().Equal(start))
		require.True(t, timed.End().Equal(end))
		require.False(t, timed.IsAllDay())
	}

	for i := 0; i < 200; i++ {
		startDay := base.AddDate(0, 0, rng.Intn(60))
		span := rng.Intn(4)
		endDay := startDay.AddDate(0, 0, span)
		shift := time.Duration(rng.Intn(3)) * time.Hour

		start, end := startDay, endDay.Add(shift)
		_, err := NewEventDateTime(start, end, true)
		if span >= 1 && shift == 0 {
			require.NoError(t, err, "start=%s end=%s", start, end)
		} else {
			require.ErrorIs(t, err, ErrInvalidAllDayRange, "start=%s end=%s", start, end)
		}
	}
}

func TestEventDateTime_Equal(t *testing.T) {
	t.Parallel()

	a, err := NewEventDateTime(at(1, 0, 0), at(2, 0, 0), true)
	require.NoError(t, err)
	b, err := NewEventDateTime(at(1, 0, 0), at(2, 0, 0), false)
	require.NoError(t, err)

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}
