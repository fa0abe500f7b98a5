package testfixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	assert.True(t, clock.Now().Equal(ReferenceTime()))
}

func TestClockNormalizesToUTCSeconds(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	clock := NewClock(time.Date(2024, time.March, 14, 18, 26, 0, 500, tokyo))

	got := clock.Now()
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC), got)
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	assert.Equal(t, start.Add(90*time.Minute), clock.Advance(90*time.Minute))

	clock.Set(start.Add(2 * time.Hour))
	assert.Equal(t, start.Add(2*time.Hour), clock.Current())
}

func TestTickingClockAdvancesPerReading(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock := NewTickingClock(start, time.Minute)
	nowFn := clock.NowFunc()

	assert.Equal(t, start, nowFn())
	assert.Equal(t, start.Add(time.Minute), nowFn())
	assert.Equal(t, start.Add(2*time.Minute), clock.Current())
}

func TestNilClockFallsBackToWallClock(t *testing.T) {
	var clock *Clock
	before := time.Now()
	got := clock.NowFunc()()
	assert.False(t, got.Before(before))
}
