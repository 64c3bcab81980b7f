package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTod(t *testing.T, raw string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(raw)
	require.NoError(t, err)
	return tod
}

func TestNewIntervalRejectsEmptySpan(t *testing.T) {
	_, err := NewInterval(mustTod(t, "10:00"), mustTod(t, "10:00"), BlockClass, nil)
	assert.Error(t, err)

	_, err = NewInterval(mustTod(t, "11:00"), mustTod(t, "10:00"), BlockClass, nil)
	assert.Error(t, err)

	iv, err := NewInterval(mustTod(t, "10:00"), mustTod(t, "11:00"), BlockAvailable, nil)
	require.NoError(t, err)
	assert.True(t, iv.Available)
	assert.Equal(t, 60, iv.DurationMinutes())
}

func TestIntervalContainsHalfOpen(t *testing.T) {
	iv, err := NewInterval(mustTod(t, "10:00"), mustTod(t, "11:00"), BlockClass, nil)
	require.NoError(t, err)

	assert.True(t, iv.Contains(mustTod(t, "10:00")))
	assert.True(t, iv.Contains(mustTod(t, "10:59")))
	assert.False(t, iv.Contains(mustTod(t, "11:00")))
	assert.False(t, iv.Contains(mustTod(t, "09:59")))
}

func TestNewRoomScheduleSortsAndRejectsOverlap(t *testing.T) {
	second, err := NewInterval(mustTod(t, "11:00"), mustTod(t, "12:00"), BlockClass, nil)
	require.NoError(t, err)
	first, err := NewInterval(mustTod(t, "09:00"), mustTod(t, "10:00"), BlockClass, nil)
	require.NoError(t, err)

	schedule, err := NewRoomSchedule([]Interval{second, first})
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", schedule.Intervals[0].Start.String())
	assert.Equal(t, "11:00:00", schedule.Intervals[1].Start.String())

	overlap, err := NewInterval(mustTod(t, "09:30"), mustTod(t, "11:30"), BlockEvent, nil)
	require.NoError(t, err)
	_, err = NewRoomSchedule([]Interval{first, overlap})
	assert.Error(t, err)

	// Touching boundaries are fine in a half-open model.
	touching, err := NewInterval(mustTod(t, "10:00"), mustTod(t, "11:00"), BlockEvent, nil)
	require.NoError(t, err)
	_, err = NewRoomSchedule([]Interval{first, touching, second})
	assert.NoError(t, err)
}

func TestRoomScheduleIndexAtAndBounds(t *testing.T) {
	busy, err := NewInterval(mustTod(t, "09:00"), mustTod(t, "10:00"), BlockClass, nil)
	require.NoError(t, err)
	free, err := NewInterval(mustTod(t, "10:00"), mustTod(t, "12:00"), BlockAvailable, nil)
	require.NoError(t, err)

	schedule, err := NewRoomSchedule([]Interval{busy, free})
	require.NoError(t, err)

	assert.Equal(t, 0, schedule.IndexAt(mustTod(t, "09:30")))
	assert.Equal(t, 1, schedule.IndexAt(mustTod(t, "10:00")))
	assert.Equal(t, -1, schedule.IndexAt(mustTod(t, "12:00")))
	assert.Equal(t, -1, schedule.IndexAt(mustTod(t, "08:00")))

	start, end, ok := schedule.Bounds()
	require.True(t, ok)
	assert.Equal(t, "09:00:00", start.String())
	assert.Equal(t, "12:00:00", end.String())

	_, _, ok = RoomSchedule{}.Bounds()
	assert.False(t, ok)
}
