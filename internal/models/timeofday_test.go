package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, 0, tod.Second())

	tod, err = ParseTimeOfDay("23:59:59")
	require.NoError(t, err)
	assert.Equal(t, "23:59:59", tod.String())

	for _, raw := range []string{"", "8", "25:00", "08:61", "aa:bb"} {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, raw)
	}
}

func TestTimeOfDayOrderingAcrossMidnight(t *testing.T) {
	lateEvening, err := NewTimeOfDay(23, 30, 0)
	require.NoError(t, err)
	earlyMorning, err := NewTimeOfDay(1, 0, 0)
	require.NoError(t, err)

	// Same-day 01:00 precedes 23:30, but flagged next-day it follows.
	assert.True(t, earlyMorning.Before(lateEvening))
	assert.True(t, lateEvening.Before(earlyMorning.OnNextDay()))
	assert.Equal(t, 90, lateEvening.MinutesUntil(earlyMorning.OnNextDay()))
	assert.Equal(t, -90, earlyMorning.OnNextDay().MinutesUntil(lateEvening))
}

func TestTimeOfDayAt(t *testing.T) {
	loc := time.FixedZone("test", 0)
	refDay := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	sameDay := TimeOfDayAt(time.Date(2026, 3, 2, 14, 15, 0, 0, loc), refDay)
	assert.False(t, sameDay.IsNextDay())
	assert.Equal(t, "14:15:00", sameDay.String())

	nextDay := TimeOfDayAt(time.Date(2026, 3, 3, 1, 30, 0, 0, loc), refDay)
	assert.True(t, nextDay.IsNextDay())
	assert.Equal(t, "01:30:00", nextDay.String())
	assert.True(t, sameDay.Before(nextDay))
}

func TestTimeOfDayAddMinutesCarries(t *testing.T) {
	tod, err := NewTimeOfDay(23, 45, 0)
	require.NoError(t, err)

	shifted := tod.AddMinutes(30)
	assert.True(t, shifted.IsNextDay())
	assert.Equal(t, "00:15:00", shifted.String())
	assert.True(t, tod.Before(shifted))
}

func TestTimeOfDayRounding(t *testing.T) {
	tod, err := NewTimeOfDay(9, 47, 30)
	require.NoError(t, err)

	assert.Equal(t, "09:00:00", tod.TruncateToHour().String())
	assert.Equal(t, "09:40:00", tod.FloorToMinutes(10).String())
	assert.Equal(t, "09:47:30", tod.FloorToMinutes(0).String())
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	tod, err := NewTimeOfDay(13, 5, 0)
	require.NoError(t, err)

	raw, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"13:05:00"`, string(raw))

	var decoded TimeOfDay
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, tod.Equal(decoded))

	assert.Error(t, json.Unmarshal([]byte(`"late"`), &decoded))
}
