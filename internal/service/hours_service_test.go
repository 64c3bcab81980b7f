package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday.
func chicagoDate(t *testing.T, day, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestIsOpenAtRegularHours(t *testing.T) {
	svc := NewHoursService(DefaultLibraryHours(), time.UTC)

	assert.True(t, svc.IsOpenAt("Grainger Engineering Library", chicagoDate(t, 2, 8, 0)))
	assert.True(t, svc.IsOpenAt("Grainger Engineering Library", chicagoDate(t, 2, 23, 58)))
	// The closing minute itself is already closed.
	assert.False(t, svc.IsOpenAt("Grainger Engineering Library", chicagoDate(t, 2, 23, 59)))
	assert.False(t, svc.IsOpenAt("Grainger Engineering Library", chicagoDate(t, 2, 7, 59)))
}

func TestIsOpenAtOvernightTail(t *testing.T) {
	svc := NewHoursService(DefaultLibraryHours(), time.UTC)

	// Monday's Funk ACES window runs 08:30 through 02:00 Tuesday.
	assert.True(t, svc.IsOpenAt("Funk ACES Library", chicagoDate(t, 2, 23, 30)))
	assert.True(t, svc.IsOpenAt("Funk ACES Library", chicagoDate(t, 3, 1, 30)))
	assert.False(t, svc.IsOpenAt("Funk ACES Library", chicagoDate(t, 3, 2, 0)))
	assert.False(t, svc.IsOpenAt("Funk ACES Library", chicagoDate(t, 3, 2, 30)))
	// Tuesday reopens at its own 08:30.
	assert.True(t, svc.IsOpenAt("Funk ACES Library", chicagoDate(t, 3, 8, 30)))
}

func TestIsOpenAtUnknownFacility(t *testing.T) {
	svc := NewHoursService(DefaultLibraryHours(), time.UTC)
	assert.False(t, svc.IsOpenAt("Undergrad Library", chicagoDate(t, 2, 12, 0)))
}

func TestCloseBoundary(t *testing.T) {
	svc := NewHoursService(DefaultLibraryHours(), time.UTC)

	// Mid-window Monday evening: close is 02:00 flagged to the next day.
	boundary := svc.CloseBoundary("Funk ACES Library", chicagoDate(t, 2, 22, 0))
	require.NotNil(t, boundary)
	assert.True(t, boundary.IsNextDay())
	assert.Equal(t, "02:00:00", boundary.String())

	// Early Tuesday morning the same close reads on today's clock.
	boundary = svc.CloseBoundary("Funk ACES Library", chicagoDate(t, 3, 1, 0))
	require.NotNil(t, boundary)
	assert.False(t, boundary.IsNextDay())
	assert.Equal(t, "02:00:00", boundary.String())

	assert.Nil(t, svc.CloseBoundary("Undergrad Library", chicagoDate(t, 2, 12, 0)))
}

func TestHoursMessage(t *testing.T) {
	svc := NewHoursService(DefaultLibraryHours(), time.UTC)

	msg := svc.HoursMessage("Funk ACES Library", chicagoDate(t, 2, 12, 0))
	assert.Equal(t, "Today's reservable space hours: 08:30 - 02:00 (next day)", msg)

	assert.Equal(t, "Hours not available", svc.HoursMessage("Undergrad Library", chicagoDate(t, 2, 12, 0)))
}
