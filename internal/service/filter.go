package service

import (
	"github.com/plon/illinispots-sub000/internal/models"
)

// FilterCriteria narrows a snapshot to rooms whose current availability
// satisfies every present field. Zero values mean the field is absent.
type FilterCriteria struct {
	// MinDuration is the minimum remaining free time in minutes.
	MinDuration int
	// FreeUntil requires the room to stay free at least until this clock time.
	FreeUntil *models.TimeOfDay
	// StartTime requires the room to still be free at this clock time.
	StartTime *models.TimeOfDay
}

// Empty reports whether no criterion is set.
func (c FilterCriteria) Empty() bool {
	return c.MinDuration <= 0 && c.FreeUntil == nil && c.StartTime == nil
}

// MatchesCriteria reports whether a resolved room passes the filter at the
// reference instant. With no criteria every room passes; with any criterion
// set only currently available rooms can pass. Each present criterion must
// hold, so criteria compose as a conjunction.
func MatchesCriteria(status models.RoomStatus, criteria FilterCriteria, now models.TimeOfDay) bool {
	if criteria.Empty() {
		return true
	}
	if status.State != models.StateAvailable {
		return false
	}

	if criteria.MinDuration > 0 && status.AvailableFor < criteria.MinDuration {
		return false
	}
	if criteria.FreeUntil != nil && !coversUntil(status, now, *criteria.FreeUntil) {
		return false
	}
	if criteria.StartTime != nil && !coversUntil(status, now, *criteria.StartTime) {
		return false
	}
	return true
}

// coversUntil reports whether the room's current free window reaches the
// target clock time. A target already behind the reference instant fails.
func coversUntil(status models.RoomStatus, now, target models.TimeOfDay) bool {
	needed := now.MinutesUntil(target)
	return needed >= 0 && needed <= status.AvailableFor
}
