package service

import (
	"github.com/plon/illinispots-sub000/internal/models"
)

// ResolverConfig carries the tunable thresholds of status resolution.
type ResolverConfig struct {
	// MinUsefulMinutes is the shortest upcoming free window worth surfacing.
	MinUsefulMinutes int
	// OpeningSoonWindowMinutes bounds how far ahead an upcoming window may
	// start for the room to read as opening soon rather than plain busy.
	OpeningSoonWindowMinutes int
	// PassingPeriodMaxMinutes bounds the length of a free gap between two
	// busy intervals for it to count as a passing period.
	PassingPeriodMaxMinutes int
}

// ResolveRoomStatus derives the usability of one room at one instant from
// its day schedule. The result is a pure function of its inputs; resolving
// twice at the same instant yields the same status. closeAt, when non-nil,
// caps open-ended availability at the facility's closing time.
func ResolveRoomStatus(schedule models.RoomSchedule, now models.TimeOfDay, closeAt *models.TimeOfDay, cfg ResolverConfig) models.RoomStatus {
	if schedule.Empty() {
		return openEndedStatus(now, closeAt)
	}

	idx := schedule.IndexAt(now)
	if idx == -1 {
		return resolveOutsideSchedule(schedule, now, closeAt, cfg)
	}

	current := schedule.Intervals[idx]
	if current.Available {
		return resolveInAvailable(schedule, idx, now, cfg)
	}
	return resolveInBusy(schedule, idx, now, closeAt, cfg)
}

// openEndedStatus is the status of a room with nothing scheduled: available
// until close, or indefinitely when no close is known.
func openEndedStatus(now models.TimeOfDay, closeAt *models.TimeOfDay) models.RoomStatus {
	status := models.RoomStatus{State: models.StateAvailable}
	if closeAt != nil && now.Before(*closeAt) {
		status.AvailableFor = now.MinutesUntil(*closeAt)
		status.AvailableUntil = closeAt
	}
	return status
}

// resolveOutsideSchedule handles an instant before the first interval, after
// the last, or inside an unrecorded gap. Unrecorded time counts as free.
func resolveOutsideSchedule(schedule models.RoomSchedule, now models.TimeOfDay, closeAt *models.TimeOfDay, cfg ResolverConfig) models.RoomStatus {
	next := -1
	for i, iv := range schedule.Intervals {
		if now.Before(iv.Start) {
			next = i
			break
		}
	}
	if next == -1 {
		return openEndedStatus(now, closeAt)
	}

	boundary := schedule.Intervals[next].Start
	status := models.RoomStatus{
		State:          models.StateAvailable,
		AvailableFor:   now.MinutesUntil(boundary),
		AvailableUntil: &boundary,
	}
	if !schedule.Intervals[next].Available {
		status.NextClass = classInfo(schedule.Intervals[next])
	}
	return status
}

// resolveInAvailable reports availability bounded by the interval itself.
// The schedule is the source of truth here: time past its last recorded
// interval is never credited, so a reservation grid that ends mid-afternoon
// does not read as free through the evening.
func resolveInAvailable(schedule models.RoomSchedule, idx int, now models.TimeOfDay, cfg ResolverConfig) models.RoomStatus {
	current := schedule.Intervals[idx]

	until := current.End
	status := models.RoomStatus{
		State:          models.StateAvailable,
		AvailableFor:   now.MinutesUntil(until),
		AvailableUntil: &until,
	}

	if idx+1 < len(schedule.Intervals) && !schedule.Intervals[idx+1].Available {
		status.NextClass = classInfo(schedule.Intervals[idx+1])
	}

	// A short free gap squeezed between two busy intervals is a passing
	// period, not genuine availability.
	bounded := idx > 0 && !schedule.Intervals[idx-1].Available &&
		idx+1 < len(schedule.Intervals) && !schedule.Intervals[idx+1].Available
	if bounded && current.DurationMinutes() <= cfg.PassingPeriodMaxMinutes {
		status.State = models.StatePassingPeriod
		status.PassingPeriod = true
	}

	return status
}

func resolveInBusy(schedule models.RoomSchedule, idx int, now models.TimeOfDay, closeAt *models.TimeOfDay, cfg ResolverConfig) models.RoomStatus {
	current := schedule.Intervals[idx]

	state := models.StateOccupied
	if current.Status == models.BlockReserved {
		state = models.StateReserved
	}
	status := models.RoomStatus{
		State:        state,
		CurrentClass: classInfo(current),
	}

	// Walk past the contiguous busy run to the next free window.
	end := idx
	for end+1 < len(schedule.Intervals) && !schedule.Intervals[end+1].Available &&
		schedule.Intervals[end+1].Start.Equal(schedule.Intervals[end].End) {
		end++
	}

	freeAt := schedule.Intervals[end].End
	freeUntil := freeAt
	switch {
	case end+1 < len(schedule.Intervals) && schedule.Intervals[end+1].Available:
		freeUntil = schedule.Intervals[end+1].End
		if end+2 < len(schedule.Intervals) && !schedule.Intervals[end+2].Available {
			status.NextClass = classInfo(schedule.Intervals[end+2])
		}
	case end+1 < len(schedule.Intervals):
		// Busy again after a gap in the record; the gap itself is free.
		freeUntil = schedule.Intervals[end+1].Start
		status.NextClass = classInfo(schedule.Intervals[end+1])
	case closeAt != nil:
		freeUntil = *closeAt
	}

	if end+1 >= len(schedule.Intervals) && closeAt != nil && !freeAt.Before(*closeAt) {
		// The busy run carries through to close; no window remains today.
		return status
	}

	// The upcoming free time is always reported; the thresholds below only
	// gate the opening-soon reclassification.
	status.AvailableAt = &freeAt
	windowMinutes := freeAt.MinutesUntil(freeUntil)
	if windowMinutes < cfg.MinUsefulMinutes {
		return status
	}

	untilWindow := now.MinutesUntil(freeAt)
	if untilWindow > 0 && untilWindow <= cfg.OpeningSoonWindowMinutes {
		status.State = models.StateOpeningSoon
		status.AvailableFor = windowMinutes
	}
	return status
}

// classInfo projects a busy interval's occupant details, nil for intervals
// without them.
func classInfo(iv models.Interval) *models.ClassInfo {
	if iv.Details == nil {
		return nil
	}
	course := iv.Details.Course
	if course == "" {
		course = iv.Details.Identifier
	}
	return &models.ClassInfo{
		Course: course,
		Title:  iv.Details.Title,
		Start:  iv.Start,
		End:    iv.End,
	}
}
