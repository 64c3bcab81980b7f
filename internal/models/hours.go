package models

import "time"

// FacilityHoursRule is one weekday's open/close window for a facility.
// ClosesNextDay marks windows that run past midnight into the next day.
type FacilityHoursRule struct {
	Open          TimeOfDay
	Close         TimeOfDay
	ClosesNextDay bool
}

// WeeklyHours maps weekdays to their operating rule. A missing weekday means
// the facility is closed that day.
type WeeklyHours map[time.Weekday]FacilityHoursRule

// FacilityHours holds the static per-facility hour tables, keyed by facility
// name. Read-only at runtime.
type FacilityHours map[string]WeeklyHours
