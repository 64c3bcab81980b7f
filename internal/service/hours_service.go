package service

import (
	"fmt"
	"time"

	"github.com/plon/illinispots-sub000/internal/models"
)

// HoursService answers whether a facility is officially open at an instant,
// including hour windows that wrap past midnight.
type HoursService struct {
	hours models.FacilityHours
	loc   *time.Location
}

// NewHoursService builds the service around a static hours table.
func NewHoursService(hours models.FacilityHours, loc *time.Location) *HoursService {
	if loc == nil {
		loc = time.UTC
	}
	return &HoursService{hours: hours, loc: loc}
}

// IsOpenAt reports whether the named facility is open at the given instant.
// A facility with no rule for the instant's weekday is closed. Yesterday's
// rule is also consulted: an overnight window opened yesterday keeps the
// facility open until yesterday's close this morning.
func (s *HoursService) IsOpenAt(name string, at time.Time) bool {
	weekly, ok := s.hours[name]
	if !ok {
		return false
	}

	local := at.In(s.loc)
	t := models.TimeOfDayAt(local, local)

	yesterday := local.AddDate(0, 0, -1)
	if rule, ok := weekly[yesterday.Weekday()]; ok && rule.ClosesNextDay && t.Before(rule.Close) {
		return true
	}

	rule, ok := weekly[local.Weekday()]
	if !ok {
		return false
	}

	if rule.ClosesNextDay {
		return !t.Before(rule.Open)
	}
	return !t.Before(rule.Open) && t.Before(rule.Close)
}

// HoursMessage renders today's reservable hours for display.
func (s *HoursService) HoursMessage(name string, at time.Time) string {
	weekly, ok := s.hours[name]
	if !ok {
		return "Hours not available"
	}
	rule, ok := weekly[at.In(s.loc).Weekday()]
	if !ok {
		return "Hours not available"
	}
	suffix := ""
	if rule.ClosesNextDay {
		suffix = " (next day)"
	}
	return fmt.Sprintf("Today's reservable space hours: %02d:%02d - %02d:%02d%s",
		rule.Open.Hour(), rule.Open.Minute(), rule.Close.Hour(), rule.Close.Minute(), suffix)
}

// CloseBoundary returns the closing time bounding the open period that
// contains the instant. During the early-morning tail of an overnight window
// this is yesterday's close on today's clock; otherwise it is today's close,
// flagged next-day when today's window wraps. Nil when the facility is
// unknown or has no rule today.
func (s *HoursService) CloseBoundary(name string, at time.Time) *models.TimeOfDay {
	weekly, ok := s.hours[name]
	if !ok {
		return nil
	}

	local := at.In(s.loc)
	t := models.TimeOfDayAt(local, local)

	yesterday := local.AddDate(0, 0, -1)
	if rule, ok := weekly[yesterday.Weekday()]; ok && rule.ClosesNextDay && t.Before(rule.Close) {
		close := rule.Close
		return &close
	}

	rule, ok := weekly[local.Weekday()]
	if !ok {
		return nil
	}
	close := rule.Close
	if rule.ClosesNextDay {
		close = close.OnNextDay()
	}
	return &close
}

// TodayRule returns the rule for the instant's weekday.
func (s *HoursService) TodayRule(name string, at time.Time) (models.FacilityHoursRule, bool) {
	weekly, ok := s.hours[name]
	if !ok {
		return models.FacilityHoursRule{}, false
	}
	rule, ok := weekly[at.In(s.loc).Weekday()]
	return rule, ok
}

func mustTime(raw string) models.TimeOfDay {
	t, err := models.ParseTimeOfDay(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func week(open, close string) models.FacilityHoursRule {
	return models.FacilityHoursRule{Open: mustTime(open), Close: mustTime(close)}
}

// DefaultLibraryHours is the static hour table for the three campus
// libraries. A 24h facility would use open 00:00 / close 23:59 without the
// wraparound flag; the close minute stays exclusive.
func DefaultLibraryHours() models.FacilityHours {
	overnight := func(open, close string) models.FacilityHoursRule {
		rule := week(open, close)
		rule.ClosesNextDay = true
		return rule
	}

	return models.FacilityHours{
		"Grainger Engineering Library": models.WeeklyHours{
			time.Monday:    week("08:00", "23:59"),
			time.Tuesday:   week("08:00", "23:59"),
			time.Wednesday: week("08:00", "23:59"),
			time.Thursday:  week("08:00", "23:59"),
			time.Friday:    week("08:00", "23:00"),
			time.Saturday:  week("10:00", "23:00"),
			time.Sunday:    week("10:00", "23:59"),
		},
		"Funk ACES Library": models.WeeklyHours{
			time.Monday:    overnight("08:30", "02:00"),
			time.Tuesday:   overnight("08:30", "02:00"),
			time.Wednesday: overnight("08:30", "02:00"),
			time.Thursday:  overnight("08:30", "02:00"),
			time.Friday:    week("08:30", "19:00"),
			time.Saturday:  week("10:00", "21:00"),
			time.Sunday:    overnight("13:00", "02:00"),
		},
		"Main Library": models.WeeklyHours{
			time.Monday:    week("09:15", "21:30"),
			time.Tuesday:   week("09:15", "21:30"),
			time.Wednesday: week("09:15", "21:30"),
			time.Thursday:  week("09:15", "21:30"),
			time.Friday:    week("09:15", "17:30"),
			time.Saturday:  week("13:15", "16:30"),
			time.Sunday:    week("13:15", "21:30"),
		},
	}
}

// DefaultLibraries is the booking-service registry for the three campus
// libraries. The overnight cutoff folds early-morning next-day slots into
// today's schedule for facilities whose hours wrap past midnight.
func DefaultLibraries() []models.LibraryInfo {
	return []models.LibraryInfo{
		{ID: "3604", Name: "Funk ACES Library", NumRooms: 6, Address: "1101 S Goodwin Ave, Urbana, IL 61801", OvernightCutoff: "02:00"},
		{ID: "3606", Name: "Grainger Engineering Library", NumRooms: 15, Address: "1301 W Springfield Ave, Urbana, IL 61801"},
		{ID: "3608", Name: "Main Library", NumRooms: 17, Address: "1408 W Gregory Dr, Urbana, IL 61801"},
	}
}

// DefaultLibraryCoordinates pins the campus map markers for each library.
func DefaultLibraryCoordinates() map[string]models.Coordinates {
	return map[string]models.Coordinates{
		"Grainger Engineering Library": {Latitude: 40.11247372608236, Longitude: -88.2268586691797},
		"Funk ACES Library":            {Latitude: 40.102836655077226, Longitude: -88.22513280595481},
		"Main Library":                 {Latitude: 40.1047194114613, Longitude: -88.22883490200387},
	}
}
