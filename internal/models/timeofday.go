package models

import (
	"fmt"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// TimeOfDay is a wall-clock time scoped to one logical day. Values that
// belong to the following calendar day (the tail of an overnight schedule)
// carry a nextDay flag so they order after every same-day value while still
// rendering their own-day wall clock.
type TimeOfDay struct {
	secs    int
	nextDay bool
}

// NewTimeOfDay builds a TimeOfDay from clock components.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %02d:%02d:%02d", hour, minute, second)
	}
	return TimeOfDay{secs: hour*3600 + minute*60 + second}, nil
}

// ParseTimeOfDay parses "HH:mm" or "HH:mm:ss".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", raw)
	}
	var hour, minute, second int
	if _, err := fmt.Sscanf(parts[0]+":"+parts[1], "%d:%d", &hour, &minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", raw)
	}
	if len(parts) == 3 {
		if _, err := fmt.Sscanf(parts[2], "%d", &second); err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q", raw)
		}
	}
	return NewTimeOfDay(hour, minute, second)
}

// TimeOfDayAt extracts the wall clock of t relative to a reference day. When
// t falls on the calendar day after refDay the result is flagged as next-day.
func TimeOfDayAt(t time.Time, refDay time.Time) TimeOfDay {
	tod := TimeOfDay{secs: t.Hour()*3600 + t.Minute()*60 + t.Second()}
	ty, tm, td := t.Date()
	ry, rm, rd := refDay.Date()
	if ty != ry || tm != rm || td != rd {
		tod.nextDay = true
	}
	return tod
}

// OnNextDay returns the same wall clock flagged to the following day.
func (t TimeOfDay) OnNextDay() TimeOfDay {
	t.nextDay = true
	return t
}

// IsNextDay reports whether the value belongs to the following calendar day.
func (t TimeOfDay) IsNextDay() bool {
	return t.nextDay
}

// Hour returns the clock hour.
func (t TimeOfDay) Hour() int { return t.secs / 3600 }

// Minute returns the clock minute.
func (t TimeOfDay) Minute() int { return (t.secs % 3600) / 60 }

// Second returns the clock second.
func (t TimeOfDay) Second() int { return t.secs % 60 }

func (t TimeOfDay) total() int {
	if t.nextDay {
		return t.secs + secondsPerDay
	}
	return t.secs
}

// Compare orders two values on the extended (two-day) timeline.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	switch {
	case t.total() < o.total():
		return -1
	case t.total() > o.total():
		return 1
	default:
		return 0
	}
}

// Before reports whether t precedes o.
func (t TimeOfDay) Before(o TimeOfDay) bool { return t.Compare(o) < 0 }

// After reports whether t follows o.
func (t TimeOfDay) After(o TimeOfDay) bool { return t.Compare(o) > 0 }

// Equal reports whether t and o are the same instant.
func (t TimeOfDay) Equal(o TimeOfDay) bool { return t.Compare(o) == 0 }

// MinutesUntil returns the whole minutes from t to o, negative when o is
// earlier.
func (t TimeOfDay) MinutesUntil(o TimeOfDay) int {
	diff := o.total() - t.total()
	if diff < 0 {
		return -((-diff) / 60)
	}
	return diff / 60
}

// AddMinutes shifts the value forward, carrying across midnight.
func (t TimeOfDay) AddMinutes(minutes int) TimeOfDay {
	total := t.total() + minutes*60
	if total >= secondsPerDay {
		return TimeOfDay{secs: total - secondsPerDay, nextDay: true}
	}
	return TimeOfDay{secs: total}
}

// TruncateToHour drops minutes and seconds.
func (t TimeOfDay) TruncateToHour() TimeOfDay {
	t.secs = (t.secs / 3600) * 3600
	return t
}

// FloorToMinutes rounds down to the nearest multiple of the given minutes.
func (t TimeOfDay) FloorToMinutes(minutes int) TimeOfDay {
	if minutes <= 0 {
		return t
	}
	step := minutes * 60
	t.secs = (t.secs / step) * step
	return t
}

// String renders the wall clock as HH:mm:ss.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// MarshalJSON serializes as "HH:mm:ss".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses "HH:mm" or "HH:mm:ss". The next-day flag does not
// survive the wire format; callers re-derive it from the slot's date.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
