package models

import (
	"fmt"
	"sort"
)

// Block statuses carried by schedule intervals and rendered sections.
const (
	BlockAvailable = "available"
	BlockClass     = "class"
	BlockEvent     = "event"
	BlockReserved  = "reserved"
)

// BlockDetails describes the occupant of a busy interval.
type BlockDetails struct {
	Type       string `json:"type"`
	Course     string `json:"course,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Title      string `json:"title"`
}

// Interval is a half-open [start, end) span of a room's day.
type Interval struct {
	Start     TimeOfDay     `json:"start"`
	End       TimeOfDay     `json:"end"`
	Available bool          `json:"available"`
	Status    string        `json:"status"`
	Details   *BlockDetails `json:"details,omitempty"`
}

// NewInterval validates the start < end invariant at construction. Spans
// that logically cross midnight must arrive pre-split with the tail flagged
// next-day; an interval whose end does not follow its start is malformed.
func NewInterval(start, end TimeOfDay, status string, details *BlockDetails) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("interval start %s not before end %s", start, end)
	}
	return Interval{
		Start:     start,
		End:       end,
		Available: status == BlockAvailable,
		Status:    status,
		Details:   details,
	}, nil
}

// Contains reports whether t falls within [start, end).
func (iv Interval) Contains(t TimeOfDay) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// DurationMinutes returns the interval length in whole minutes.
func (iv Interval) DurationMinutes() int {
	return iv.Start.MinutesUntil(iv.End)
}

// RoomSchedule owns the ordered, non-overlapping interval sequence for one
// room and one logical day (extended into the next day for facilities with
// overnight hours). It is rebuilt per request and never mutated in place.
type RoomSchedule struct {
	Intervals []Interval
}

// NewRoomSchedule sorts the given intervals chronologically and rejects
// overlapping neighbours.
func NewRoomSchedule(intervals []Interval) (RoomSchedule, error) {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start.Before(sorted[i-1].End) {
			return RoomSchedule{}, fmt.Errorf("overlapping intervals at %s", sorted[i].Start)
		}
	}
	return RoomSchedule{Intervals: sorted}, nil
}

// Empty reports whether the schedule holds no intervals.
func (s RoomSchedule) Empty() bool {
	return len(s.Intervals) == 0
}

// IndexAt locates the interval containing t, or -1.
func (s RoomSchedule) IndexAt(t TimeOfDay) int {
	for i, iv := range s.Intervals {
		if iv.Contains(t) {
			return i
		}
	}
	return -1
}

// Bounds returns the earliest start and latest end, and false when empty.
func (s RoomSchedule) Bounds() (TimeOfDay, TimeOfDay, bool) {
	if s.Empty() {
		return TimeOfDay{}, TimeOfDay{}, false
	}
	return s.Intervals[0].Start, s.Intervals[len(s.Intervals)-1].End, true
}
