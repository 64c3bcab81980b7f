package models

import (
	"encoding/json"
	"fmt"
)

// FacilityType discriminates academic buildings from libraries.
type FacilityType string

const (
	FacilityAcademic FacilityType = "academic"
	FacilityLibrary  FacilityType = "library"
)

// RoomState enumerates the resolved usability of a room at an instant.
type RoomState string

const (
	StateAvailable     RoomState = "available"
	StatePassingPeriod RoomState = "passing_period"
	StateOccupied      RoomState = "occupied"
	StateOpeningSoon   RoomState = "opening_soon"
	StateReserved      RoomState = "reserved"
)

// ClassInfo carries course metadata for an academic busy interval.
type ClassInfo struct {
	Course string    `json:"course"`
	Title  string    `json:"title"`
	Start  TimeOfDay `json:"start"`
	End    TimeOfDay `json:"end"`
}

// RoomStatus is the derived usability of one room at one reference instant.
// It is a pure function of (schedule, instant) and is never stored.
type RoomStatus struct {
	State          RoomState  `json:"status"`
	AvailableFor   int        `json:"availableFor,omitempty"`
	AvailableAt    *TimeOfDay `json:"availableAt,omitempty"`
	AvailableUntil *TimeOfDay `json:"availableUntil,omitempty"`
	CurrentClass   *ClassInfo `json:"currentClass,omitempty"`
	NextClass      *ClassInfo `json:"nextClass,omitempty"`
	PassingPeriod  bool       `json:"passingPeriod,omitempty"`
}

// AcademicRoom is a classroom resolved from the class-schedule feed.
type AcademicRoom struct {
	RoomStatus
}

// LibraryRoom is a reservable study room resolved from the booking grid.
type LibraryRoom struct {
	URL       string     `json:"url"`
	Thumbnail string     `json:"thumbnail"`
	Slots     []Interval `json:"slots"`
	RoomStatus
}

// FacilityRoom is the tagged union of the two room variants, discriminated
// by an explicit type tag on the wire. Exactly one variant is set.
type FacilityRoom struct {
	Academic *AcademicRoom
	Library  *LibraryRoom
}

// NewAcademicRoom wraps an academic variant.
func NewAcademicRoom(room AcademicRoom) FacilityRoom {
	return FacilityRoom{Academic: &room}
}

// NewLibraryRoom wraps a library variant.
func NewLibraryRoom(room LibraryRoom) FacilityRoom {
	return FacilityRoom{Library: &room}
}

// Type returns the discriminating tag.
func (r FacilityRoom) Type() FacilityType {
	if r.Library != nil {
		return FacilityLibrary
	}
	return FacilityAcademic
}

// Status returns the shared status sub-structure of whichever variant is set.
func (r FacilityRoom) Status() RoomStatus {
	if r.Library != nil {
		return r.Library.RoomStatus
	}
	if r.Academic != nil {
		return r.Academic.RoomStatus
	}
	return RoomStatus{}
}

type academicRoomJSON struct {
	Type FacilityType `json:"type"`
	AcademicRoom
}

type libraryRoomJSON struct {
	Type FacilityType `json:"type"`
	LibraryRoom
}

// MarshalJSON flattens the active variant with its type tag.
func (r FacilityRoom) MarshalJSON() ([]byte, error) {
	switch {
	case r.Library != nil:
		return json.Marshal(libraryRoomJSON{Type: FacilityLibrary, LibraryRoom: *r.Library})
	case r.Academic != nil:
		return json.Marshal(academicRoomJSON{Type: FacilityAcademic, AcademicRoom: *r.Academic})
	default:
		return nil, fmt.Errorf("facility room has no variant")
	}
}

// UnmarshalJSON selects the variant by the type tag.
func (r *FacilityRoom) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type FacilityType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Type {
	case FacilityLibrary:
		var room libraryRoomJSON
		if err := json.Unmarshal(data, &room); err != nil {
			return err
		}
		r.Library = &room.LibraryRoom
		r.Academic = nil
	case FacilityAcademic:
		var room academicRoomJSON
		if err := json.Unmarshal(data, &room); err != nil {
			return err
		}
		r.Academic = &room.AcademicRoom
		r.Library = nil
	default:
		return fmt.Errorf("unknown facility room type %q", probe.Type)
	}
	return nil
}

// Coordinates locates a facility on the campus map.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HoursSummary is the display form of today's operating hours.
type HoursSummary struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// RoomCounts summarises room availability for a facility.
type RoomCounts struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// Facility is one building or library with its resolved rooms.
type Facility struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Type        FacilityType            `json:"type"`
	Coordinates Coordinates             `json:"coordinates"`
	Hours       HoursSummary            `json:"hours"`
	IsOpen      bool                    `json:"isOpen"`
	RoomCounts  RoomCounts              `json:"roomCounts"`
	Rooms       map[string]FacilityRoom `json:"rooms"`
	Address     string                  `json:"address,omitempty"`
}

// FacilityStatus is the composed per-request availability payload.
type FacilityStatus struct {
	Timestamp  string              `json:"timestamp"`
	Facilities map[string]Facility `json:"facilities"`
}

// BlockSection is a run of uniform status inside an hourly block.
type BlockSection struct {
	Start   TimeOfDay     `json:"start"`
	End     TimeOfDay     `json:"end"`
	Status  string        `json:"status"`
	Details *BlockDetails `json:"details"`
}

// HourlyBlock is a fixed-width rendering unit of a room's day. Sections tile
// the block exactly, with no gaps or overlaps.
type HourlyBlock struct {
	Start    TimeOfDay      `json:"start"`
	End      TimeOfDay      `json:"end"`
	Sections []BlockSection `json:"sections"`
}
