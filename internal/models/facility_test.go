package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacilityRoomJSONRoundTrip(t *testing.T) {
	academic := NewAcademicRoom(AcademicRoom{RoomStatus: RoomStatus{State: StateOccupied}})
	raw, err := json.Marshal(academic)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"academic"`)

	var decodedAcademic FacilityRoom
	require.NoError(t, json.Unmarshal(raw, &decodedAcademic))
	require.NotNil(t, decodedAcademic.Academic)
	assert.Nil(t, decodedAcademic.Library)
	assert.Equal(t, StateOccupied, decodedAcademic.Status().State)

	slot, err := NewInterval(mustTod(t, "10:00"), mustTod(t, "11:00"), BlockReserved, nil)
	require.NoError(t, err)
	library := NewLibraryRoom(LibraryRoom{
		URL:        "https://example.edu/space/1",
		Thumbnail:  "https://example.edu/thumb.jpg",
		Slots:      []Interval{slot},
		RoomStatus: RoomStatus{State: StateReserved},
	})
	raw, err = json.Marshal(library)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"library"`)

	var decodedLibrary FacilityRoom
	require.NoError(t, json.Unmarshal(raw, &decodedLibrary))
	require.NotNil(t, decodedLibrary.Library)
	assert.Len(t, decodedLibrary.Library.Slots, 1)
	assert.Equal(t, StateReserved, decodedLibrary.Status().State)
}

func TestFacilityRoomJSONRejectsUnknownType(t *testing.T) {
	var room FacilityRoom
	err := json.Unmarshal([]byte(`{"type":"garage"}`), &room)
	assert.Error(t, err)

	_, err = json.Marshal(FacilityRoom{})
	assert.Error(t, err)
}

func TestFacilityStatusJSONRoundTrip(t *testing.T) {
	status := FacilityStatus{
		Timestamp: "2026-03-02T10:00:00-06:00",
		Facilities: map[string]Facility{
			"Grainger Engineering Library": {
				ID:     "3606",
				Name:   "Grainger Engineering Library",
				Type:   FacilityLibrary,
				IsOpen: true,
				Rooms: map[string]FacilityRoom{
					"Room 101": NewLibraryRoom(LibraryRoom{RoomStatus: RoomStatus{State: StateAvailable, AvailableFor: 90}}),
				},
				RoomCounts: RoomCounts{Available: 1, Total: 1},
			},
		},
	}

	raw, err := json.Marshal(status)
	require.NoError(t, err)

	var decoded FacilityStatus
	require.NoError(t, json.Unmarshal(raw, &decoded))
	facility := decoded.Facilities["Grainger Engineering Library"]
	require.NotNil(t, facility.Rooms["Room 101"].Library)
	assert.Equal(t, 90, facility.Rooms["Room 101"].Status().AvailableFor)
}
