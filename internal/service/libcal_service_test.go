package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plon/illinispots-sub000/internal/models"
)

type fakeLibCalClient struct {
	page      string
	pageErr   error
	grids     map[string]*models.ReservationResponse
	gridErr   error
	gridCalls []string
}

func (f *fakeLibCalClient) FetchSpacesPage(ctx context.Context) (string, error) {
	return f.page, f.pageErr
}

func (f *fakeLibCalClient) FetchAvailabilityGrid(ctx context.Context, facilityID, startDate, endDate string) (*models.ReservationResponse, error) {
	f.gridCalls = append(f.gridCalls, fmt.Sprintf("%s|%s|%s", facilityID, startDate, endDate))
	if f.gridErr != nil {
		return nil, f.gridErr
	}
	if grid, ok := f.grids[startDate]; ok {
		return grid, nil
	}
	return &models.ReservationResponse{}, nil
}

func TestFetchBusyIntervalsSingleDay(t *testing.T) {
	client := &fakeLibCalClient{grids: map[string]*models.ReservationResponse{
		"2026-03-02": {Slots: []models.ReservationSlot{{ItemID: 1, Start: "2026-03-02 10:00:00", End: "2026-03-02 11:00:00"}}},
	}}
	svc := NewLibCalService(client, nil, "https://uiuc.libcal.com", time.UTC, nil)

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	grid, err := svc.FetchBusyIntervals(context.Background(), models.LibraryInfo{ID: "3606"}, now)
	require.NoError(t, err)
	assert.Len(t, grid.Slots, 1)
	assert.Equal(t, []string{"3606|2026-03-02|2026-03-03"}, client.gridCalls)
}

func TestFetchBusyIntervalsOvernightFetchesSecondDay(t *testing.T) {
	client := &fakeLibCalClient{grids: map[string]*models.ReservationResponse{
		"2026-03-02": {Slots: []models.ReservationSlot{{ItemID: 1, Start: "2026-03-02 22:00:00", End: "2026-03-02 23:00:00"}}},
		"2026-03-03": {Slots: []models.ReservationSlot{{ItemID: 1, Start: "2026-03-03 00:00:00", End: "2026-03-03 01:00:00"}}},
	}}
	svc := NewLibCalService(client, nil, "https://uiuc.libcal.com", time.UTC, nil)

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	grid, err := svc.FetchBusyIntervals(context.Background(), models.LibraryInfo{ID: "3604", OvernightCutoff: "02:00"}, now)
	require.NoError(t, err)
	assert.Len(t, grid.Slots, 2)
	assert.Equal(t, []string{
		"3604|2026-03-02|2026-03-03",
		"3604|2026-03-03|2026-03-04",
	}, client.gridCalls)
}

func TestLinkRoomSchedules(t *testing.T) {
	svc := NewLibCalService(&fakeLibCalClient{}, nil, "https://uiuc.libcal.com", time.UTC, nil)

	rooms := []models.StudyRoom{
		{ID: "s1", Title: "Room A", EID: 1, LID: 3604},
		{ID: "s2", Title: "Room B", EID: 2, LID: 3606},
		{ID: "s3", Title: "Room C", EID: 3, LID: 3604},
	}
	grid := &models.ReservationResponse{Slots: []models.ReservationSlot{
		// Out of order on purpose; contiguous available slots should merge.
		{ItemID: 1, Start: "2026-03-02 14:00:00", End: "2026-03-02 15:00:00"},
		{ItemID: 1, Start: "2026-03-02 13:00:00", End: "2026-03-02 14:00:00"},
		{ItemID: 1, Start: "2026-03-02 15:00:00", End: "2026-03-02 16:00:00", ClassName: "s-lc-eq-checkout"},
		// Folded overnight tail, end capped at the 02:00 cutoff.
		{ItemID: 1, Start: "2026-03-03 01:00:00", End: "2026-03-03 02:30:00"},
		// Past the cutoff: belongs to tomorrow's schedule, dropped.
		{ItemID: 1, Start: "2026-03-03 03:00:00", End: "2026-03-03 04:00:00"},
		// Unknown room id, dropped.
		{ItemID: 99, Start: "2026-03-02 13:00:00", End: "2026-03-02 14:00:00"},
	}}

	lib := models.LibraryInfo{ID: "3604", Name: "Funk ACES Library", OvernightCutoff: "02:00"}
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	linked := svc.LinkRoomSchedules(rooms, grid, lib, now)

	require.Len(t, linked, 2)
	assert.NotContains(t, linked, "Room B")

	roomA := linked["Room A"]
	require.Len(t, roomA.Schedule.Intervals, 3)

	merged := roomA.Schedule.Intervals[0]
	assert.Equal(t, "13:00:00", merged.Start.String())
	assert.Equal(t, "15:00:00", merged.End.String())
	assert.True(t, merged.Available)

	reserved := roomA.Schedule.Intervals[1]
	assert.Equal(t, models.BlockReserved, reserved.Status)
	assert.False(t, reserved.Available)

	tail := roomA.Schedule.Intervals[2]
	assert.True(t, tail.Start.IsNextDay())
	assert.Equal(t, "01:00:00", tail.Start.String())
	assert.Equal(t, "02:00:00", tail.End.String())
	assert.True(t, tail.End.IsNextDay())

	// A room with no grid slots still links, fully free.
	assert.True(t, linked["Room C"].Schedule.Empty())
}

func TestFetchRoomsPropagatesError(t *testing.T) {
	client := &fakeLibCalClient{pageErr: fmt.Errorf("boom")}
	svc := NewLibCalService(client, nil, "https://uiuc.libcal.com", time.UTC, nil)

	_, err := svc.FetchRooms(context.Background())
	assert.Error(t, err)
}
