package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plon/illinispots-sub000/internal/models"
	"github.com/plon/illinispots-sub000/pkg/config"
	appErrors "github.com/plon/illinispots-sub000/pkg/errors"
)

type fakeClassStore struct {
	buildings []models.Building
	meetings  []models.ClassMeeting
	err       error
}

func (f *fakeClassStore) ListBuildings(ctx context.Context) ([]models.Building, error) {
	return f.buildings, f.err
}

func (f *fakeClassStore) ListMeetingsForDate(ctx context.Context, date string) ([]models.ClassMeeting, error) {
	return f.meetings, f.err
}

type fakeCache struct {
	store map[string][]byte
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = raw
	f.sets++
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.store = make(map[string][]byte)
	return nil
}

func availabilityTestConfig(cacheEnabled bool) config.AvailabilityConfig {
	return config.AvailabilityConfig{
		Timezone:                 "UTC",
		MinUsefulMinutes:         30,
		OpeningSoonWindowMinutes: 20,
		PassingPeriodMaxMinutes:  15,
		CacheEnabled:             cacheEnabled,
		CacheTTL:                 time.Minute,
	}
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func newAcademicFixture(cacheEnabled bool, cache availabilityCache) *AvailabilityService {
	classes := &fakeClassStore{
		buildings: []models.Building{
			{ID: "dcl", Name: "Digital Computer Laboratory", Latitude: 40.113, Longitude: -88.226, OpenTime: "08:00", CloseTime: "22:00"},
		},
		meetings: []models.ClassMeeting{
			{BuildingID: "dcl", RoomNumber: "1320", BlockType: "class", Course: nullStr("CS 225"), Title: "Data Structures", StartTime: "09:00", EndTime: "10:00"},
			{BuildingID: "dcl", RoomNumber: "1310", BlockType: "event", Title: "ACM Meeting", StartTime: "14:00", EndTime: "16:00"},
		},
	}
	libcalSvc := NewLibCalService(&fakeLibCalClient{}, nil, "https://uiuc.libcal.com", time.UTC, nil)
	hoursSvc := NewHoursService(DefaultLibraryHours(), time.UTC)

	svc := NewAvailabilityService(classes, libcalSvc, hoursSvc, cache, nil, availabilityTestConfig(cacheEnabled), time.UTC, nil)
	return svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	})
}

func TestSnapshotAcademicBuildings(t *testing.T) {
	svc := newAcademicFixture(false, nil)

	snapshot, cacheHit, err := svc.Snapshot(context.Background(), FacilityQuery{IncludeAcademic: true})
	require.NoError(t, err)
	assert.False(t, cacheHit)

	facility, ok := snapshot.Facilities["Digital Computer Laboratory"]
	require.True(t, ok)
	assert.Equal(t, models.FacilityAcademic, facility.Type)
	assert.True(t, facility.IsOpen)
	assert.Equal(t, 2, facility.RoomCounts.Total)
	assert.Equal(t, 1, facility.RoomCounts.Available)

	occupied := facility.Rooms["1320"]
	require.NotNil(t, occupied.Academic)
	assert.Equal(t, models.StateOccupied, occupied.Status().State)
	require.NotNil(t, occupied.Status().CurrentClass)
	assert.Equal(t, "CS 225", occupied.Status().CurrentClass.Course)

	// The event room is free until 14:00.
	idle := facility.Rooms["1310"]
	assert.Equal(t, models.StateAvailable, idle.Status().State)
	assert.Equal(t, 270, idle.Status().AvailableFor)
}

func TestSnapshotAppliesFilterAfterComposition(t *testing.T) {
	svc := newAcademicFixture(false, nil)

	snapshot, _, err := svc.Snapshot(context.Background(), FacilityQuery{IncludeAcademic: true, MinDuration: 60})
	require.NoError(t, err)

	facility := snapshot.Facilities["Digital Computer Laboratory"]
	assert.NotContains(t, facility.Rooms, "1320")
	assert.Contains(t, facility.Rooms, "1310")
	assert.Equal(t, 1, facility.RoomCounts.Total)
	assert.Equal(t, 1, facility.RoomCounts.Available)
}

func TestSnapshotUsesCacheOnSecondCall(t *testing.T) {
	cache := newFakeCache()
	svc := newAcademicFixture(true, cache)

	_, cacheHit, err := svc.Snapshot(context.Background(), FacilityQuery{IncludeAcademic: true})
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 1, cache.sets)

	snapshot, cacheHit, err := svc.Snapshot(context.Background(), FacilityQuery{IncludeAcademic: true})
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, 1, cache.sets)

	// The cached payload round-trips the room union intact.
	facility := snapshot.Facilities["Digital Computer Laboratory"]
	require.NotNil(t, facility.Rooms["1320"].Academic)

	require.NoError(t, svc.InvalidateSnapshots(context.Background()))
	_, cacheHit, err = svc.Snapshot(context.Background(), FacilityQuery{IncludeAcademic: true})
	require.NoError(t, err)
	assert.False(t, cacheHit)
}

func TestSnapshotRejectsMalformedFilter(t *testing.T) {
	svc := newAcademicFixture(false, nil)

	_, _, err := svc.Snapshot(context.Background(), FacilityQuery{IncludeAcademic: true, FreeUntil: "soon"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSnapshotLibraries(t *testing.T) {
	page := `resources.push({
    id: "s500",
    eid: 500,
    lid: 3606,
    title: "Room 101",
    url: "/space/500",
    grouping: "Grainger Engineering Library",
    thumbnail: "//example.edu/101.jpg"
});`
	client := &fakeLibCalClient{
		page: page,
		grids: map[string]*models.ReservationResponse{
			"2026-03-02": {Slots: []models.ReservationSlot{
				{ItemID: 500, Start: "2026-03-02 12:00:00", End: "2026-03-02 14:00:00"},
				{ItemID: 500, Start: "2026-03-02 14:00:00", End: "2026-03-02 15:00:00", ClassName: "s-lc-eq-checkout"},
			}},
		},
	}

	libraries := []models.LibraryInfo{{ID: "3606", Name: "Grainger Engineering Library", Address: "1301 W Springfield Ave"}}
	libcalSvc := NewLibCalService(client, libraries, "https://uiuc.libcal.com", time.UTC, nil)
	hoursSvc := NewHoursService(DefaultLibraryHours(), time.UTC)
	coords := DefaultLibraryCoordinates()

	svc := NewAvailabilityService(&fakeClassStore{}, libcalSvc, hoursSvc, nil, coords, availabilityTestConfig(false), time.UTC, nil)
	svc = svc.WithClock(func() time.Time {
		return time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)
	})

	snapshot, _, err := svc.Snapshot(context.Background(), FacilityQuery{IncludeLibraries: true})
	require.NoError(t, err)

	facility, ok := snapshot.Facilities["Grainger Engineering Library"]
	require.True(t, ok)
	assert.Equal(t, models.FacilityLibrary, facility.Type)
	assert.True(t, facility.IsOpen)
	assert.Equal(t, "1301 W Springfield Ave", facility.Address)
	assert.NotZero(t, facility.Coordinates.Latitude)

	room := facility.Rooms["Room 101"]
	require.NotNil(t, room.Library)
	assert.Equal(t, "https://uiuc.libcal.com/space/500", room.Library.URL)
	assert.Equal(t, models.StateAvailable, room.Status().State)
	require.NotNil(t, room.Status().AvailableUntil)
	assert.Equal(t, "14:00:00", room.Status().AvailableUntil.String())
	assert.Len(t, room.Library.Slots, 2)
}

func TestSnapshotPropagatesUpstreamError(t *testing.T) {
	client := &fakeLibCalClient{page: "resources.push({});", gridErr: appErrors.ErrUpstream}
	libraries := []models.LibraryInfo{{ID: "3606", Name: "Grainger Engineering Library"}}
	libcalSvc := NewLibCalService(client, libraries, "https://uiuc.libcal.com", time.UTC, nil)
	hoursSvc := NewHoursService(DefaultLibraryHours(), time.UTC)

	svc := NewAvailabilityService(&fakeClassStore{}, libcalSvc, hoursSvc, nil, nil, availabilityTestConfig(false), time.UTC, nil)

	_, _, err := svc.Snapshot(context.Background(), FacilityQuery{IncludeLibraries: true})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}
