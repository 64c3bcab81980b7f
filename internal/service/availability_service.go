package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/plon/illinispots-sub000/internal/models"
	"github.com/plon/illinispots-sub000/pkg/config"
	appErrors "github.com/plon/illinispots-sub000/pkg/errors"
)

type classScheduleStore interface {
	ListBuildings(ctx context.Context) ([]models.Building, error)
	ListMeetingsForDate(ctx context.Context, date string) ([]models.ClassMeeting, error)
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// FacilityQuery selects which facility classes to compose and how to filter
// their rooms.
type FacilityQuery struct {
	IncludeAcademic  bool
	IncludeLibraries bool
	MinDuration      int    `validate:"gte=0"`
	FreeUntil        string `validate:"omitempty,datetime=15:04"`
	StartTime        string `validate:"omitempty,datetime=15:04"`
}

// Criteria parses the query's filter fields.
func (q FacilityQuery) Criteria() (FilterCriteria, error) {
	criteria := FilterCriteria{MinDuration: q.MinDuration}
	if q.FreeUntil != "" {
		t, err := models.ParseTimeOfDay(q.FreeUntil)
		if err != nil {
			return FilterCriteria{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid freeUntil")
		}
		criteria.FreeUntil = &t
	}
	if q.StartTime != "" {
		t, err := models.ParseTimeOfDay(q.StartTime)
		if err != nil {
			return FilterCriteria{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid startTime")
		}
		criteria.StartTime = &t
	}
	return criteria, nil
}

// AvailabilityService composes the campus-wide facility snapshot: academic
// buildings resolved from the timetable store, libraries resolved from the
// booking grid, both sides fetched concurrently and cached as one payload.
type AvailabilityService struct {
	classes  classScheduleStore
	libcal   *LibCalService
	hours    *HoursService
	cache    availabilityCache
	coords   map[string]models.Coordinates
	cfg      config.AvailabilityConfig
	resolver ResolverConfig
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewAvailabilityService wires the snapshot composer.
func NewAvailabilityService(
	classes classScheduleStore,
	libcal *LibCalService,
	hours *HoursService,
	cache availabilityCache,
	coords map[string]models.Coordinates,
	cfg config.AvailabilityConfig,
	loc *time.Location,
	logger *zap.Logger,
) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		classes: classes,
		libcal:  libcal,
		hours:   hours,
		cache:   cache,
		coords:  coords,
		cfg:     cfg,
		resolver: ResolverConfig{
			MinUsefulMinutes:         cfg.MinUsefulMinutes,
			OpeningSoonWindowMinutes: cfg.OpeningSoonWindowMinutes,
			PassingPeriodMaxMinutes:  cfg.PassingPeriodMaxMinutes,
		},
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service's time source.
func (s *AvailabilityService) WithClock(now func() time.Time) *AvailabilityService {
	s.now = now
	return s
}

// Snapshot composes the facility availability payload for the query. The
// second return reports whether the payload came from cache. Filter criteria
// are applied after caching so one cached payload serves every filter.
func (s *AvailabilityService) Snapshot(ctx context.Context, query FacilityQuery) (*models.FacilityStatus, bool, error) {
	criteria, err := query.Criteria()
	if err != nil {
		return nil, false, err
	}

	now := s.now().In(s.loc)
	nowTod := models.TimeOfDayAt(now, now)

	cacheKey := fmt.Sprintf("availability:snapshot:academic=%t:libraries=%t", query.IncludeAcademic, query.IncludeLibraries)
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached models.FacilityStatus
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.applyCriteria(&cached, criteria, nowTod)
			return &cached, true, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("availability cache read failed", zap.Error(err))
		}
	}

	status := &models.FacilityStatus{
		Timestamp:  now.Format(time.RFC3339),
		Facilities: make(map[string]models.Facility),
	}

	var (
		wg          sync.WaitGroup
		academic    map[string]models.Facility
		libraries   map[string]models.Facility
		academicErr error
		libraryErr  error
	)

	if query.IncludeAcademic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			academic, academicErr = s.buildAcademicFacilities(ctx, now)
		}()
	}
	if query.IncludeLibraries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			libraries, libraryErr = s.buildLibraryFacilities(ctx, now)
		}()
	}
	wg.Wait()

	if academicErr != nil {
		return nil, false, academicErr
	}
	if libraryErr != nil {
		return nil, false, libraryErr
	}

	for name, facility := range academic {
		status.Facilities[name] = facility
	}
	for name, facility := range libraries {
		status.Facilities[name] = facility
	}

	if s.cfg.CacheEnabled && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, status, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("availability cache write failed", zap.Error(err))
		}
	}

	s.applyCriteria(status, criteria, nowTod)
	return status, false, nil
}

// InvalidateSnapshots drops every cached snapshot variant.
func (s *AvailabilityService) InvalidateSnapshots(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPattern(ctx, "availability:snapshot:*")
}

// buildAcademicFacilities resolves every academic building from today's
// timetable rows.
func (s *AvailabilityService) buildAcademicFacilities(ctx context.Context, now time.Time) (map[string]models.Facility, error) {
	buildings, err := s.classes.ListBuildings(ctx)
	if err != nil {
		return nil, err
	}
	meetings, err := s.classes.ListMeetingsForDate(ctx, now.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	byBuilding := make(map[string]map[string][]models.ClassMeeting)
	for _, meeting := range meetings {
		rooms, ok := byBuilding[meeting.BuildingID]
		if !ok {
			rooms = make(map[string][]models.ClassMeeting)
			byBuilding[meeting.BuildingID] = rooms
		}
		rooms[meeting.RoomNumber] = append(rooms[meeting.RoomNumber], meeting)
	}

	nowTod := models.TimeOfDayAt(now, now)
	facilities := make(map[string]models.Facility, len(buildings))

	for _, building := range buildings {
		open, err := models.ParseTimeOfDay(building.OpenTime)
		if err != nil {
			return nil, fmt.Errorf("building %s open time: %w", building.ID, err)
		}
		close, err := models.ParseTimeOfDay(building.CloseTime)
		if err != nil {
			return nil, fmt.Errorf("building %s close time: %w", building.ID, err)
		}

		isOpen := !nowTod.Before(open) && nowTod.Before(close)
		facility := models.Facility{
			ID:   building.ID,
			Name: building.Name,
			Type: models.FacilityAcademic,
			Coordinates: models.Coordinates{
				Latitude:  building.Latitude,
				Longitude: building.Longitude,
			},
			Hours:  models.HoursSummary{Open: building.OpenTime, Close: building.CloseTime},
			IsOpen: isOpen,
			Rooms:  make(map[string]models.FacilityRoom),
		}

		for roomNumber, roomMeetings := range byBuilding[building.ID] {
			schedule, err := BuildAcademicSchedule(roomMeetings, open, close)
			if err != nil {
				s.logger.Warn("skipping room with malformed timetable",
					zap.String("building", building.ID), zap.String("room", roomNumber), zap.Error(err))
				continue
			}
			roomStatus := ResolveRoomStatus(schedule, nowTod, &close, s.resolver)
			facility.Rooms[roomNumber] = models.NewAcademicRoom(models.AcademicRoom{RoomStatus: roomStatus})
		}

		facility.RoomCounts = countRooms(facility.Rooms, isOpen)
		facilities[building.Name] = facility
	}

	return facilities, nil
}

// buildLibraryFacilities resolves every configured library from the booking
// service, fetching the per-facility grids concurrently.
func (s *AvailabilityService) buildLibraryFacilities(ctx context.Context, now time.Time) (map[string]models.Facility, error) {
	rooms, err := s.libcal.FetchRooms(ctx)
	if err != nil {
		return nil, err
	}

	nowTod := models.TimeOfDayAt(now, now)
	facilities := make(map[string]models.Facility)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, lib := range s.libcal.Libraries() {
		lib := lib
		wg.Add(1)
		go func() {
			defer wg.Done()

			grid, err := s.libcal.FetchBusyIntervals(ctx, lib, now)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			linked := s.libcal.LinkRoomSchedules(rooms, grid, lib, now)

			isOpen := s.hours.IsOpenAt(lib.Name, now)
			closeAt := s.hours.CloseBoundary(lib.Name, now)

			facility := models.Facility{
				ID:          lib.ID,
				Name:        lib.Name,
				Type:        models.FacilityLibrary,
				Coordinates: s.coords[lib.Name],
				IsOpen:      isOpen,
				Rooms:       make(map[string]models.FacilityRoom, len(linked)),
				Address:     lib.Address,
			}
			if rule, ok := s.hours.TodayRule(lib.Name, now); ok {
				facility.Hours = models.HoursSummary{
					Open:  fmt.Sprintf("%02d:%02d", rule.Open.Hour(), rule.Open.Minute()),
					Close: fmt.Sprintf("%02d:%02d", rule.Close.Hour(), rule.Close.Minute()),
				}
			}

			for title, link := range linked {
				roomStatus := ResolveRoomStatus(link.Schedule, nowTod, closeAt, s.resolver)
				facility.Rooms[title] = models.NewLibraryRoom(models.LibraryRoom{
					URL:        link.Room.URL,
					Thumbnail:  link.Room.Thumbnail,
					Slots:      link.Schedule.Intervals,
					RoomStatus: roomStatus,
				})
			}
			facility.RoomCounts = countRooms(facility.Rooms, isOpen)

			mu.Lock()
			facilities[lib.Name] = facility
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return facilities, nil
}

// applyCriteria drops rooms failing the filter and refreshes the counts.
// Facilities keep their entry even when every room is filtered out, so the
// map stays a complete campus directory.
func (s *AvailabilityService) applyCriteria(status *models.FacilityStatus, criteria FilterCriteria, now models.TimeOfDay) {
	if criteria.Empty() {
		return
	}
	for name, facility := range status.Facilities {
		for roomName, room := range facility.Rooms {
			if !MatchesCriteria(room.Status(), criteria, now) {
				delete(facility.Rooms, roomName)
			}
		}
		facility.RoomCounts = countRooms(facility.Rooms, facility.IsOpen)
		status.Facilities[name] = facility
	}
}

// countRooms tallies availability. A closed facility reports zero available
// regardless of how its rooms resolved.
func countRooms(rooms map[string]models.FacilityRoom, isOpen bool) models.RoomCounts {
	counts := models.RoomCounts{Total: len(rooms)}
	if !isOpen {
		return counts
	}
	for _, room := range rooms {
		if room.Status().State == models.StateAvailable {
			counts.Available++
		}
	}
	return counts
}
