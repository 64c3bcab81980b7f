package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/plon/illinispots-sub000/internal/models"
)

// checkoutTag marks a grid slot already booked (checked out). Classification
// is by this exact tag value, not by tag presence.
const checkoutTag = "s-lc-eq-checkout"

const slotTimeLayout = "2006-01-02 15:04:05"

type libcalClient interface {
	FetchSpacesPage(ctx context.Context) (string, error)
	FetchAvailabilityGrid(ctx context.Context, facilityID, startDate, endDate string) (*models.ReservationResponse, error)
}

// LinkedRoom pairs a study room resource with its normalized day schedule.
type LinkedRoom struct {
	Room     models.StudyRoom
	Schedule models.RoomSchedule
}

// LibCalService fetches the booking service's room catalog and availability
// grid and links them into per-room schedules.
type LibCalService struct {
	client    libcalClient
	libraries []models.LibraryInfo
	origin    string
	loc       *time.Location
	logger    *zap.Logger
}

// NewLibCalService instantiates the service.
func NewLibCalService(client libcalClient, libraries []models.LibraryInfo, origin string, loc *time.Location, logger *zap.Logger) *LibCalService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibCalService{client: client, libraries: libraries, origin: origin, loc: loc, logger: logger}
}

// Libraries returns the configured facility registry.
func (s *LibCalService) Libraries() []models.LibraryInfo {
	return s.libraries
}

// FetchRooms retrieves and parses the spaces catalog into room resources.
// An unparseable page yields an empty set, not an error.
func (s *LibCalService) FetchRooms(ctx context.Context) ([]models.StudyRoom, error) {
	page, err := s.client.FetchSpacesPage(ctx)
	if err != nil {
		return nil, err
	}
	rooms := ExtractStudyRooms(page, s.origin)
	if len(rooms) == 0 {
		s.logger.Warn("spaces page yielded no room resources")
	}
	return rooms, nil
}

// FetchBusyIntervals requests the availability grid for [today, tomorrow).
// For a facility whose hours wrap past midnight a second request covers
// [tomorrow, day after); the upstream only returns slots strictly inside the
// requested span, so a single-day request would truncate the overnight tail.
func (s *LibCalService) FetchBusyIntervals(ctx context.Context, lib models.LibraryInfo, now time.Time) (*models.ReservationResponse, error) {
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	tomorrow := today.AddDate(0, 0, 1)

	grid, err := s.client.FetchAvailabilityGrid(ctx, lib.ID, today.Format("2006-01-02"), tomorrow.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	if lib.OvernightCutoff != "" {
		dayAfter := tomorrow.AddDate(0, 0, 1)
		overflow, err := s.client.FetchAvailabilityGrid(ctx, lib.ID, tomorrow.Format("2006-01-02"), dayAfter.Format("2006-01-02"))
		if err != nil {
			return nil, err
		}
		grid.Slots = append(grid.Slots, overflow.Slots...)
	}

	return grid, nil
}

// LinkRoomSchedules joins room resources with grid slots by room item id.
// Only slots on the reference day survive, plus, for overnight facilities,
// next-day slots starting before the early-morning cutoff, which continue
// the current open period. Rooms absent from the grid get an empty schedule
// and so count as fully available. The result is keyed by display title,
// which the upstream space listing keeps unique within a library; two rooms
// sharing a title would collapse into one entry.
func (s *LibCalService) LinkRoomSchedules(rooms []models.StudyRoom, grid *models.ReservationResponse, lib models.LibraryInfo, now time.Time) map[string]LinkedRoom {
	linked := make(map[string]LinkedRoom)

	libID, err := strconv.Atoi(lib.ID)
	if err != nil {
		s.logger.Warn("invalid library id", zap.String("id", lib.ID))
		return linked
	}

	local := now.In(s.loc)
	refDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	var cutoff *models.TimeOfDay
	if lib.OvernightCutoff != "" {
		if c, err := models.ParseTimeOfDay(lib.OvernightCutoff); err == nil {
			next := c.OnNextDay()
			cutoff = &next
		}
	}

	for _, room := range rooms {
		if room.LID != libID {
			continue
		}

		type parsedSlot struct {
			start, end time.Time
			reserved   bool
		}
		var slots []parsedSlot
		for _, slot := range grid.Slots {
			if slot.ItemID != room.EID {
				continue
			}
			start, err := parseSlotTime(slot.Start, s.loc)
			if err != nil {
				continue
			}
			end, err := parseSlotTime(slot.End, s.loc)
			if err != nil {
				continue
			}
			slots = append(slots, parsedSlot{start: start, end: end, reserved: slot.ClassName == checkoutTag})
		}
		sort.Slice(slots, func(i, j int) bool { return slots[i].start.Before(slots[j].start) })

		var intervals []models.Interval
		for _, slot := range slots {
			startTod := models.TimeOfDayAt(slot.start, refDay)
			sameDay := !startTod.IsNextDay()
			folded := cutoff != nil && startTod.IsNextDay() && startTod.Before(*cutoff)
			if !sameDay && !folded {
				continue
			}

			endTod := models.TimeOfDayAt(slot.end, refDay)
			if cutoff != nil && endTod.After(*cutoff) {
				endTod = *cutoff
			}

			status := models.BlockAvailable
			if slot.reserved {
				status = models.BlockReserved
			}
			iv, err := models.NewInterval(startTod, endTod, status, nil)
			if err != nil {
				continue
			}
			intervals = append(intervals, iv)
		}

		schedule, err := models.NewRoomSchedule(mergeContiguous(intervals))
		if err != nil {
			s.logger.Warn("dropping overlapping slots", zap.String("room", room.Title), zap.Error(err))
			schedule = models.RoomSchedule{}
		}

		linked[room.Title] = LinkedRoom{Room: room, Schedule: schedule}
	}

	return linked
}

// mergeContiguous coalesces back-to-back intervals of the same status so a
// continuous available (or reserved) run is a single interval.
func mergeContiguous(intervals []models.Interval) []models.Interval {
	if len(intervals) == 0 {
		return intervals
	}
	merged := []models.Interval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.Status == last.Status && iv.Start.Equal(last.End) {
			last.End = iv.End
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func parseSlotTime(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(slotTimeLayout, raw, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.RFC3339, raw, loc)
}
