package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plon/illinispots-sub000/internal/models"
	appErrors "github.com/plon/illinispots-sub000/pkg/errors"
	"github.com/plon/illinispots-sub000/pkg/export"
)

type roomScheduleStore interface {
	GetBuilding(ctx context.Context, id string) (*models.Building, error)
	ListRoomMeetings(ctx context.Context, buildingID, roomNumber, date string) ([]models.ClassMeeting, error)
}

// RoomScheduleQuery identifies one academic room's day view. Relative trims
// the view to the remainder of the day.
type RoomScheduleQuery struct {
	BuildingID string `validate:"required"`
	RoomNumber string `validate:"required"`
	Relative   bool
}

// RoomDaySchedule is one room's full or remaining day, rendered as hourly
// blocks.
type RoomDaySchedule struct {
	BuildingID   string               `json:"buildingId"`
	BuildingName string               `json:"buildingName"`
	RoomNumber   string               `json:"roomNumber"`
	Date         string               `json:"date"`
	Hours        models.HoursSummary  `json:"hours"`
	Blocks       []models.HourlyBlock `json:"blocks"`
}

// ScheduleService renders per-room day schedules from the timetable store
// and exports them as CSV or PDF.
type ScheduleService struct {
	classes        roomScheduleStore
	csv            *export.CSVExporter
	pdf            *export.PDFExporter
	exportsEnabled bool
	loc            *time.Location
	logger         *zap.Logger
	now            func() time.Time
}

// NewScheduleService wires the schedule renderer.
func NewScheduleService(classes roomScheduleStore, exportsEnabled bool, loc *time.Location, logger *zap.Logger) *ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		classes:        classes,
		csv:            export.NewCSVExporter(),
		pdf:            export.NewPDFExporter(),
		exportsEnabled: exportsEnabled,
		loc:            loc,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock overrides the service's time source.
func (s *ScheduleService) WithClock(now func() time.Time) *ScheduleService {
	s.now = now
	return s
}

// Schedule builds the room's day view. A room with no timetable rows renders
// as one fully available day inside the building's hours.
func (s *ScheduleService) Schedule(ctx context.Context, query RoomScheduleQuery) (*RoomDaySchedule, error) {
	building, err := s.classes.GetBuilding(ctx, query.BuildingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("building %s not found", query.BuildingID))
		}
		return nil, err
	}

	open, err := models.ParseTimeOfDay(building.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("building %s open time: %w", building.ID, err)
	}
	close, err := models.ParseTimeOfDay(building.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("building %s close time: %w", building.ID, err)
	}

	now := s.now().In(s.loc)
	date := now.Format("2006-01-02")

	meetings, err := s.classes.ListRoomMeetings(ctx, query.BuildingID, query.RoomNumber, date)
	if err != nil {
		return nil, err
	}

	schedule, err := BuildAcademicSchedule(meetings, open, close)
	if err != nil {
		return nil, err
	}

	if query.Relative {
		schedule = trimToRemainder(schedule, models.TimeOfDayAt(now, now))
	}

	return &RoomDaySchedule{
		BuildingID:   building.ID,
		BuildingName: building.Name,
		RoomNumber:   query.RoomNumber,
		Date:         date,
		Hours:        models.HoursSummary{Open: building.OpenTime, Close: building.CloseTime},
		Blocks:       BuildHourlyBlocks(schedule),
	}, nil
}

// Export renders the room's day view in the requested format.
func (s *ScheduleService) Export(ctx context.Context, query RoomScheduleQuery, format string) (string, string, []byte, error) {
	if !s.exportsEnabled {
		return "", "", nil, appErrors.ErrDisabled
	}

	view, err := s.Schedule(ctx, query)
	if err != nil {
		return "", "", nil, err
	}

	dataset := scheduleDataset(view)
	base := fmt.Sprintf("schedule_%s_%s_%s", view.BuildingID, view.RoomNumber, view.Date)

	switch strings.ToLower(format) {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return "", "", nil, err
		}
		return base + ".csv", "text/csv", payload, nil
	case "pdf":
		title := fmt.Sprintf("%s %s %s", view.BuildingName, view.RoomNumber, view.Date)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return "", "", nil, err
		}
		return base + ".pdf", "application/pdf", payload, nil
	default:
		return "", "", nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

// trimToRemainder keeps only the part of the schedule that is still ahead.
// Finished intervals drop out and the interval containing the instant is cut
// down, with its new start floored to a 10 minute boundary so the rendered
// lead block starts on a tidy mark.
func trimToRemainder(schedule models.RoomSchedule, now models.TimeOfDay) models.RoomSchedule {
	var kept []models.Interval
	for _, iv := range schedule.Intervals {
		if !now.Before(iv.End) {
			continue
		}
		if iv.Contains(now) {
			floored := now.FloorToMinutes(10)
			if iv.Start.Before(floored) {
				iv.Start = floored
			}
		}
		kept = append(kept, iv)
	}
	return models.RoomSchedule{Intervals: kept}
}

// scheduleDataset flattens the block sections into an export table.
func scheduleDataset(view *RoomDaySchedule) export.Dataset {
	dataset := export.Dataset{Columns: []string{"Start", "End", "Status", "Occupant"}}
	for _, block := range view.Blocks {
		for _, section := range block.Sections {
			occupant := ""
			if section.Details != nil {
				occupant = section.Details.Title
				if section.Details.Course != "" {
					occupant = section.Details.Course + " " + occupant
				}
			}
			dataset.Rows = append(dataset.Rows, []string{
				section.Start.String(),
				section.End.String(),
				section.Status,
				occupant,
			})
		}
	}
	return dataset
}
