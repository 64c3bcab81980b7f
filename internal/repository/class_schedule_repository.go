package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/plon/illinispots-sub000/internal/models"
)

// ClassScheduleRepository reads academic buildings and their timetabled busy
// blocks from the campus dataset.
type ClassScheduleRepository struct {
	db *sqlx.DB
}

// NewClassScheduleRepository creates a new class schedule repository.
func NewClassScheduleRepository(db *sqlx.DB) *ClassScheduleRepository {
	return &ClassScheduleRepository{db: db}
}

// ListBuildings returns every academic building with coordinates and hours.
func (r *ClassScheduleRepository) ListBuildings(ctx context.Context) ([]models.Building, error) {
	const query = `SELECT id, name, latitude, longitude, open_time, close_time, updated_at FROM buildings ORDER BY name ASC`
	var buildings []models.Building
	if err := r.db.SelectContext(ctx, &buildings, query); err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}

// GetBuilding returns one building by id.
func (r *ClassScheduleRepository) GetBuilding(ctx context.Context, id string) (*models.Building, error) {
	const query = `SELECT id, name, latitude, longitude, open_time, close_time, updated_at FROM buildings WHERE id = $1`
	var building models.Building
	if err := r.db.GetContext(ctx, &building, query, id); err != nil {
		return nil, fmt.Errorf("get building %s: %w", id, err)
	}
	return &building, nil
}

// ListMeetingsForDate returns every busy block across all buildings for one
// calendar date, ordered per room chronologically.
func (r *ClassScheduleRepository) ListMeetingsForDate(ctx context.Context, date string) ([]models.ClassMeeting, error) {
	const query = `SELECT building_id, room_number, block_type, course, identifier, title, start_time, end_time FROM class_meetings WHERE meeting_date = $1 ORDER BY building_id ASC, room_number ASC, start_time ASC`
	var meetings []models.ClassMeeting
	if err := r.db.SelectContext(ctx, &meetings, query, date); err != nil {
		return nil, fmt.Errorf("list meetings for %s: %w", date, err)
	}
	return meetings, nil
}

// ListRoomMeetings returns the busy blocks for a single room on one date.
func (r *ClassScheduleRepository) ListRoomMeetings(ctx context.Context, buildingID, roomNumber, date string) ([]models.ClassMeeting, error) {
	const query = `SELECT building_id, room_number, block_type, course, identifier, title, start_time, end_time FROM class_meetings WHERE building_id = $1 AND room_number = $2 AND meeting_date = $3 ORDER BY start_time ASC`
	var meetings []models.ClassMeeting
	if err := r.db.SelectContext(ctx, &meetings, query, buildingID, roomNumber, date); err != nil {
		return nil, fmt.Errorf("list meetings for %s %s: %w", buildingID, roomNumber, err)
	}
	return meetings, nil
}
