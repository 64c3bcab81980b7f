package service

import (
	"fmt"

	"github.com/plon/illinispots-sub000/internal/models"
)

// BuildAcademicSchedule turns a room's timetabled busy blocks into a full
// day schedule bounded by the building's operating hours. Gaps between
// blocks, and the spans before the first and after the last block, become
// available intervals so the whole open period tiles without holes.
func BuildAcademicSchedule(meetings []models.ClassMeeting, open, close models.TimeOfDay) (models.RoomSchedule, error) {
	var intervals []models.Interval

	cursor := open
	for _, meeting := range meetings {
		iv, err := meetingInterval(meeting)
		if err != nil {
			return models.RoomSchedule{}, err
		}
		// Drop blocks entirely outside the operating window and clip the
		// rest to it.
		if !iv.Start.Before(close) || !open.Before(iv.End) {
			continue
		}
		if iv.Start.Before(cursor) {
			iv.Start = cursor
		}
		if close.Before(iv.End) {
			iv.End = close
		}
		if !iv.Start.Before(iv.End) {
			continue
		}
		if cursor.Before(iv.Start) {
			free, err := models.NewInterval(cursor, iv.Start, models.BlockAvailable, nil)
			if err != nil {
				return models.RoomSchedule{}, err
			}
			intervals = append(intervals, free)
		}
		intervals = append(intervals, iv)
		if cursor.Before(iv.End) {
			cursor = iv.End
		}
	}

	if cursor.Before(close) {
		free, err := models.NewInterval(cursor, close, models.BlockAvailable, nil)
		if err != nil {
			return models.RoomSchedule{}, err
		}
		intervals = append(intervals, free)
	}

	return models.NewRoomSchedule(intervals)
}

// meetingInterval converts one timetable row into a busy interval.
func meetingInterval(meeting models.ClassMeeting) (models.Interval, error) {
	start, err := models.ParseTimeOfDay(meeting.StartTime)
	if err != nil {
		return models.Interval{}, fmt.Errorf("meeting %s %s start: %w", meeting.BuildingID, meeting.RoomNumber, err)
	}
	end, err := models.ParseTimeOfDay(meeting.EndTime)
	if err != nil {
		return models.Interval{}, fmt.Errorf("meeting %s %s end: %w", meeting.BuildingID, meeting.RoomNumber, err)
	}

	status := models.BlockClass
	if meeting.BlockType == models.BlockEvent {
		status = models.BlockEvent
	}

	details := &models.BlockDetails{
		Type:  status,
		Title: meeting.Title,
	}
	if meeting.Course.Valid {
		details.Course = meeting.Course.String
	}
	if meeting.Identifier.Valid {
		details.Identifier = meeting.Identifier.String
	}

	return models.NewInterval(start, end, status, details)
}
