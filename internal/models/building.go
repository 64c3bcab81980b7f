package models

import (
	"database/sql"
	"time"
)

// Building is an academic building row from the campus dataset.
type Building struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	OpenTime  string    `db:"open_time" json:"open_time"`
	CloseTime string    `db:"close_time" json:"close_time"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassMeeting is one busy block for an academic room on a given date,
// sourced from the timetable feed. BlockType is "class" for timetabled
// sections and "event" for one-off bookings.
type ClassMeeting struct {
	BuildingID string         `db:"building_id" json:"building_id"`
	RoomNumber string         `db:"room_number" json:"room_number"`
	BlockType  string         `db:"block_type" json:"block_type"`
	Course     sql.NullString `db:"course" json:"course"`
	Identifier sql.NullString `db:"identifier" json:"identifier"`
	Title      string         `db:"title" json:"title"`
	StartTime  string         `db:"start_time" json:"start_time"`
	EndTime    string         `db:"end_time" json:"end_time"`
}
