package models

import "time"

// Session is one committed weekly meeting of a class group and discipline,
// bound to a teacher, room and time slot.
type Session struct {
	ID           string    `db:"id" json:"id"`
	ClassGroupID string    `db:"class_group_id" json:"class_group_id"`
	DisciplineID string    `db:"discipline_id" json:"discipline_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	RoomID       string    `db:"room_id" json:"room_id"`
	Weekday      int       `db:"weekday" json:"weekday"`
	Shift        Shift     `db:"shift" json:"shift"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SessionFilter describes query params for listing sessions.
type SessionFilter struct {
	ClassGroupID string
	TeacherID    string
	RoomID       string
	DisciplineID string
	Weekday      int
	Shift        Shift
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// SessionDetail enriches a session with display names for listings and
// exports.
type SessionDetail struct {
	Session
	ClassGroupCode string `db:"class_group_code" json:"class_group_code"`
	DisciplineName string `db:"discipline_name" json:"discipline_name"`
	TeacherName    string `db:"teacher_name" json:"teacher_name"`
	RoomName       string `db:"room_name" json:"room_name"`
}
