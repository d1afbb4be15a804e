package models

import "time"

// RoomType classifies a room.
type RoomType string

const (
	RoomTypeNormal     RoomType = "NORMAL"
	RoomTypeLab        RoomType = "LAB"
	RoomTypeAuditorium RoomType = "AUDITORIUM"
)

// Room represents a schedulable classroom.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      RoomType  `db:"type" json:"type"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Type        RoomType
	MinCapacity int
	Active      *bool
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
