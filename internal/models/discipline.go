package models

import "time"

// Discipline is a taught subject with a weekly session demand.
type Discipline struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	CourseArea     string    `db:"course_area" json:"course_area"`
	WeeklySessions int       `db:"weekly_sessions" json:"weekly_sessions"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// DisciplineFilter captures filters for discipline listings.
type DisciplineFilter struct {
	CourseArea string
	Search     string
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
