package models

import "time"

// ClassGroup is a cohort of students scheduled together.
type ClassGroup struct {
	ID           string      `db:"id" json:"id"`
	Code         string      `db:"code" json:"code"`
	GradeLevel   string      `db:"grade_level" json:"grade_level"`
	StudentCount int         `db:"student_count" json:"student_count"`
	ShiftPolicy  ShiftPolicy `db:"shift_policy" json:"shift_policy"`
	Active       bool        `db:"active" json:"active"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`

	// DisciplineIDs is loaded from the class_group_disciplines join table.
	DisciplineIDs []string `db:"-" json:"discipline_ids,omitempty"`
}

// ClassGroupFilter captures filtering options for class group listings.
type ClassGroupFilter struct {
	GradeLevel string
	Search     string
	Active     *bool
	IDs        []string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
