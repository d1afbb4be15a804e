package models

import "time"

// Teacher represents an instructor record together with the disciplines
// they are qualified to teach.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Expertise *string   `db:"expertise" json:"expertise,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// DisciplineIDs is loaded from the teacher_disciplines join table.
	DisciplineIDs []string `db:"-" json:"discipline_ids,omitempty"`
}

// Teaches reports whether the teacher is qualified for the discipline.
func (t Teacher) Teaches(disciplineID string) bool {
	for _, id := range t.DisciplineIDs {
		if id == disciplineID {
			return true
		}
	}
	return false
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
