package models

import "time"

// AvailabilityRule scopes a teacher's standing availability. Unset optional
// scopes (weekday, shift, discipline) mean the rule applies to every value
// of that dimension.
type AvailabilityRule struct {
	ID           string    `db:"id" json:"id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	DisciplineID *string   `db:"discipline_id" json:"discipline_id,omitempty"`
	Weekday      *int      `db:"weekday" json:"weekday,omitempty"`
	Shift        *Shift    `db:"shift" json:"shift,omitempty"`
	Available    bool      `db:"available" json:"available"`
	Preferred    bool      `db:"preferred" json:"preferred"`
	Priority     int       `db:"priority" json:"priority"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AppliesTo reports whether the rule covers the queried weekday, shift and
// discipline, treating unset scopes as wildcards.
func (r AvailabilityRule) AppliesTo(weekday int, shift Shift, disciplineID string) bool {
	if r.Weekday != nil && *r.Weekday != weekday {
		return false
	}
	if r.Shift != nil && *r.Shift != shift {
		return false
	}
	if r.DisciplineID != nil && *r.DisciplineID != disciplineID {
		return false
	}
	return true
}

// TemporaryBlock forces a teacher unavailable for a date window. A
// recurring block repeats every week on the weekday of its start date
// instead of expiring with the window.
type TemporaryBlock struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Shift     *Shift    `db:"shift" json:"shift,omitempty"`
	Recurring bool      `db:"recurring" json:"recurring"`
	Reason    string    `db:"reason" json:"reason"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AnchorWeekday is the 1=Monday..5=Friday weekday a recurring block pins
// to, 0 when the start date falls on a weekend.
func (b TemporaryBlock) AnchorWeekday() int {
	switch b.StartDate.Weekday() {
	case time.Monday:
		return 1
	case time.Tuesday:
		return 2
	case time.Wednesday:
		return 3
	case time.Thursday:
		return 4
	case time.Friday:
		return 5
	}
	return 0
}
