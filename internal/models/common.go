package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Shift is a coarse daily period with its own slot list.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftEvening   Shift = "EVENING"
)

// ValidShift reports whether the value names a known shift.
func ValidShift(s Shift) bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return true
	}
	return false
}

// ShiftPolicy restricts which shifts a class group may be scheduled into.
type ShiftPolicy string

const (
	PolicyMorning   ShiftPolicy = "MORNING"
	PolicyAfternoon ShiftPolicy = "AFTERNOON"
	PolicyEvening   ShiftPolicy = "EVENING"
	PolicyFullDay   ShiftPolicy = "FULL_DAY"
	PolicyFlexible  ShiftPolicy = "FLEXIBLE"
)

// AllowedShifts expands a shift policy into the concrete shift set.
func (p ShiftPolicy) AllowedShifts() []Shift {
	switch p {
	case PolicyMorning:
		return []Shift{ShiftMorning}
	case PolicyAfternoon:
		return []Shift{ShiftAfternoon}
	case PolicyEvening:
		return []Shift{ShiftEvening}
	case PolicyFullDay:
		return []Shift{ShiftMorning, ShiftAfternoon}
	default:
		return []Shift{ShiftMorning, ShiftAfternoon, ShiftEvening}
	}
}

// Weekday indexing is 1=Monday .. 5=Friday across the whole API: request
// payloads, persisted sessions and engine internals all share it.
const (
	WeekdayMonday = 1
	WeekdayFriday = 5
)

var weekdayNames = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
}

// WeekdayName returns the canonical upper-case name for a weekday index.
func WeekdayName(day int) string {
	if name, ok := weekdayNames[day]; ok {
		return name
	}
	return "MONDAY"
}
