package export

// Timetable is a renderable weekly grid: one column per weekday, one row
// per time slot.
type Timetable struct {
	Title string
	Days  []string
	Rows  []TimetableRow
}

// TimetableRow holds the cell content for a single time slot across the week.
type TimetableRow struct {
	Time  string
	Cells []string
}
