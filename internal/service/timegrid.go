package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edusched/timetable-api/internal/models"
)

// timeSlot is one teaching period on the fixed weekly grid.
type timeSlot struct {
	Start string
	End   string
}

// shiftSlots is the static teaching grid. The afternoon list carries the
// fixed 14:40 to 15:10 break, so consecutive entries there are not always
// contiguous in clock time.
var shiftSlots = map[models.Shift][]timeSlot{
	models.ShiftMorning: {
		{Start: "07:00", End: "07:50"},
		{Start: "07:50", End: "08:40"},
		{Start: "09:00", End: "09:50"},
		{Start: "09:50", End: "10:40"},
		{Start: "10:40", End: "11:30"},
		{Start: "11:30", End: "12:20"},
	},
	models.ShiftAfternoon: {
		{Start: "13:00", End: "13:50"},
		{Start: "13:50", End: "14:40"},
		{Start: "15:10", End: "16:00"},
		{Start: "16:00", End: "16:50"},
		{Start: "16:50", End: "17:40"},
	},
	models.ShiftEvening: {
		{Start: "19:20", End: "20:10"},
		{Start: "20:10", End: "21:00"},
		{Start: "21:10", End: "22:00"},
		{Start: "22:00", End: "22:50"},
	},
}

// slotsForShift returns the ordered teaching periods of a shift.
func slotsForShift(shift models.Shift) []timeSlot {
	return shiftSlots[shift]
}

// parseClock converts "HH:MM" into minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", value)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hours*60 + minutes, nil
}

// intervalsOverlap reports whether the half-open intervals [aStart,aEnd)
// and [bStart,bEnd) intersect. Any parse failure counts as an overlap so
// that corrupt data can never silently double-book a resource.
func intervalsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	a1, err := parseClock(aStart)
	if err != nil {
		return true
	}
	a2, err := parseClock(aEnd)
	if err != nil {
		return true
	}
	b1, err := parseClock(bStart)
	if err != nil {
		return true
	}
	b2, err := parseClock(bEnd)
	if err != nil {
		return true
	}
	return a1 < b2 && b1 < a2
}

// slotsAdjacent reports whether one slot ends exactly where the other
// starts, in either order.
func slotsAdjacent(aStart, aEnd, bStart, bEnd string) bool {
	return aEnd == bStart || bEnd == aStart
}

// gapBetween returns the positive gap in minutes between two same-day
// slots, 0 when they touch or overlap or cannot be parsed.
func gapBetween(aStart, aEnd, bStart, bEnd string) int {
	a1, err := parseClock(aStart)
	if err != nil {
		return 0
	}
	a2, err := parseClock(aEnd)
	if err != nil {
		return 0
	}
	b1, err := parseClock(bStart)
	if err != nil {
		return 0
	}
	b2, err := parseClock(bEnd)
	if err != nil {
		return 0
	}
	if a2 <= b1 {
		return b1 - a2
	}
	if b2 <= a1 {
		return a1 - b2
	}
	return 0
}
