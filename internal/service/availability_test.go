package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edusched/timetable-api/internal/models"
)

func strPtr(s string) *string          { return &s }
func intPtr(i int) *int                { return &i }
func shiftPtr(s models.Shift) *models.Shift { return &s }

func TestAvailabilityDefaultsToAvailable(t *testing.T) {
	eval := newAvailabilityEvaluator(nil, nil)
	ref := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, eval.IsAvailable("t1", 1, models.ShiftMorning, "math", ref))
	assert.Equal(t, 3, eval.PriorityScore("t1", 1, models.ShiftMorning, "math"))
}

func TestAvailabilityUnavailableRuleBlocks(t *testing.T) {
	rules := map[string][]models.AvailabilityRule{
		"t1": {
			{TeacherID: "t1", Weekday: intPtr(1), Available: false},
			{TeacherID: "t1", Weekday: intPtr(2), Shift: shiftPtr(models.ShiftMorning), Available: false},
			{TeacherID: "t1", DisciplineID: strPtr("chem"), Available: false},
		},
	}
	eval := newAvailabilityEvaluator(rules, nil)
	ref := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.False(t, eval.IsAvailable("t1", 1, models.ShiftMorning, "math", ref), "whole-day rule")
	assert.False(t, eval.IsAvailable("t1", 1, models.ShiftEvening, "math", ref), "whole-day rule covers every shift")
	assert.False(t, eval.IsAvailable("t1", 2, models.ShiftMorning, "math", ref), "day+shift rule")
	assert.True(t, eval.IsAvailable("t1", 2, models.ShiftAfternoon, "math", ref))
	assert.False(t, eval.IsAvailable("t1", 3, models.ShiftMorning, "chem", ref), "discipline-scoped rule")
	assert.True(t, eval.IsAvailable("t1", 3, models.ShiftMorning, "math", ref))
}

func TestAvailabilityPriorityScore(t *testing.T) {
	rules := map[string][]models.AvailabilityRule{
		"t1": {
			{TeacherID: "t1", Weekday: intPtr(4), Available: true, Priority: 5},
			{TeacherID: "t1", Weekday: intPtr(4), Shift: shiftPtr(models.ShiftMorning), Available: true, Priority: 2},
			{TeacherID: "t1", Weekday: intPtr(5), Available: false, Priority: 5},
		},
	}
	eval := newAvailabilityEvaluator(rules, nil)

	assert.Equal(t, 5, eval.PriorityScore("t1", 4, models.ShiftMorning, "math"), "max over applicable rules")
	assert.Equal(t, 3, eval.PriorityScore("t1", 1, models.ShiftMorning, "math"), "neutral when no rule applies")
	assert.Equal(t, 3, eval.PriorityScore("t1", 5, models.ShiftMorning, "math"), "unavailable rules do not score")
}

func TestTemporaryBlockWindow(t *testing.T) {
	blocks := map[string][]models.TemporaryBlock{
		"t1": {
			{
				TeacherID: "t1",
				StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
				Active:    true,
			},
		},
	}
	eval := newAvailabilityEvaluator(nil, blocks)

	inside := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.False(t, eval.IsAvailable("t1", 3, models.ShiftMorning, "math", inside), "window blocks every weekday")
	assert.True(t, eval.IsAvailable("t1", 3, models.ShiftMorning, "math", outside))
}

func TestTemporaryBlockShiftScopedAndRecurring(t *testing.T) {
	// 2026-03-02 is a Monday, so the recurring block pins to weekday 1.
	blocks := map[string][]models.TemporaryBlock{
		"t1": {
			{
				TeacherID: "t1",
				StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				Shift:     shiftPtr(models.ShiftAfternoon),
				Recurring: true,
				Active:    true,
			},
			{
				TeacherID: "t1",
				StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
				Active:    false,
			},
		},
	}
	eval := newAvailabilityEvaluator(nil, blocks)
	ref := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)

	assert.False(t, eval.IsAvailable("t1", 1, models.ShiftAfternoon, "math", ref), "recurring block repeats weekly")
	assert.True(t, eval.IsAvailable("t1", 1, models.ShiftMorning, "math", ref), "only the scoped shift is blocked")
	assert.True(t, eval.IsAvailable("t1", 2, models.ShiftAfternoon, "math", ref), "other weekdays unaffected")

	before := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	assert.True(t, eval.IsAvailable("t1", 1, models.ShiftAfternoon, "math", before), "recurring block not yet in force")
}
