package service

import (
	"time"

	"github.com/edusched/timetable-api/internal/models"
)

// availabilityEvaluator answers teacher availability queries from
// preloaded rules and temporary blocks. Teachers without any rules are
// fully available; only explicit unavailable rules and in-force blocks
// remove capacity.
type availabilityEvaluator struct {
	rules  map[string][]models.AvailabilityRule
	blocks map[string][]models.TemporaryBlock
}

func newAvailabilityEvaluator(rules map[string][]models.AvailabilityRule, blocks map[string][]models.TemporaryBlock) *availabilityEvaluator {
	if rules == nil {
		rules = make(map[string][]models.AvailabilityRule)
	}
	if blocks == nil {
		blocks = make(map[string][]models.TemporaryBlock)
	}
	return &availabilityEvaluator{rules: rules, blocks: blocks}
}

// IsAvailable reports whether the teacher can take a session on the given
// weekday and shift for the given discipline. Blocks are checked first and
// win outright; after that any applicable unavailable rule blocks, and
// everything else is available.
func (e *availabilityEvaluator) IsAvailable(teacherID string, weekday int, shift models.Shift, disciplineID string, reference time.Time) bool {
	for _, block := range e.blocks[teacherID] {
		if e.blockApplies(block, weekday, shift, reference) {
			return false
		}
	}
	for _, rule := range e.rules[teacherID] {
		if !rule.Available && rule.AppliesTo(weekday, shift, disciplineID) {
			return false
		}
	}
	return true
}

func (e *availabilityEvaluator) blockApplies(block models.TemporaryBlock, weekday int, shift models.Shift, reference time.Time) bool {
	if !block.Active {
		return false
	}
	if block.Shift != nil && *block.Shift != shift {
		return false
	}
	if block.Recurring {
		// A recurring block repeats weekly on the weekday of its start
		// date once the start date has passed.
		return block.AnchorWeekday() == weekday && !reference.Before(block.StartDate)
	}
	// A one-off window blocks every weekday while the reference date sits
	// inside it.
	return !reference.Before(block.StartDate) && !reference.After(block.EndDate)
}

// PriorityScore returns the strongest priority among applicable available
// rules, or the neutral 3 when no rule speaks to the query.
func (e *availabilityEvaluator) PriorityScore(teacherID string, weekday int, shift models.Shift, disciplineID string) int {
	best := 0
	for _, rule := range e.rules[teacherID] {
		if !rule.Available || !rule.AppliesTo(weekday, shift, disciplineID) {
			continue
		}
		if rule.Priority > best {
			best = rule.Priority
		}
	}
	if best == 0 {
		return 3
	}
	return best
}
