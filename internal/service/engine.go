package service

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/edusched/timetable-api/internal/models"
)

const defaultWeeklySessions = 2

// engineOptions carries the knobs of one generation run.
type engineOptions struct {
	RespectPreferences bool
	AvoidGaps          bool
	DistributeDays     bool
	MaxAttempts        int
}

// engineSnapshot is the immutable world the engine schedules against,
// loaded once per invocation.
type engineSnapshot struct {
	ClassGroups []models.ClassGroup
	Disciplines map[string]models.Discipline
	Teachers    []models.Teacher
	Rooms       []models.Room
	Existing    []models.Session
	Evaluator   *availabilityEvaluator
	Reference   time.Time
}

// engineResult is the outcome of a run. Sessions contains only newly
// placed sessions, never the seeded ones.
type engineResult struct {
	Placed    bool
	Sessions  []models.Session
	Attempts  int
	Conflicts []string
}

// workItem is one weekly session still to be placed.
type workItem struct {
	Group      models.ClassGroup
	Discipline models.Discipline
	Teachers   []models.Teacher
}

type ledgerEntry struct {
	Session models.Session
	Seeded  bool
}

// timetableEngine places every demanded session on the weekly grid using
// randomized retries with progressively relaxed soft constraints.
type timetableEngine struct {
	snapshot engineSnapshot
	opts     engineOptions
	rng      *rand.Rand
}

func newTimetableEngine(snapshot engineSnapshot, opts engineOptions, rng *rand.Rand) *timetableEngine {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 50
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &timetableEngine{snapshot: snapshot, opts: opts, rng: rng}
}

// Run executes the retry loop. The first attempt that places every work
// item wins; partial attempts discard their ledger entirely.
func (e *timetableEngine) Run() engineResult {
	if fatal := e.checkSetup(); len(fatal) > 0 {
		return engineResult{Conflicts: fatal}
	}

	work, softConflicts := e.expandDemand()
	if len(work) == 0 {
		return engineResult{Conflicts: []string{"no sessions demanded: class groups have no disciplines with weekly sessions"}}
	}

	var lastFailures []string
	for attempt := 0; attempt < e.opts.MaxAttempts; attempt++ {
		flex := 0.1 + 0.01*float64(attempt)
		if flex > 0.8 {
			flex = 0.8
		}
		respectEff := e.opts.RespectPreferences && flex < 0.5
		avoidGapsEff := e.opts.AvoidGaps && flex < 0.3

		ordered := make([]workItem, len(work))
		copy(ordered, work)
		e.rng.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})

		ledger := e.seedLedger()
		placed := make([]models.Session, 0, len(ordered))
		lastFailures = lastFailures[:0]
		complete := true
		for _, item := range ordered {
			session, reason := e.placeItem(item, ledger, respectEff, avoidGapsEff)
			if session == nil {
				complete = false
				lastFailures = append(lastFailures, reason)
				break
			}
			*ledger = append(*ledger, ledgerEntry{Session: *session})
			placed = append(placed, *session)
		}
		if complete {
			return engineResult{
				Placed:    true,
				Sessions:  placed,
				Attempts:  attempt + 1,
				Conflicts: softConflicts,
			}
		}
	}

	conflicts := make([]string, 0, len(softConflicts)+len(lastFailures)+1)
	conflicts = append(conflicts, softConflicts...)
	conflicts = append(conflicts, lastFailures...)
	conflicts = append(conflicts, fmt.Sprintf("exhausted %d attempts without a complete timetable", e.opts.MaxAttempts))
	return engineResult{Attempts: e.opts.MaxAttempts, Conflicts: conflicts}
}

func (e *timetableEngine) checkSetup() []string {
	var fatal []string
	if len(e.snapshot.ClassGroups) == 0 {
		fatal = append(fatal, "no active class groups to schedule")
	}
	if len(e.snapshot.Teachers) == 0 {
		fatal = append(fatal, "no active teachers registered")
	}
	if len(e.snapshot.Rooms) == 0 {
		fatal = append(fatal, "no active rooms registered")
	}
	for _, group := range e.snapshot.ClassGroups {
		if len(group.DisciplineIDs) == 0 {
			fatal = append(fatal, fmt.Sprintf("class group %s has no disciplines assigned", group.Code))
		}
	}
	return fatal
}

// expandDemand turns (class group, discipline) pairs into one work item
// per weekly session, each carrying its eligible teacher set.
func (e *timetableEngine) expandDemand() ([]workItem, []string) {
	var work []workItem
	var soft []string
	for _, group := range e.snapshot.ClassGroups {
		for _, disciplineID := range group.DisciplineIDs {
			discipline, ok := e.snapshot.Disciplines[disciplineID]
			if !ok {
				soft = append(soft, fmt.Sprintf("class group %s references unknown discipline %s", group.Code, disciplineID))
				continue
			}
			eligible := make([]models.Teacher, 0, len(e.snapshot.Teachers))
			for _, teacher := range e.snapshot.Teachers {
				if teacher.Teaches(discipline.ID) {
					eligible = append(eligible, teacher)
				}
			}
			if len(eligible) == 0 {
				soft = append(soft, fmt.Sprintf("no qualified teacher for %s in class group %s, falling back to full pool", discipline.Name, group.Code))
				eligible = append(eligible, e.snapshot.Teachers...)
			}
			weekly := discipline.WeeklySessions
			if weekly <= 0 {
				weekly = defaultWeeklySessions
			}
			for i := 0; i < weekly; i++ {
				work = append(work, workItem{Group: group, Discipline: discipline, Teachers: eligible})
			}
		}
	}
	return work, soft
}

func (e *timetableEngine) seedLedger() *[]ledgerEntry {
	ledger := make([]ledgerEntry, 0, len(e.snapshot.Existing))
	for _, session := range e.snapshot.Existing {
		ledger = append(ledger, ledgerEntry{Session: session, Seeded: true})
	}
	return &ledger
}

// candidate is a concrete (teacher, weekday, shift, slot) placement still
// subject to room allocation.
type candidate struct {
	Teacher models.Teacher
	Weekday int
	Shift   models.Shift
	Slot    timeSlot
	Score   int
}

func (e *timetableEngine) placeItem(item workItem, ledger *[]ledgerEntry, respectEff, avoidGapsEff bool) (*models.Session, string) {
	teachers := make([]models.Teacher, len(item.Teachers))
	copy(teachers, item.Teachers)
	e.rng.Shuffle(len(teachers), func(i, j int) {
		teachers[i], teachers[j] = teachers[j], teachers[i]
	})

	var candidates []candidate
	for _, teacher := range teachers {
		for weekday := models.WeekdayMonday; weekday <= models.WeekdayFriday; weekday++ {
			for _, shift := range item.Group.ShiftPolicy.AllowedShifts() {
				if respectEff && !e.snapshot.Evaluator.IsAvailable(teacher.ID, weekday, shift, item.Discipline.ID, e.snapshot.Reference) {
					continue
				}
				for _, slot := range slotsForShift(shift) {
					if e.hasConflict(ledger, teacher.ID, item.Group.ID, weekday, slot) {
						continue
					}
					candidates = append(candidates, candidate{Teacher: teacher, Weekday: weekday, Shift: shift, Slot: slot})
				}
			}
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Sprintf("no free slot for %s in class group %s", item.Discipline.Name, item.Group.Code)
	}

	if avoidGapsEff {
		for i := range candidates {
			candidates[i].Score = e.groupingScore(candidates[i], item, ledger, respectEff)
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})
	} else if e.opts.DistributeDays {
		dayLoad := make(map[int]int, 5)
		for _, entry := range *ledger {
			if entry.Session.ClassGroupID == item.Group.ID {
				dayLoad[entry.Session.Weekday]++
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return dayLoad[candidates[i].Weekday] < dayLoad[candidates[j].Weekday]
		})
	}

	for _, cand := range candidates {
		room := e.allocateRoom(ledger, item.Group, cand.Weekday, cand.Slot)
		if room == nil {
			continue
		}
		return &models.Session{
			ClassGroupID: item.Group.ID,
			DisciplineID: item.Discipline.ID,
			TeacherID:    cand.Teacher.ID,
			RoomID:       room.ID,
			Weekday:      cand.Weekday,
			Shift:        cand.Shift,
			StartTime:    cand.Slot.Start,
			EndTime:      cand.Slot.End,
			Active:       true,
		}, ""
	}
	return nil, fmt.Sprintf("no room with capacity %d free for %s in class group %s", item.Group.StudentCount, item.Discipline.Name, item.Group.Code)
}

// hasConflict scans the ledger for a teacher or class group overlap on the
// same weekday.
func (e *timetableEngine) hasConflict(ledger *[]ledgerEntry, teacherID, classGroupID string, weekday int, slot timeSlot) bool {
	for _, entry := range *ledger {
		existing := entry.Session
		if existing.Weekday != weekday {
			continue
		}
		if existing.TeacherID != teacherID && existing.ClassGroupID != classGroupID {
			continue
		}
		if intervalsOverlap(slot.Start, slot.End, existing.StartTime, existing.EndTime) {
			return true
		}
	}
	return false
}

// groupingScore rewards placements adjacent to the same teacher's or
// class group's existing sessions and penalises short same-day gaps.
func (e *timetableEngine) groupingScore(cand candidate, item workItem, ledger *[]ledgerEntry, respectEff bool) int {
	score := 0
	for _, entry := range *ledger {
		existing := entry.Session
		if existing.Weekday != cand.Weekday {
			continue
		}
		if existing.TeacherID == cand.Teacher.ID {
			if slotsAdjacent(cand.Slot.Start, cand.Slot.End, existing.StartTime, existing.EndTime) {
				score += 10
			} else if existing.Shift == cand.Shift {
				score += 5
			}
			if gap := gapBetween(cand.Slot.Start, cand.Slot.End, existing.StartTime, existing.EndTime); gap > 0 && gap <= 120 {
				score -= gap / 10
			}
		}
		if existing.ClassGroupID == item.Group.ID {
			if slotsAdjacent(cand.Slot.Start, cand.Slot.End, existing.StartTime, existing.EndTime) {
				score += 8
			} else if existing.Shift == cand.Shift {
				score += 3
			}
			if gap := gapBetween(cand.Slot.Start, cand.Slot.End, existing.StartTime, existing.EndTime); gap > 0 && gap <= 120 {
				score -= gap / 20
			}
		}
	}
	if respectEff {
		priority := e.snapshot.Evaluator.PriorityScore(cand.Teacher.ID, cand.Weekday, cand.Shift, item.Discipline.ID)
		score += (priority - 3) * 2
	}
	return score
}

// allocateRoom walks rooms in ascending capacity order and returns the
// first free one that fits the group.
func (e *timetableEngine) allocateRoom(ledger *[]ledgerEntry, group models.ClassGroup, weekday int, slot timeSlot) *models.Room {
	for i := range e.snapshot.Rooms {
		room := e.snapshot.Rooms[i]
		if room.Capacity < group.StudentCount {
			continue
		}
		busy := false
		for _, entry := range *ledger {
			existing := entry.Session
			if existing.RoomID != room.ID || existing.Weekday != weekday {
				continue
			}
			if intervalsOverlap(slot.Start, slot.End, existing.StartTime, existing.EndTime) {
				busy = true
				break
			}
		}
		if !busy {
			return &room
		}
	}
	return nil
}
