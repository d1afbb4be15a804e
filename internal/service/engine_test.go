package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusched/timetable-api/internal/models"
)

func engineFixture() engineSnapshot {
	return engineSnapshot{
		ClassGroups: []models.ClassGroup{
			{ID: "cg1", Code: "1A", StudentCount: 25, ShiftPolicy: models.PolicyMorning, Active: true, DisciplineIDs: []string{"math"}},
		},
		Disciplines: map[string]models.Discipline{
			"math": {ID: "math", Name: "Mathematics", WeeklySessions: 2, Active: true},
		},
		Teachers: []models.Teacher{
			{ID: "t1", FullName: "Teacher One", Active: true, DisciplineIDs: []string{"math"}},
		},
		Rooms: []models.Room{
			{ID: "r1", Name: "Room 1", Capacity: 30, Active: true},
		},
		Evaluator: newAvailabilityEvaluator(nil, nil),
		Reference: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func fixedRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestEnginePlacesAllSessions(t *testing.T) {
	engine := newTimetableEngine(engineFixture(), engineOptions{
		RespectPreferences: true,
		AvoidGaps:          true,
		DistributeDays:     true,
		MaxAttempts:        50,
	}, fixedRand())

	result := engine.Run()
	require.True(t, result.Placed)
	assert.Len(t, result.Sessions, 2)
	assert.Empty(t, result.Conflicts)
	assert.GreaterOrEqual(t, result.Attempts, 1)

	for _, session := range result.Sessions {
		assert.Equal(t, "cg1", session.ClassGroupID)
		assert.Equal(t, models.ShiftMorning, session.Shift, "morning policy restricts the shift")
		assert.True(t, session.Weekday >= 1 && session.Weekday <= 5)
		assert.True(t, session.Active)
	}
}

func TestEngineHonoursUnavailableWeekdays(t *testing.T) {
	snapshot := engineFixture()
	// Teacher only works Thursday and Friday.
	snapshot.Evaluator = newAvailabilityEvaluator(map[string][]models.AvailabilityRule{
		"t1": {
			{TeacherID: "t1", Weekday: intPtr(1), Available: false},
			{TeacherID: "t1", Weekday: intPtr(2), Available: false},
			{TeacherID: "t1", Weekday: intPtr(3), Available: false},
		},
	}, nil)

	engine := newTimetableEngine(snapshot, engineOptions{
		RespectPreferences: true,
		AvoidGaps:          true,
		DistributeDays:     true,
		MaxAttempts:        50,
	}, fixedRand())

	result := engine.Run()
	require.True(t, result.Placed)
	for _, session := range result.Sessions {
		assert.GreaterOrEqual(t, session.Weekday, 4, "placement must respect unavailable weekdays")
	}
}

func TestEngineNeverDoubleBooks(t *testing.T) {
	snapshot := engineFixture()
	snapshot.ClassGroups = []models.ClassGroup{
		{ID: "cg1", Code: "1A", StudentCount: 25, ShiftPolicy: models.PolicyMorning, Active: true, DisciplineIDs: []string{"math", "hist"}},
		{ID: "cg2", Code: "1B", StudentCount: 20, ShiftPolicy: models.PolicyMorning, Active: true, DisciplineIDs: []string{"math"}},
	}
	snapshot.Disciplines["hist"] = models.Discipline{ID: "hist", Name: "History", WeeklySessions: 3, Active: true}
	snapshot.Teachers = []models.Teacher{
		{ID: "t1", FullName: "Teacher One", Active: true, DisciplineIDs: []string{"math"}},
		{ID: "t2", FullName: "Teacher Two", Active: true, DisciplineIDs: []string{"hist"}},
	}
	snapshot.Rooms = []models.Room{
		{ID: "r1", Name: "Room 1", Capacity: 30, Active: true},
		{ID: "r2", Name: "Room 2", Capacity: 30, Active: true},
	}

	engine := newTimetableEngine(snapshot, engineOptions{
		RespectPreferences: true,
		AvoidGaps:          true,
		DistributeDays:     true,
		MaxAttempts:        50,
	}, fixedRand())

	result := engine.Run()
	require.True(t, result.Placed)
	assert.Len(t, result.Sessions, 7)

	for i, a := range result.Sessions {
		for _, b := range result.Sessions[i+1:] {
			if a.Weekday != b.Weekday {
				continue
			}
			overlap := intervalsOverlap(a.StartTime, a.EndTime, b.StartTime, b.EndTime)
			if a.TeacherID == b.TeacherID {
				assert.False(t, overlap, "teacher %s double-booked on weekday %d", a.TeacherID, a.Weekday)
			}
			if a.ClassGroupID == b.ClassGroupID {
				assert.False(t, overlap, "class group %s double-booked on weekday %d", a.ClassGroupID, a.Weekday)
			}
			if a.RoomID == b.RoomID {
				assert.False(t, overlap, "room %s double-booked on weekday %d", a.RoomID, a.Weekday)
			}
		}
	}
}

func TestEngineRoomCapacity(t *testing.T) {
	snapshot := engineFixture()
	snapshot.Rooms = []models.Room{
		{ID: "small", Name: "Small", Capacity: 20, Active: true},
		{ID: "big", Name: "Big", Capacity: 40, Active: true},
	}

	engine := newTimetableEngine(snapshot, engineOptions{MaxAttempts: 50}, fixedRand())
	result := engine.Run()
	require.True(t, result.Placed)
	for _, session := range result.Sessions {
		assert.Equal(t, "big", session.RoomID, "a 25-student group never fits the 20-seat room")
	}
}

func TestEngineFailsWhenNoRoomFits(t *testing.T) {
	snapshot := engineFixture()
	snapshot.Rooms = []models.Room{
		{ID: "small", Name: "Small", Capacity: 20, Active: true},
	}

	engine := newTimetableEngine(snapshot, engineOptions{MaxAttempts: 3}, fixedRand())
	result := engine.Run()
	assert.False(t, result.Placed)
	assert.Empty(t, result.Sessions)
	assert.Equal(t, 3, result.Attempts)
	require.NotEmpty(t, result.Conflicts)
	assert.Contains(t, result.Conflicts[len(result.Conflicts)-1], "exhausted 3 attempts")
}

func TestEngineFatalSetup(t *testing.T) {
	snapshot := engineFixture()
	snapshot.Teachers = nil
	snapshot.ClassGroups[0].DisciplineIDs = nil

	engine := newTimetableEngine(snapshot, engineOptions{MaxAttempts: 5}, fixedRand())
	result := engine.Run()
	assert.False(t, result.Placed)
	assert.Zero(t, result.Attempts)
	assert.Contains(t, result.Conflicts, "no active teachers registered")
	assert.Contains(t, result.Conflicts, "class group 1A has no disciplines assigned")
}

func TestEngineFallsBackToFullPool(t *testing.T) {
	snapshot := engineFixture()
	snapshot.Teachers = []models.Teacher{
		{ID: "t9", FullName: "Teacher Nine", Active: true, DisciplineIDs: []string{"art"}},
	}

	engine := newTimetableEngine(snapshot, engineOptions{MaxAttempts: 50}, fixedRand())
	result := engine.Run()
	require.True(t, result.Placed)
	assert.Len(t, result.Sessions, 2)
	require.NotEmpty(t, result.Conflicts)
	assert.Contains(t, result.Conflicts[0], "no qualified teacher for Mathematics")
	for _, session := range result.Sessions {
		assert.Equal(t, "t9", session.TeacherID)
	}
}

func TestEngineSeededLedgerBlocksCrossRunOverlaps(t *testing.T) {
	snapshot := engineFixture()
	// Every morning slot Monday through Friday is already taken for the
	// teacher except two on Friday.
	var existing []models.Session
	for day := 1; day <= 5; day++ {
		for i, slot := range slotsForShift(models.ShiftMorning) {
			if day == 5 && i >= 4 {
				continue
			}
			existing = append(existing, models.Session{
				ID:           "seed",
				ClassGroupID: "other",
				DisciplineID: "math",
				TeacherID:    "t1",
				RoomID:       "r9",
				Weekday:      day,
				Shift:        models.ShiftMorning,
				StartTime:    slot.Start,
				EndTime:      slot.End,
				Active:       true,
			})
		}
	}
	snapshot.Existing = existing

	engine := newTimetableEngine(snapshot, engineOptions{MaxAttempts: 50}, fixedRand())
	result := engine.Run()
	require.True(t, result.Placed)
	require.Len(t, result.Sessions, 2, "seeded sessions are never re-emitted")
	for _, session := range result.Sessions {
		assert.Equal(t, 5, session.Weekday, "only the free Friday slots remain")
		assert.NotEqual(t, "seed", session.ID)
	}
}

func TestEngineDeterministicWithSameSeed(t *testing.T) {
	opts := engineOptions{RespectPreferences: true, AvoidGaps: true, DistributeDays: true, MaxAttempts: 50}

	first := newTimetableEngine(engineFixture(), opts, rand.New(rand.NewSource(7))).Run()
	second := newTimetableEngine(engineFixture(), opts, rand.New(rand.NewSource(7))).Run()

	require.True(t, first.Placed)
	require.True(t, second.Placed)
	assert.Equal(t, first.Sessions, second.Sessions)
	assert.Equal(t, first.Attempts, second.Attempts)
}
