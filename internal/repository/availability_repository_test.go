package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusched/timetable-api/internal/models"
)

func TestAvailabilityRepositoryListRulesByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	weekday := 1
	rows := sqlmock.NewRows([]string{
		"id", "teacher_id", "discipline_id", "weekday", "shift",
		"available", "preferred", "priority", "notes", "created_at", "updated_at",
	}).AddRow("a1", "t1", nil, weekday, nil, false, false, 3, "", now, now)
	mock.ExpectQuery(`FROM availability_rules WHERE teacher_id = \$1`).
		WithArgs("t1").
		WillReturnRows(rows)

	rules, err := repo.ListRulesByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.False(t, rules[0].Available)
	require.NotNil(t, rules[0].Weekday)
	assert.Equal(t, 1, *rules[0].Weekday)
	assert.Nil(t, rules[0].Shift)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListBlocksByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	reference := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "teacher_id", "start_date", "end_date", "shift", "recurring", "reason", "active", "created_at", "updated_at",
	}).AddRow("b1", "t1", reference.AddDate(0, 0, -2), reference.AddDate(0, 0, 2), "AFTERNOON", false, "training", true, now, now)
	mock.ExpectQuery(`(?s)FROM temporary_blocks.+WHERE teacher_id = \$1 AND active = TRUE`).
		WithArgs("t1", reference).
		WillReturnRows(rows)

	blocks, err := repo.ListBlocksByTeacher(context.Background(), "t1", reference)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].Shift)
	assert.Equal(t, models.ShiftAfternoon, *blocks[0].Shift)
	assert.True(t, blocks[0].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}
