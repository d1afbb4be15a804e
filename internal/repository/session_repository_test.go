package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusched/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sessionDetailRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "class_group_id", "discipline_id", "teacher_id", "room_id",
		"weekday", "shift", "start_time", "end_time", "active", "created_at", "updated_at",
		"class_group_code", "discipline_name", "teacher_name", "room_name",
	}).AddRow("s1", "cg1", "math", "t1", "r1", 1, "MORNING", "07:00", "07:50", true, now, now, "1A", "Mathematics", "Teacher One", "Room 1")
}

func TestSessionRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`(?s)SELECT s\.id,.+FROM sessions s.+WHERE s\.active = TRUE AND s\.class_group_id = \$1.+ORDER BY s\.weekday ASC, s\.start_time ASC LIMIT 20 OFFSET 0`).
		WithArgs("cg1").
		WillReturnRows(sessionDetailRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sessions s`).
		WithArgs("cg1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sessions, total, err := repo.List(context.Background(), models.SessionFilter{ClassGroupID: "cg1"})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Mathematics", sessions[0].DisciplineName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListCapsPageSize(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`LIMIT 20 OFFSET 0`).WillReturnRows(sessionDetailRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), models.SessionFilter{PageSize: 500})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "class_group_id", "discipline_id", "teacher_id", "room_id",
		"weekday", "shift", "start_time", "end_time", "active", "created_at", "updated_at",
	}).AddRow("s1", "cg1", "math", "t1", "r1", 1, "MORNING", "07:00", "07:50", true, now, now)
	mock.ExpectQuery(`FROM sessions WHERE active = TRUE ORDER BY weekday ASC, start_time ASC`).
		WillReturnRows(rows)

	sessions, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.ShiftMorning, sessions[0].Shift)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO sessions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO sessions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	sessions := []models.Session{
		{ClassGroupID: "cg1", DisciplineID: "math", TeacherID: "t1", RoomID: "r1", Weekday: 1, Shift: models.ShiftMorning, StartTime: "07:00", EndTime: "07:50", Active: true},
		{ClassGroupID: "cg1", DisciplineID: "math", TeacherID: "t1", RoomID: "r1", Weekday: 3, Shift: models.ShiftMorning, StartTime: "07:00", EndTime: "07:50", Active: true},
	}
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, sessions))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, sessions[0].ID, "missing IDs are assigned on insert")
	assert.NotEmpty(t, sessions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryDeleteAllWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sessions`).WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteAllWithTx(context.Background(), tx))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryRejectsNilTx(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	assert.Error(t, repo.BulkCreateWithTx(context.Background(), nil, nil))
	assert.Error(t, repo.DeleteAllWithTx(context.Background(), nil))
}
