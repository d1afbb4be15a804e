package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusched/timetable-api/internal/dto"
	"github.com/edusched/timetable-api/internal/models"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
)

type classGroupReaderStub struct {
	groups []models.ClassGroup
}

func (s classGroupReaderStub) ListActive(_ context.Context, _ []string) ([]models.ClassGroup, error) {
	return s.groups, nil
}

type teacherReaderStub struct {
	teachers []models.Teacher
}

func (s teacherReaderStub) ListActive(_ context.Context) ([]models.Teacher, error) {
	return s.teachers, nil
}

type roomReaderStub struct {
	rooms []models.Room
}

func (s roomReaderStub) ListActiveByCapacity(_ context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

type disciplineReaderStub struct {
	disciplines []models.Discipline
}

func (s disciplineReaderStub) ListActive(_ context.Context) ([]models.Discipline, error) {
	return s.disciplines, nil
}

type availabilityReaderStub struct {
	rules  map[string][]models.AvailabilityRule
	blocks map[string][]models.TemporaryBlock
}

func (s availabilityReaderStub) ListRulesByTeacher(_ context.Context, teacherID string) ([]models.AvailabilityRule, error) {
	return s.rules[teacherID], nil
}

func (s availabilityReaderStub) ListBlocksByTeacher(_ context.Context, teacherID string, _ time.Time) ([]models.TemporaryBlock, error) {
	return s.blocks[teacherID], nil
}

type sessionWriterStub struct {
	existing []models.Session
	created  []models.Session
	deleted  bool
}

func (s *sessionWriterStub) ListActive(_ context.Context) ([]models.Session, error) {
	return s.existing, nil
}

func (s *sessionWriterStub) BulkCreateWithTx(_ context.Context, _ *sqlx.Tx, sessions []models.Session) error {
	s.created = append(s.created, sessions...)
	return nil
}

func (s *sessionWriterStub) DeleteAllWithTx(_ context.Context, _ *sqlx.Tx) error {
	s.deleted = true
	return nil
}

type reportCacheStub struct {
	saved     *dto.GenerateTimetableResponse
	savedKey  string
	deletedBy []string
}

func (s *reportCacheStub) Get(_ context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *reportCacheStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.savedKey = key
	if report, ok := value.(*dto.GenerateTimetableResponse); ok {
		s.saved = report
	}
	return nil
}

func (s *reportCacheStub) DeleteByPattern(_ context.Context, pattern string) error {
	s.deletedBy = append(s.deletedBy, pattern)
	return nil
}

type txProviderStub struct {
	db *sqlx.DB
}

func (s txProviderStub) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, opts)
}

func newTxProviderMock(t *testing.T) (txProviderStub, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return txProviderStub{db: sqlx.NewDb(db, "sqlmock")}, mock
}

type timetableFixture struct {
	service *TimetableService
	writer  *sessionWriterStub
	cache   *reportCacheStub
	mock    sqlmock.Sqlmock
}

func newTimetableFixture(t *testing.T) *timetableFixture {
	tx, mock := newTxProviderMock(t)
	writer := &sessionWriterStub{}
	cacheStub := &reportCacheStub{}
	svc := NewTimetableService(
		classGroupReaderStub{groups: []models.ClassGroup{
			{ID: "cg1", Code: "1A", StudentCount: 25, ShiftPolicy: models.PolicyMorning, Active: true, DisciplineIDs: []string{"math"}},
		}},
		teacherReaderStub{teachers: []models.Teacher{
			{ID: "t1", FullName: "Teacher One", Active: true, DisciplineIDs: []string{"math"}},
		}},
		roomReaderStub{rooms: []models.Room{
			{ID: "r1", Name: "Room 1", Capacity: 30, Active: true},
		}},
		disciplineReaderStub{disciplines: []models.Discipline{
			{ID: "math", Name: "Mathematics", WeeklySessions: 2, Active: true},
		}},
		availabilityReaderStub{},
		writer,
		tx,
		cacheStub,
		nil,
		nil,
		nil,
		TimetableConfig{MaxAttempts: 50},
	)
	return &timetableFixture{service: svc, writer: writer, cache: cacheStub, mock: mock}
}

func seedPtr(v int64) *int64 { return &v }

func TestTimetableServiceGeneratePersists(t *testing.T) {
	f := newTimetableFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	report, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{Seed: seedPtr(42)})
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, 2, report.SessionsCreated)
	assert.Equal(t, 1, report.ClassGroupsProcessed)
	assert.GreaterOrEqual(t, report.Attempts, 1)
	assert.Len(t, f.writer.created, 2)
	assert.False(t, f.writer.deleted)
	assert.NoError(t, f.mock.ExpectationsWereMet())

	require.NotNil(t, f.cache.saved)
	assert.Equal(t, reportCacheKey, f.cache.savedKey)
	assert.Contains(t, f.cache.deletedBy, "timetable:export:*")
}

func TestTimetableServiceGenerateClearPrevious(t *testing.T) {
	f := newTimetableFixture(t)
	f.writer.existing = []models.Session{{ID: "old", TeacherID: "t1", ClassGroupID: "cg1", Weekday: 1, StartTime: "07:00", EndTime: "07:50"}}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	report, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{Seed: seedPtr(42), ClearPrevious: true})
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.True(t, f.writer.deleted, "clearPrevious removes the old timetable in the same transaction")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTimetableServiceGenerateReportsFailureWithoutPersisting(t *testing.T) {
	f := newTimetableFixture(t)
	// Fill every slot the teacher could take so no attempt can complete.
	var existing []models.Session
	for day := 1; day <= 5; day++ {
		for _, shift := range []models.Shift{models.ShiftMorning, models.ShiftAfternoon, models.ShiftEvening} {
			for _, slot := range slotsForShift(shift) {
				existing = append(existing, models.Session{
					ClassGroupID: "other",
					TeacherID:    "t1",
					RoomID:       "r1",
					Weekday:      day,
					Shift:        shift,
					StartTime:    slot.Start,
					EndTime:      slot.End,
					Active:       true,
				})
			}
		}
	}
	f.writer.existing = existing

	report, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{Seed: seedPtr(42), MaxAttempts: 2})
	require.NoError(t, err, "scheduling failure is a report, not an error")
	assert.False(t, report.Success)
	assert.Zero(t, report.SessionsCreated)
	assert.NotEmpty(t, report.Conflicts)
	assert.Empty(t, f.writer.created)
	assert.NoError(t, f.mock.ExpectationsWereMet(), "no transaction is opened for a failed run")
	require.NotNil(t, f.cache.saved, "failed reports are cached too")
}

func TestTimetableServiceGenerateRejectsBadPayload(t *testing.T) {
	f := newTimetableFixture(t)

	_, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{MaxAttempts: 100000})
	require.Error(t, err)
	typed := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, typed.Code)

	_, err = f.service.Generate(context.Background(), dto.GenerateTimetableRequest{ReferenceDate: "03/02/2026"})
	require.Error(t, err)
}

func TestTimetableServiceLastReport(t *testing.T) {
	f := newTimetableFixture(t)

	_, err := f.service.LastReport(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
