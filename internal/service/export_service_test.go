package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusched/timetable-api/internal/models"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
)

type exportClassGroupStub struct {
	group *models.ClassGroup
}

func (s exportClassGroupStub) FindByID(_ context.Context, id string) (*models.ClassGroup, error) {
	if s.group == nil || s.group.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.group, nil
}

type exportSessionStub struct {
	sessions []models.SessionDetail
}

func (s exportSessionStub) ListDetailsByClassGroup(_ context.Context, _ string) ([]models.SessionDetail, error) {
	return s.sessions, nil
}

func newExportFixture() *ExportService {
	group := &models.ClassGroup{ID: "cg1", Code: "1A", ShiftPolicy: models.PolicyMorning}
	sessions := []models.SessionDetail{
		{
			Session:        models.Session{ClassGroupID: "cg1", Weekday: 1, Shift: models.ShiftMorning, StartTime: "07:00", EndTime: "07:50"},
			ClassGroupCode: "1A",
			DisciplineName: "Mathematics",
			TeacherName:    "Teacher One",
			RoomName:       "Room 1",
		},
		{
			Session:        models.Session{ClassGroupID: "cg1", Weekday: 3, Shift: models.ShiftMorning, StartTime: "09:00", EndTime: "09:50"},
			ClassGroupCode: "1A",
			DisciplineName: "History",
			TeacherName:    "Teacher Two",
			RoomName:       "Room 2",
		},
	}
	return NewExportService(
		exportClassGroupStub{group: group},
		exportSessionStub{sessions: sessions},
		nil,
		nil,
		nil,
		nil,
		ExportConfig{Enabled: true, Title: "Weekly Timetable"},
	)
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportFixture()

	result, err := svc.Export(context.Background(), "cg1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "timetable_1A.csv", result.Filename)

	body := string(result.Data)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 7, "header plus one row per morning slot")
	assert.Contains(t, lines[0], "MONDAY")
	assert.Contains(t, lines[0], "FRIDAY")
	assert.Contains(t, body, "Mathematics / Teacher One / Room 1")
	assert.Contains(t, body, "History / Teacher Two / Room 2")
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportFixture()

	result, err := svc.Export(context.Background(), "cg1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := newExportFixture()

	_, err := svc.Export(context.Background(), "cg1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceClassGroupNotFound(t *testing.T) {
	svc := newExportFixture()

	_, err := svc.Export(context.Background(), "missing", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceDisabled(t *testing.T) {
	svc := NewExportService(exportClassGroupStub{}, exportSessionStub{}, nil, nil, nil, nil, ExportConfig{Enabled: false})

	_, err := svc.Export(context.Background(), "cg1", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}
