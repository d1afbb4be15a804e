package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/edusched/timetable-api/internal/models"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
	"github.com/edusched/timetable-api/pkg/export"
)

type exportClassGroupReader interface {
	FindByID(ctx context.Context, id string) (*models.ClassGroup, error)
}

type exportSessionReader interface {
	ListDetailsByClassGroup(ctx context.Context, classGroupID string) ([]models.SessionDetail, error)
}

type timetableRenderer interface {
	Render(t export.Timetable) ([]byte, error)
}

// ExportResult is a rendered timetable document.
type ExportResult struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
}

// ExportConfig governs export rendering.
type ExportConfig struct {
	Enabled bool
	Title   string
}

// ExportService renders one class group's weekly timetable as CSV or PDF.
type ExportService struct {
	classGroups exportClassGroupReader
	sessions    exportSessionReader
	csv         timetableRenderer
	pdf         timetableRenderer
	cache       reportCache
	logger      *zap.Logger
	cfg         ExportConfig
}

// NewExportService creates an export service.
func NewExportService(
	classGroups exportClassGroupReader,
	sessions exportSessionReader,
	csv timetableRenderer,
	pdf timetableRenderer,
	cache reportCache,
	logger *zap.Logger,
	cfg ExportConfig,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if cfg.Title == "" {
		cfg.Title = "Weekly Timetable"
	}
	return &ExportService{
		classGroups: classGroups,
		sessions:    sessions,
		csv:         csv,
		pdf:         pdf,
		cache:       cache,
		logger:      logger,
		cfg:         cfg,
	}
}

// Export renders the timetable of one class group in the requested format.
func (s *ExportService) Export(ctx context.Context, classGroupID, format string) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "timetable exports are disabled")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	cacheKey := fmt.Sprintf("timetable:export:%s:%s", classGroupID, format)
	if s.cache != nil {
		var cached ExportResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	group, err := s.classGroups.FindByID(ctx, classGroupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class group")
	}
	sessions, err := s.sessions.ListDetailsByClassGroup(ctx, classGroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions for export")
	}

	timetable := s.buildGrid(group, sessions)

	var data []byte
	var contentType string
	switch format {
	case "csv":
		data, err = s.csv.Render(timetable)
		contentType = "text/csv"
	case "pdf":
		data, err = s.pdf.Render(timetable)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	result := &ExportResult{
		Data:        data,
		ContentType: contentType,
		Filename:    fmt.Sprintf("timetable_%s.%s", group.Code, format),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, 0); err != nil {
			s.logger.Warn("failed to cache rendered export", zap.Error(err))
		}
	}
	return result, nil
}

// buildGrid lays sessions out on the class group's permitted shift slots,
// one column per weekday.
func (s *ExportService) buildGrid(group *models.ClassGroup, sessions []models.SessionDetail) export.Timetable {
	days := make([]string, 0, 5)
	for day := models.WeekdayMonday; day <= models.WeekdayFriday; day++ {
		days = append(days, models.WeekdayName(day))
	}

	type cellKey struct {
		Start   string
		Weekday int
	}
	cells := make(map[cellKey]string, len(sessions))
	for _, session := range sessions {
		key := cellKey{Start: session.StartTime, Weekday: session.Weekday}
		cells[key] = fmt.Sprintf("%s / %s / %s", session.DisciplineName, session.TeacherName, session.RoomName)
	}

	var rows []export.TimetableRow
	for _, shift := range group.ShiftPolicy.AllowedShifts() {
		for _, slot := range slotsForShift(shift) {
			row := export.TimetableRow{
				Time:  fmt.Sprintf("%s-%s", slot.Start, slot.End),
				Cells: make([]string, 0, 5),
			}
			for day := models.WeekdayMonday; day <= models.WeekdayFriday; day++ {
				row.Cells = append(row.Cells, cells[cellKey{Start: slot.Start, Weekday: day}])
			}
			rows = append(rows, row)
		}
	}

	return export.Timetable{
		Title: fmt.Sprintf("%s - %s", s.cfg.Title, group.Code),
		Days:  days,
		Rows:  rows,
	}
}
