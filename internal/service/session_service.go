package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edusched/timetable-api/internal/dto"
	"github.com/edusched/timetable-api/internal/models"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
)

type sessionLister interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, int, error)
}

// SessionService exposes the committed timetable as a filterable listing.
type SessionService struct {
	sessions sessionLister
	logger   *zap.Logger
}

// NewSessionService creates a session service.
func NewSessionService(sessions sessionLister, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{sessions: sessions, logger: logger}
}

// List returns sessions matching the query along with pagination metadata.
func (s *SessionService) List(ctx context.Context, query dto.SessionQuery) ([]models.SessionDetail, *models.Pagination, error) {
	if query.Shift != "" && !models.ValidShift(models.Shift(query.Shift)) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "shift must be one of MORNING, AFTERNOON, EVENING")
	}
	if query.Weekday != 0 && (query.Weekday < models.WeekdayMonday || query.Weekday > models.WeekdayFriday) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "weekday must be between 1 (Monday) and 5 (Friday)")
	}

	filter := models.SessionFilter{
		ClassGroupID: query.ClassGroupID,
		TeacherID:    query.TeacherID,
		RoomID:       query.RoomID,
		DisciplineID: query.DisciplineID,
		Weekday:      query.Weekday,
		Shift:        models.Shift(query.Shift),
		Page:         query.Page,
		PageSize:     query.PageSize,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
	}
	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}

	return sessions, paginationFor(filter.Page, filter.PageSize, total), nil
}
