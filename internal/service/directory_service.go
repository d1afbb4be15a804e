package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edusched/timetable-api/internal/dto"
	"github.com/edusched/timetable-api/internal/models"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
)

type teacherLister interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
}

type roomLister interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
}

type disciplineLister interface {
	List(ctx context.Context, filter models.DisciplineFilter) ([]models.Discipline, int, error)
}

// DirectoryService exposes read-only listings of the scheduling resources:
// teachers, rooms and disciplines.
type DirectoryService struct {
	teachers    teacherLister
	rooms       roomLister
	disciplines disciplineLister
	logger      *zap.Logger
}

// NewDirectoryService creates a directory service.
func NewDirectoryService(teachers teacherLister, rooms roomLister, disciplines disciplineLister, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{teachers: teachers, rooms: rooms, disciplines: disciplines, logger: logger}
}

// ListTeachers returns teachers matching the query with pagination metadata.
func (s *DirectoryService) ListTeachers(ctx context.Context, query dto.TeacherQuery) ([]models.Teacher, *models.Pagination, error) {
	filter := models.TeacherFilter{
		Search:    query.Search,
		Active:    query.Active,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// ListRooms returns rooms matching the query with pagination metadata.
func (s *DirectoryService) ListRooms(ctx context.Context, query dto.RoomQuery) ([]models.Room, *models.Pagination, error) {
	if query.Type != "" {
		switch models.RoomType(query.Type) {
		case models.RoomTypeNormal, models.RoomTypeLab, models.RoomTypeAuditorium:
		default:
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "type must be one of NORMAL, LAB, AUDITORIUM")
		}
	}
	if query.MinCapacity < 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "minCapacity must not be negative")
	}

	filter := models.RoomFilter{
		Type:        models.RoomType(query.Type),
		MinCapacity: query.MinCapacity,
		Active:      query.Active,
		Page:        query.Page,
		PageSize:    query.PageSize,
		SortBy:      query.SortBy,
		SortOrder:   query.SortOrder,
	}
	rooms, total, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, paginationFor(filter.Page, filter.PageSize, total), nil
}

// ListDisciplines returns disciplines matching the query with pagination metadata.
func (s *DirectoryService) ListDisciplines(ctx context.Context, query dto.DisciplineQuery) ([]models.Discipline, *models.Pagination, error) {
	filter := models.DisciplineFilter{
		CourseArea: query.CourseArea,
		Search:     query.Search,
		Active:     query.Active,
		Page:       query.Page,
		PageSize:   query.PageSize,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	}
	disciplines, total, err := s.disciplines.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list disciplines")
	}
	return disciplines, paginationFor(filter.Page, filter.PageSize, total), nil
}

// paginationFor normalises page numbers the same way the repositories do so
// the reported metadata matches the rows actually returned.
func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
