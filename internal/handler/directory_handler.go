package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusched/timetable-api/internal/dto"
	"github.com/edusched/timetable-api/internal/models"
	"github.com/edusched/timetable-api/internal/service"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
	"github.com/edusched/timetable-api/pkg/response"
)

type directoryListing interface {
	ListTeachers(ctx context.Context, query dto.TeacherQuery) ([]models.Teacher, *models.Pagination, error)
	ListRooms(ctx context.Context, query dto.RoomQuery) ([]models.Room, *models.Pagination, error)
	ListDisciplines(ctx context.Context, query dto.DisciplineQuery) ([]models.Discipline, *models.Pagination, error)
}

// DirectoryHandler exposes the read-only resource directories.
type DirectoryHandler struct {
	service directoryListing
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(svc *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Directory
// @Produce json
// @Param search query string false "Match against name or email"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *DirectoryHandler) ListTeachers(c *gin.Context) {
	var query dto.TeacherQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher query"))
		return
	}
	teachers, pagination, err := h.service.ListTeachers(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// ListRooms godoc
// @Summary List rooms
// @Tags Directory
// @Produce json
// @Param type query string false "NORMAL, LAB or AUDITORIUM"
// @Param minCapacity query int false "Minimum seat count"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *DirectoryHandler) ListRooms(c *gin.Context) {
	var query dto.RoomQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room query"))
		return
	}
	rooms, pagination, err := h.service.ListRooms(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, pagination)
}

// ListDisciplines godoc
// @Summary List disciplines
// @Tags Directory
// @Produce json
// @Param courseArea query string false "Filter by course area"
// @Param search query string false "Match against name"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /disciplines [get]
func (h *DirectoryHandler) ListDisciplines(c *gin.Context) {
	var query dto.DisciplineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid discipline query"))
		return
	}
	disciplines, pagination, err := h.service.ListDisciplines(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, disciplines, pagination)
}
