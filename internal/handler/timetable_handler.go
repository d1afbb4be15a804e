package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusched/timetable-api/internal/dto"
	"github.com/edusched/timetable-api/internal/service"
	appErrors "github.com/edusched/timetable-api/pkg/errors"
	"github.com/edusched/timetable-api/pkg/response"
)

const (
	maxClassGroupIDs = 256

	// Reports longer than this are summarised for the HTTP response; the
	// full list stays in the cached report.
	displayConflictLimit = 5
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	LastReport(ctx context.Context) (*dto.GenerateTimetableResponse, error)
}

type timetableExporter interface {
	Export(ctx context.Context, classGroupID, format string) (*service.ExportResult, error)
}

// TimetableHandler exposes the generation, report and export endpoints.
type TimetableHandler struct {
	generator timetableGenerator
	exporter  timetableExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(generator *service.TimetableService, exporter *service.ExportService) *TimetableHandler {
	return &TimetableHandler{generator: generator, exporter: exporter}
}

// Generate godoc
// @Summary Generate and persist a full weekly timetable
// @Description Runs the scheduling engine over the active class groups. Scheduling failures are reported in the body with success=false, not as HTTP errors.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation options"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if len(req.ClassGroupIDs) > maxClassGroupIDs {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classGroupIds exceeds supported limit"))
		return
	}
	report, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summariseReport(report), nil)
}

// Report godoc
// @Summary Fetch the most recent generation report
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/report [get]
func (h *TimetableHandler) Report(c *gin.Context) {
	report, err := h.generator.LastReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export one class group's weekly timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class group ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /class-groups/{id}/timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	result, err := h.exporter.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// summariseReport truncates long conflict lists for display, appending a
// line noting how many entries were omitted.
func summariseReport(report *dto.GenerateTimetableResponse) *dto.GenerateTimetableResponse {
	if report == nil || len(report.Conflicts) <= displayConflictLimit {
		return report
	}
	out := *report
	omitted := len(report.Conflicts) - displayConflictLimit
	out.Conflicts = append([]string{}, report.Conflicts[:displayConflictLimit]...)
	out.Conflicts = append(out.Conflicts, summaryLine(omitted))
	return &out
}

func summaryLine(omitted int) string {
	if omitted == 1 {
		return "and 1 more conflict"
	}
	return fmt.Sprintf("and %d more conflicts", omitted)
}
