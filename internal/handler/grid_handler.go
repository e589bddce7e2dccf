package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	"github.com/noah-isme/timetable-editor/pkg/response"
)

type gridService interface {
	Layout() models.Layout
	Grid() dto.GridView
	SlotCourses(slotID string, day int) ([]models.Course, error)
	Agenda() []dto.DayAgenda
	Form() dto.FormState
	OnAddClicked() dto.FormState
	OnCellClicked(slotID string, day int) (dto.FormState, error)
	OnCourseClicked(courseID string) dto.FormState
	OnCourseDropped(ctx context.Context, courseID, slotID string, day int) error
	OnFormSubmit(ctx context.Context, input dto.CourseInput) (models.Course, error)
	OnFormDelete(ctx context.Context) error
	OnFormCancel() dto.FormState
}

// GridHandler exposes the weekly grid and the interactions on it.
type GridHandler struct {
	service gridService
}

// NewGridHandler constructs the handler.
func NewGridHandler(service gridService) *GridHandler {
	return &GridHandler{service: service}
}

// Layout godoc
// @Summary Weekday labels and time slots of the grid
// @Tags Grid
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid/layout [get]
func (h *GridHandler) Layout(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Layout())
}

// Grid godoc
// @Summary Render the active template as a slot by day grid
// @Tags Grid
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid [get]
func (h *GridHandler) Grid(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Grid())
}

// Cell godoc
// @Summary Courses starting in one cell
// @Tags Grid
// @Produce json
// @Param slotId path string true "Time slot ID"
// @Param day path int true "Day index, Monday is 0"
// @Success 200 {object} response.Envelope
// @Router /grid/slots/{slotId}/days/{day} [get]
func (h *GridHandler) Cell(c *gin.Context) {
	day, ok := dayParam(c, "day")
	if !ok {
		return
	}
	courses, err := h.service.SlotCourses(c.Param("slotId"), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Agenda godoc
// @Summary Courses per day ordered by start time
// @Tags Grid
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid/agenda [get]
func (h *GridHandler) Agenda(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Agenda())
}

// Form godoc
// @Summary Current course form state
// @Tags Grid
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid/form [get]
func (h *GridHandler) Form(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Form())
}

// OpenForm godoc
// @Summary Open an empty add form
// @Tags Grid
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid/form/open [post]
func (h *GridHandler) OpenForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.OnAddClicked())
}

// CellClick godoc
// @Summary Open the add form for a cell
// @Tags Grid
// @Produce json
// @Param slotId path string true "Time slot ID"
// @Param day path int true "Day index, Monday is 0"
// @Success 200 {object} response.Envelope
// @Router /grid/cells/{slotId}/{day}/click [post]
func (h *GridHandler) CellClick(c *gin.Context) {
	day, ok := dayParam(c, "day")
	if !ok {
		return
	}
	form, err := h.service.OnCellClicked(c.Param("slotId"), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form)
}

// CourseClick godoc
// @Summary Open the edit form for a course
// @Tags Grid
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /grid/courses/{id}/click [post]
func (h *GridHandler) CourseClick(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.OnCourseClicked(c.Param("id")))
}

// Drop godoc
// @Summary Drop a course onto a cell
// @Tags Grid
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.DropRequest true "Target cell"
// @Success 200 {object} response.Envelope
// @Router /grid/courses/{id}/drop [post]
func (h *GridHandler) Drop(c *gin.Context) {
	var req dto.DropRequest
	if !bindJSON(c, &req, "drop") {
		return
	}
	if err := h.service.OnCourseDropped(c.Request.Context(), c.Param("id"), req.SlotID, req.DayOfWeek); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Grid())
}

// Submit godoc
// @Summary Submit the open course form
// @Tags Grid
// @Accept json
// @Produce json
// @Param payload body dto.CourseInput true "Course"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grid/form/submit [post]
func (h *GridHandler) Submit(c *gin.Context) {
	var input dto.CourseInput
	if !bindJSON(c, &input, "course") {
		return
	}
	course, err := h.service.OnFormSubmit(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// DeleteFromForm godoc
// @Summary Delete the course being edited
// @Tags Grid
// @Success 204
// @Router /grid/form/delete [post]
func (h *GridHandler) DeleteFromForm(c *gin.Context) {
	if err := h.service.OnFormDelete(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cancel godoc
// @Summary Close the course form
// @Tags Grid
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid/form/cancel [post]
func (h *GridHandler) Cancel(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.OnFormCancel())
}
