package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	"github.com/noah-isme/timetable-editor/pkg/response"
)

type courseService interface {
	ActiveTemplate() models.ScheduleTemplate
	Course(id string) (models.Course, bool)
	AddCourse(ctx context.Context, input dto.CourseInput) (models.Course, error)
	UpdateCourse(ctx context.Context, id string, input dto.CourseInput) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	MoveCourse(ctx context.Context, id string, req dto.MoveCourseRequest) error
}

// CourseHandler exposes CRUD over the courses of the active template.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary List courses of the active template
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	tpl := h.service.ActiveTemplate()
	response.JSON(c, http.StatusOK, tpl.Courses, map[string]interface{}{
		"templateId": tpl.ID,
		"count":      len(tpl.Courses),
	})
}

// Create godoc
// @Summary Add a course to the active template
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CourseInput true "Course"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 507 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var input dto.CourseInput
	if !bindJSON(c, &input, "course") {
		return
	}
	course, err := h.service.AddCourse(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Replace a course, keeping its id
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.CourseInput true "Course"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var input dto.CourseInput
	if !bindJSON(c, &input, "course") {
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete a course; unknown ids are ignored
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Move godoc
// @Summary Move a course to new times and day
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.MoveCourseRequest true "Target"
// @Success 200 {object} response.Envelope
// @Success 204 "Unknown course, nothing moved"
// @Router /courses/{id}/move [post]
func (h *CourseHandler) Move(c *gin.Context) {
	var req dto.MoveCourseRequest
	if !bindJSON(c, &req, "move") {
		return
	}
	id := c.Param("id")
	if err := h.service.MoveCourse(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	course, ok := h.service.Course(id)
	if !ok {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, course)
}
