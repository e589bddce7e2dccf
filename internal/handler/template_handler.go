package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
	"github.com/noah-isme/timetable-editor/pkg/response"
)

type templateService interface {
	Snapshot() models.State
	ListTemplates() []models.ScheduleTemplate
	SelectTemplate(ctx context.Context, id string) error
	CreateTemplate(ctx context.Context, name string) (models.ScheduleTemplate, error)
	RenameTemplate(ctx context.Context, id, name string) error
	DeleteTemplate(ctx context.Context, id string) error
}

// TemplateHandler exposes schedule template endpoints. Mutations on unknown
// ids succeed without effect and answer with the resulting state.
type TemplateHandler struct {
	service templateService
}

// NewTemplateHandler constructs the handler.
func NewTemplateHandler(service templateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// State godoc
// @Summary Full timetable state
// @Tags Templates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /state [get]
func (h *TemplateHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Snapshot())
}

// List godoc
// @Summary List schedule templates
// @Tags Templates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	state := h.service.Snapshot()
	response.JSON(c, http.StatusOK, state.Templates, map[string]interface{}{
		"currentTemplateId": state.CurrentTemplateID,
	})
}

// Create godoc
// @Summary Create a template and make it active
// @Tags Templates
// @Accept json
// @Produce json
// @Param payload body dto.TemplateRequest false "Template name"
// @Success 201 {object} response.Envelope
// @Failure 507 {object} response.Envelope
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}
	tpl, err := h.service.CreateTemplate(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tpl)
}

// Rename godoc
// @Summary Rename a template; blank names are ignored
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body dto.TemplateRequest true "New name"
// @Success 200 {object} response.Envelope
// @Router /templates/{id} [put]
func (h *TemplateHandler) Rename(c *gin.Context) {
	var req dto.TemplateRequest
	if !bindJSON(c, &req, "template") {
		return
	}
	h.respondState(c, h.service.RenameTemplate(c.Request.Context(), c.Param("id"), req.Name))
}

// Delete godoc
// @Summary Delete a template; the last template is kept
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	h.respondState(c, h.service.DeleteTemplate(c.Request.Context(), c.Param("id")))
}

// Select godoc
// @Summary Activate a template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /templates/{id}/select [post]
func (h *TemplateHandler) Select(c *gin.Context) {
	h.respondState(c, h.service.SelectTemplate(c.Request.Context(), c.Param("id")))
}

func (h *TemplateHandler) respondState(c *gin.Context, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Snapshot())
}
