package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-editor/internal/models"
	"github.com/noah-isme/timetable-editor/pkg/response"
)

type noticeService interface {
	Current() (models.Notice, bool)
	Acknowledge()
}

// NoticeHandler exposes the latest save notice.
type NoticeHandler struct {
	service noticeService
}

// NewNoticeHandler constructs the handler.
func NewNoticeHandler(service noticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// Current godoc
// @Summary Visible save notice
// @Tags Notices
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 204 "No notice"
// @Router /notices [get]
func (h *NoticeHandler) Current(c *gin.Context) {
	notice, ok := h.service.Current()
	if !ok {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, notice)
}

// Acknowledge godoc
// @Summary Dismiss the visible notice
// @Tags Notices
// @Success 204
// @Router /notices [delete]
func (h *NoticeHandler) Acknowledge(c *gin.Context) {
	h.service.Acknowledge()
	response.NoContent(c)
}
