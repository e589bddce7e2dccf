package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-editor/internal/service"
	"github.com/noah-isme/timetable-editor/pkg/response"
)

type exportService interface {
	Render(format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams printable renditions of the active template.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Download godoc
// @Summary Download the active template
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default), pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Render(format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Data)
}
