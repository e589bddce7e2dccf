package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
	"github.com/noah-isme/timetable-editor/pkg/response"
)

// dayParam reads an integer day index from the path. It writes the error
// response itself and reports false when the value is not a number.
func dayParam(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Param(name))
	day, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer"))
		return 0, false
	}
	return day, true
}

// bindJSON decodes the body into dst, answering 400 on malformed payloads.
func bindJSON(c *gin.Context, dst interface{}, what string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+what+" payload"))
		return false
	}
	return true
}
