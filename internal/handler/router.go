package handler

import "github.com/gin-gonic/gin"

// Handlers groups every API handler mounted under the API prefix.
type Handlers struct {
	Templates *TemplateHandler
	Courses   *CourseHandler
	Grid      *GridHandler
	Notices   *NoticeHandler
	Export    *ExportHandler
}

// RegisterRoutes mounts the timetable API on group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	group.GET("/state", h.Templates.State)

	templates := group.Group("/templates")
	templates.GET("", h.Templates.List)
	templates.POST("", h.Templates.Create)
	templates.PUT("/:id", h.Templates.Rename)
	templates.DELETE("/:id", h.Templates.Delete)
	templates.POST("/:id/select", h.Templates.Select)

	courses := group.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)
	courses.POST("/:id/move", h.Courses.Move)

	grid := group.Group("/grid")
	grid.GET("", h.Grid.Grid)
	grid.GET("/layout", h.Grid.Layout)
	grid.GET("/agenda", h.Grid.Agenda)
	grid.GET("/slots/:slotId/days/:day", h.Grid.Cell)
	grid.POST("/cells/:slotId/:day/click", h.Grid.CellClick)
	grid.POST("/courses/:id/click", h.Grid.CourseClick)
	grid.POST("/courses/:id/drop", h.Grid.Drop)
	grid.GET("/form", h.Grid.Form)
	grid.POST("/form/open", h.Grid.OpenForm)
	grid.POST("/form/submit", h.Grid.Submit)
	grid.POST("/form/delete", h.Grid.DeleteFromForm)
	grid.POST("/form/cancel", h.Grid.Cancel)

	group.GET("/notices", h.Notices.Current)
	group.DELETE("/notices", h.Notices.Acknowledge)

	group.GET("/export", h.Export.Download)
}
