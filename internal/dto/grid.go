package dto

import "github.com/noah-isme/timetable-editor/internal/models"

// FormMode is the state of the course form.
type FormMode string

const (
	FormModeClosed FormMode = "closed"
	FormModeAdd    FormMode = "add"
	FormModeEdit   FormMode = "edit"
)

// FormState describes the open form and its draft values.
type FormState struct {
	Mode     FormMode     `json:"mode"`
	CourseID string       `json:"courseId,omitempty"`
	Draft    *CourseInput `json:"draft,omitempty"`
}

// GridCell is one (slot, day) intersection with its course stack.
type GridCell struct {
	DayOfWeek int             `json:"dayOfWeek"`
	Courses   []models.Course `json:"courses"`
}

// GridRow is one time slot across every weekday.
type GridRow struct {
	Slot  models.TimeSlot `json:"slot"`
	Cells []GridCell      `json:"cells"`
}

// GridView is the rendered timetable of the active template.
type GridView struct {
	TemplateID   string    `json:"templateId"`
	TemplateName string    `json:"templateName"`
	Days         []string  `json:"days"`
	Rows         []GridRow `json:"rows"`
	Form         FormState `json:"form"`
}

// DayAgenda lists one day's courses by start time.
type DayAgenda struct {
	DayOfWeek int             `json:"dayOfWeek"`
	Day       string          `json:"day"`
	Courses   []models.Course `json:"courses"`
}

// DropRequest targets the cell a course was dropped on.
type DropRequest struct {
	SlotID    string `json:"slotId" validate:"required"`
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
}
