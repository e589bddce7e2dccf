package dto

import "github.com/noah-isme/timetable-editor/internal/models"

// CourseInput carries the editable fields of a course form.
type CourseInput struct {
	Title     string            `json:"title" validate:"required,notblank"`
	Type      models.CourseType `json:"type" validate:"required,oneof=lecture lab seminar practice exam"`
	StartTime string            `json:"startTime" validate:"required,hhmm"`
	EndTime   string            `json:"endTime" validate:"required,hhmm"`
	Location  string            `json:"location" validate:"required,notblank"`
	DayOfWeek int               `json:"dayOfWeek" validate:"min=0,max=6"`
	Professor string            `json:"professor" validate:"omitempty,max=200"`
}

// FromCourse pre-fills a form draft from an existing course.
func FromCourse(course models.Course) CourseInput {
	return CourseInput{
		Title:     course.Title,
		Type:      course.Type,
		StartTime: course.StartTime,
		EndTime:   course.EndTime,
		Location:  course.Location,
		DayOfWeek: course.DayOfWeek,
		Professor: course.Professor,
	}
}

// MoveCourseRequest relocates a course to explicit times and day.
type MoveCourseRequest struct {
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
}

// TemplateRequest names a template on create or rename.
type TemplateRequest struct {
	Name string `json:"name"`
}
