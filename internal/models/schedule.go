package models

// CourseType is the presentation category of a course.
type CourseType string

const (
	CourseTypeLecture  CourseType = "lecture"
	CourseTypeLab      CourseType = "lab"
	CourseTypeSeminar  CourseType = "seminar"
	CourseTypePractice CourseType = "practice"
	CourseTypeExam     CourseType = "exam"
)

// CourseTypes lists the accepted course categories in display order.
var CourseTypes = []CourseType{
	CourseTypeLecture,
	CourseTypeLab,
	CourseTypeSeminar,
	CourseTypePractice,
	CourseTypeExam,
}

// Course is a single class occurrence placed on the weekly grid.
type Course struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Type      CourseType `json:"type"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Location  string     `json:"location"`
	DayOfWeek int        `json:"dayOfWeek"`
	Professor string     `json:"professor,omitempty"`
}

// DefaultTemplateID is reserved for the template created on first start.
const DefaultTemplateID = "default"

// DefaultTemplateName names the template created on first start.
const DefaultTemplateName = "Main schedule"

// ScheduleTemplate is a named, independently editable timetable.
type ScheduleTemplate struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Courses []Course `json:"courses"`
}

// Clone returns a deep copy of the template.
func (t ScheduleTemplate) Clone() ScheduleTemplate {
	courses := make([]Course, len(t.Courses))
	copy(courses, t.Courses)
	return ScheduleTemplate{ID: t.ID, Name: t.Name, Courses: courses}
}

// FindCourse returns the index of the course with the given id or -1.
func (t ScheduleTemplate) FindCourse(id string) int {
	for i := range t.Courses {
		if t.Courses[i].ID == id {
			return i
		}
	}
	return -1
}

// State is the persisted value of the schedule store.
type State struct {
	Templates         []ScheduleTemplate `json:"templates"`
	CurrentTemplateID string             `json:"currentTemplateId"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	templates := make([]ScheduleTemplate, len(s.Templates))
	for i := range s.Templates {
		templates[i] = s.Templates[i].Clone()
	}
	return State{Templates: templates, CurrentTemplateID: s.CurrentTemplateID}
}

// FindTemplate returns the index of the template with the given id or -1.
func (s State) FindTemplate(id string) int {
	for i := range s.Templates {
		if s.Templates[i].ID == id {
			return i
		}
	}
	return -1
}

// CourseCount totals courses across every template.
func (s State) CourseCount() int {
	total := 0
	for i := range s.Templates {
		total += len(s.Templates[i].Courses)
	}
	return total
}

// NewDefaultState builds the single empty template used on first start or recovery.
func NewDefaultState() State {
	return State{
		Templates: []ScheduleTemplate{{
			ID:      DefaultTemplateID,
			Name:    DefaultTemplateName,
			Courses: []Course{},
		}},
		CurrentTemplateID: DefaultTemplateID,
	}
}
