package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
)

type scheduleStore interface {
	ActiveTemplate() models.ScheduleTemplate
	Course(id string) (models.Course, bool)
	AddCourse(ctx context.Context, input dto.CourseInput) (models.Course, error)
	UpdateCourse(ctx context.Context, id string, input dto.CourseInput) (models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	MoveCourse(ctx context.Context, id string, req dto.MoveCourseRequest) error
}

// GridPresenter projects the active template onto the (slot x day) grid and
// turns grid interactions into store calls. It never mutates courses itself.
type GridPresenter struct {
	store  scheduleStore
	layout models.Layout
	logger *zap.Logger

	mu   sync.Mutex
	form dto.FormState
}

// NewGridPresenter constructs a presenter over the given layout.
func NewGridPresenter(store scheduleStore, layout models.Layout, logger *zap.Logger) *GridPresenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridPresenter{
		store:  store,
		layout: layout,
		logger: logger,
		form:   dto.FormState{Mode: dto.FormModeClosed},
	}
}

// Layout returns the static grid definition.
func (p *GridPresenter) Layout() models.Layout {
	return p.layout
}

// CoursesForSlot returns the active template's courses starting in the cell.
func (p *GridPresenter) CoursesForSlot(slot models.TimeSlot, day int) []models.Course {
	return models.CoursesForSlot(p.store.ActiveTemplate().Courses, slot, day)
}

// SlotCourses resolves a slot id and returns the cell's courses.
func (p *GridPresenter) SlotCourses(slotID string, day int) ([]models.Course, error) {
	slot, err := p.cell(slotID, day)
	if err != nil {
		return nil, err
	}
	return p.CoursesForSlot(slot, day), nil
}

// Grid renders every cell of the active template together with the form state.
func (p *GridPresenter) Grid() dto.GridView {
	tpl := p.store.ActiveTemplate()
	rows := make([]dto.GridRow, 0, len(p.layout.Slots))
	for _, slot := range p.layout.Slots {
		cells := make([]dto.GridCell, 0, len(p.layout.Days))
		for day := range p.layout.Days {
			cells = append(cells, dto.GridCell{
				DayOfWeek: day,
				Courses:   models.CoursesForSlot(tpl.Courses, slot, day),
			})
		}
		rows = append(rows, dto.GridRow{Slot: slot, Cells: cells})
	}
	return dto.GridView{
		TemplateID:   tpl.ID,
		TemplateName: tpl.Name,
		Days:         p.layout.Days,
		Rows:         rows,
		Form:         p.Form(),
	}
}

// Agenda lists each day's courses by start time, including courses whose
// start time matches no grid slot.
func (p *GridPresenter) Agenda() []dto.DayAgenda {
	tpl := p.store.ActiveTemplate()
	agenda := make([]dto.DayAgenda, 0, len(p.layout.Days))
	for day, label := range p.layout.Days {
		agenda = append(agenda, dto.DayAgenda{
			DayOfWeek: day,
			Day:       label,
			Courses:   models.CoursesForDay(tpl.Courses, day),
		})
	}
	return agenda
}

// Form returns the current form state.
func (p *GridPresenter) Form() dto.FormState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyForm(p.form)
}

// OnAddClicked opens an empty add form.
func (p *GridPresenter) OnAddClicked() dto.FormState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = dto.FormState{Mode: dto.FormModeAdd, Draft: &dto.CourseInput{Type: models.CourseTypeLecture}}
	return copyForm(p.form)
}

// OnCellClicked opens the add form pre-filled with the cell's time and day.
func (p *GridPresenter) OnCellClicked(slotID string, day int) (dto.FormState, error) {
	slot, err := p.cell(slotID, day)
	if err != nil {
		return p.Form(), err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = dto.FormState{
		Mode: dto.FormModeAdd,
		Draft: &dto.CourseInput{
			Type:      models.CourseTypeLecture,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			DayOfWeek: day,
		},
	}
	return copyForm(p.form), nil
}

// OnCourseClicked opens the edit form for a course. A stale id leaves the form as it was.
func (p *GridPresenter) OnCourseClicked(courseID string) dto.FormState {
	course, ok := p.store.Course(courseID)
	p.mu.Lock()
	defer p.mu.Unlock()
	if !ok {
		p.logger.Debug("ignoring click on unknown course", zap.String("course_id", courseID))
		return copyForm(p.form)
	}
	draft := dto.FromCourse(course)
	p.form = dto.FormState{Mode: dto.FormModeEdit, CourseID: course.ID, Draft: &draft}
	return copyForm(p.form)
}

// OnCourseDropped moves a course to the target cell's slot times and day.
func (p *GridPresenter) OnCourseDropped(ctx context.Context, courseID, slotID string, day int) error {
	slot, err := p.cell(slotID, day)
	if err != nil {
		return err
	}
	return p.store.MoveCourse(ctx, courseID, dto.MoveCourseRequest{
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		DayOfWeek: day,
	})
}

// OnFormSubmit adds or updates depending on the open form. Validation errors
// keep the form open with the submitted draft; any applied change closes it.
func (p *GridPresenter) OnFormSubmit(ctx context.Context, input dto.CourseInput) (models.Course, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		course models.Course
		err    error
	)
	switch p.form.Mode {
	case dto.FormModeAdd:
		course, err = p.store.AddCourse(ctx, input)
	case dto.FormModeEdit:
		course, err = p.store.UpdateCourse(ctx, p.form.CourseID, input)
	default:
		return models.Course{}, appErrors.Clone(appErrors.ErrValidation, "course form is not open")
	}

	if err != nil && errors.Is(err, appErrors.ErrValidation) {
		draft := input
		p.form.Draft = &draft
		return models.Course{}, err
	}
	p.form = dto.FormState{Mode: dto.FormModeClosed}
	return course, err
}

// OnFormDelete deletes the course being edited and closes the form.
func (p *GridPresenter) OnFormDelete(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.form.Mode != dto.FormModeEdit {
		return appErrors.Clone(appErrors.ErrValidation, "no course is being edited")
	}
	err := p.store.DeleteCourse(ctx, p.form.CourseID)
	p.form = dto.FormState{Mode: dto.FormModeClosed}
	return err
}

// OnFormCancel closes the form without changes.
func (p *GridPresenter) OnFormCancel() dto.FormState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = dto.FormState{Mode: dto.FormModeClosed}
	return copyForm(p.form)
}

func (p *GridPresenter) cell(slotID string, day int) (models.TimeSlot, error) {
	slot, ok := p.layout.Slot(slotID)
	if !ok {
		return models.TimeSlot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown time slot %q", slotID))
	}
	if !p.layout.ValidDay(day) {
		return models.TimeSlot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("dayOfWeek must be between 0 and %d", len(p.layout.Days)-1))
	}
	return slot, nil
}

func copyForm(form dto.FormState) dto.FormState {
	if form.Draft != nil {
		draft := *form.Draft
		form.Draft = &draft
	}
	return form
}
