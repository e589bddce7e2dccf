package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
)

func newPresenterForTest(t *testing.T) (*GridPresenter, *ScheduleStore, *memoryStateRepo) {
	t.Helper()
	repo := newMemoryStateRepo()
	store := newStoreForTest(t, repo)
	return NewGridPresenter(store, store.Layout(), zap.NewNop()), store, repo
}

func TestGridPresenterGridShape(t *testing.T) {
	presenter, store, _ := newPresenterForTest(t)
	_, err := store.AddCourse(context.Background(), lectureInput("Math", "11:00", "12:30", 2))
	require.NoError(t, err)
	_, err = store.AddCourse(context.Background(), lectureInput("Off grid", "10:00", "11:00", 2))
	require.NoError(t, err)

	view := presenter.Grid()
	layout := store.Layout()
	require.Len(t, view.Rows, len(layout.Slots))
	placed := 0
	for _, row := range view.Rows {
		require.Len(t, row.Cells, len(layout.Days))
		for _, cell := range row.Cells {
			require.NotNil(t, cell.Courses)
			placed += len(cell.Courses)
		}
	}
	assert.Equal(t, 1, placed)
	assert.Equal(t, "Math", view.Rows[1].Cells[2].Courses[0].Title)
	assert.Equal(t, dto.FormModeClosed, view.Form.Mode)

	agenda := presenter.Agenda()
	require.Len(t, agenda, len(layout.Days))
	require.Len(t, agenda[2].Courses, 2)
	assert.Equal(t, "Off grid", agenda[2].Courses[0].Title)
}

func TestGridPresenterCellClickOpensAddForm(t *testing.T) {
	presenter, _, _ := newPresenterForTest(t)

	form, err := presenter.OnCellClicked("2", 4)
	require.NoError(t, err)
	assert.Equal(t, dto.FormModeAdd, form.Mode)
	require.NotNil(t, form.Draft)
	assert.Equal(t, "11:00", form.Draft.StartTime)
	assert.Equal(t, "12:30", form.Draft.EndTime)
	assert.Equal(t, 4, form.Draft.DayOfWeek)

	_, err = presenter.OnCellClicked("99", 0)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	_, err = presenter.OnCellClicked("1", 6)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestGridPresenterSubmitAddThenEdit(t *testing.T) {
	presenter, store, _ := newPresenterForTest(t)
	ctx := context.Background()

	_, err := presenter.OnCellClicked("1", 0)
	require.NoError(t, err)
	created, err := presenter.OnFormSubmit(ctx, lectureInput("Math", "09:00", "10:30", 0))
	require.NoError(t, err)
	assert.Equal(t, dto.FormModeClosed, presenter.Form().Mode)

	form := presenter.OnCourseClicked(created.ID)
	assert.Equal(t, dto.FormModeEdit, form.Mode)
	assert.Equal(t, created.ID, form.CourseID)
	assert.Equal(t, "Math", form.Draft.Title)

	updated, err := presenter.OnFormSubmit(ctx, lectureInput("Algebra", "09:00", "10:30", 0))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	require.Len(t, store.ActiveTemplate().Courses, 1)
	assert.Equal(t, "Algebra", store.ActiveTemplate().Courses[0].Title)
}

func TestGridPresenterSubmitValidationKeepsFormOpen(t *testing.T) {
	presenter, store, _ := newPresenterForTest(t)

	_, err := presenter.OnCellClicked("1", 0)
	require.NoError(t, err)
	bad := lectureInput("", "09:00", "10:30", 0)
	_, err = presenter.OnFormSubmit(context.Background(), bad)
	require.Error(t, err)

	form := presenter.Form()
	assert.Equal(t, dto.FormModeAdd, form.Mode)
	assert.Equal(t, "Room 101", form.Draft.Location)
	assert.Empty(t, store.ActiveTemplate().Courses)
}

func TestGridPresenterSubmitWithoutForm(t *testing.T) {
	presenter, _, _ := newPresenterForTest(t)

	_, err := presenter.OnFormSubmit(context.Background(), lectureInput("Math", "09:00", "10:30", 0))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestGridPresenterUnknownCourseClickIsIgnored(t *testing.T) {
	presenter, _, _ := newPresenterForTest(t)
	presenter.OnAddClicked()

	form := presenter.OnCourseClicked("missing")
	assert.Equal(t, dto.FormModeAdd, form.Mode)
}

func TestGridPresenterDropMovesCourse(t *testing.T) {
	presenter, store, repo := newPresenterForTest(t)
	ctx := context.Background()
	course, err := store.AddCourse(ctx, lectureInput("Math", "09:00", "10:30", 1))
	require.NoError(t, err)

	require.NoError(t, presenter.OnCourseDropped(ctx, course.ID, "2", 3))

	layout := store.Layout()
	assert.Empty(t, presenter.CoursesForSlot(layout.Slots[0], 1))
	cell, err := presenter.SlotCourses("2", 3)
	require.NoError(t, err)
	require.Len(t, cell, 1)
	assert.Equal(t, "11:00", cell[0].StartTime)
	assert.Equal(t, "12:30", cell[0].EndTime)
	assert.Equal(t, 3, repo.stored(t).Templates[0].Courses[0].DayOfWeek)

	err = presenter.OnCourseDropped(ctx, course.ID, "nope", 3)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestGridPresenterFormDeleteAndCancel(t *testing.T) {
	presenter, store, _ := newPresenterForTest(t)
	ctx := context.Background()
	course, err := store.AddCourse(ctx, lectureInput("Math", "09:00", "10:30", 1))
	require.NoError(t, err)

	assert.True(t, errors.Is(presenter.OnFormDelete(ctx), appErrors.ErrValidation))

	presenter.OnCourseClicked(course.ID)
	require.NoError(t, presenter.OnFormDelete(ctx))
	assert.Empty(t, store.ActiveTemplate().Courses)
	assert.Equal(t, dto.FormModeClosed, presenter.Form().Mode)

	presenter.OnAddClicked()
	form := presenter.OnFormCancel()
	assert.Equal(t, dto.FormModeClosed, form.Mode)
	assert.Nil(t, form.Draft)
}

func TestGridPresenterFollowsActiveTemplate(t *testing.T) {
	presenter, store, _ := newPresenterForTest(t)
	ctx := context.Background()
	_, err := store.AddCourse(ctx, lectureInput("Math", "09:00", "10:30", 0))
	require.NoError(t, err)

	tpl, err := store.CreateTemplate(ctx, "Week B")
	require.NoError(t, err)

	view := presenter.Grid()
	assert.Equal(t, tpl.ID, view.TemplateID)
	assert.Empty(t, view.Rows[0].Cells[0].Courses)
	assert.Equal(t, []models.Course{}, presenter.CoursesForSlot(store.Layout().Slots[0], 0))
}
