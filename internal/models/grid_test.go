package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoursesForSlotReturnsExactSubset(t *testing.T) {
	courses := []Course{
		{ID: "a", StartTime: "09:00", DayOfWeek: 1},
		{ID: "b", StartTime: "09:00", DayOfWeek: 2},
		{ID: "c", StartTime: "11:00", DayOfWeek: 1},
		{ID: "d", StartTime: "09:00", DayOfWeek: 1},
	}
	layout := DefaultLayout()

	got := CoursesForSlot(courses, layout.Slots[0], 1)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "d", got[1].ID)

	seen := map[string]int{}
	for _, slot := range layout.Slots {
		for day := range layout.Days {
			for _, course := range CoursesForSlot(courses, slot, day) {
				seen[course.ID]++
			}
		}
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "course %s rendered in more than one cell", id)
	}
}

func TestCoursesForSlotEmpty(t *testing.T) {
	got := CoursesForSlot(nil, TimeSlot{StartTime: "09:00"}, 0)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCoursesForDaySortsByStart(t *testing.T) {
	courses := []Course{
		{ID: "late", StartTime: "15:00", DayOfWeek: 0},
		{ID: "other", StartTime: "08:00", DayOfWeek: 3},
		{ID: "early", StartTime: "09:00", DayOfWeek: 0},
	}
	got := CoursesForDay(courses, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "late", got[1].ID)
}

func TestParseSlots(t *testing.T) {
	slots, err := ParseSlots([]string{"08:00-09:30", " 10:00 - 11:30 "})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, TimeSlot{ID: "2", StartTime: "10:00", EndTime: "11:30"}, slots[1])

	_, err = ParseSlots([]string{"8:00-9:30"})
	assert.Error(t, err)
	_, err = ParseSlots([]string{"10:00-09:00"})
	assert.Error(t, err)
	_, err = ParseSlots([]string{"10:00-11:00", "08:00-09:00"})
	assert.Error(t, err)
}

func TestStateCloneIsDeep(t *testing.T) {
	state := NewDefaultState()
	state.Templates[0].Courses = append(state.Templates[0].Courses, Course{ID: "c1", Title: "Calc I"})

	clone := state.Clone()
	clone.Templates[0].Courses[0].Title = "changed"
	clone.Templates[0].Name = "changed"

	assert.Equal(t, "Calc I", state.Templates[0].Courses[0].Title)
	assert.Equal(t, DefaultTemplateName, state.Templates[0].Name)
	assert.Equal(t, 1, state.CourseCount())
}
