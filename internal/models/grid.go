package models

import "sort"

// CoursesForSlot returns the courses whose start time and day match the cell.
// Courses sharing a cell keep their list order so stacks render stably.
func CoursesForSlot(courses []Course, slot TimeSlot, day int) []Course {
	matches := make([]Course, 0)
	for _, course := range courses {
		if course.StartTime == slot.StartTime && course.DayOfWeek == day {
			matches = append(matches, course)
		}
	}
	return matches
}

// CoursesForDay returns the courses on day ordered by start time.
func CoursesForDay(courses []Course, day int) []Course {
	matches := make([]Course, 0)
	for _, course := range courses {
		if course.DayOfWeek == day {
			matches = append(matches, course)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return CompareClock(matches[i].StartTime, matches[j].StartTime) < 0
	})
	return matches
}
