package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimeLayout is the wall-clock format used for course and slot boundaries.
const TimeLayout = "15:04"

// TimeSlot is one static row of the weekly grid.
type TimeSlot struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Layout holds the fixed weekday columns and time-slot rows of the grid.
// Day indexes are 0-based with Monday at 0.
type Layout struct {
	Days  []string   `json:"days"`
	Slots []TimeSlot `json:"slots"`
}

// DefaultDays is Monday through Saturday.
var DefaultDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DefaultSlots are the ninety-minute class periods.
var DefaultSlots = []TimeSlot{
	{ID: "1", StartTime: "09:00", EndTime: "10:30"},
	{ID: "2", StartTime: "11:00", EndTime: "12:30"},
	{ID: "3", StartTime: "13:00", EndTime: "14:30"},
	{ID: "4", StartTime: "15:00", EndTime: "16:30"},
	{ID: "5", StartTime: "17:00", EndTime: "18:30"},
	{ID: "6", StartTime: "19:00", EndTime: "20:30"},
}

// DefaultLayout returns a copy of the built-in grid.
func DefaultLayout() Layout {
	days := make([]string, len(DefaultDays))
	copy(days, DefaultDays)
	slots := make([]TimeSlot, len(DefaultSlots))
	copy(slots, DefaultSlots)
	return Layout{Days: days, Slots: slots}
}

// ValidDay reports whether day indexes one of the layout's columns.
func (l Layout) ValidDay(day int) bool {
	return day >= 0 && day < len(l.Days)
}

// Slot looks a row up by id.
func (l Layout) Slot(id string) (TimeSlot, bool) {
	for _, slot := range l.Slots {
		if slot.ID == id {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// ParseSlots parses "HH:MM-HH:MM" ranges into ordered slots numbered from 1.
func ParseSlots(ranges []string) ([]TimeSlot, error) {
	slots := make([]TimeSlot, 0, len(ranges))
	for i, raw := range ranges {
		start, end, ok := strings.Cut(strings.TrimSpace(raw), "-")
		if !ok {
			return nil, fmt.Errorf("time slot %q: expected HH:MM-HH:MM", raw)
		}
		start, end = strings.TrimSpace(start), strings.TrimSpace(end)
		if !ValidClock(start) || !ValidClock(end) {
			return nil, fmt.Errorf("time slot %q: invalid clock value", raw)
		}
		if CompareClock(start, end) >= 0 {
			return nil, fmt.Errorf("time slot %q: start must precede end", raw)
		}
		slots = append(slots, TimeSlot{ID: fmt.Sprintf("%d", i+1), StartTime: start, EndTime: end})
	}
	sorted := sort.SliceIsSorted(slots, func(a, b int) bool {
		return CompareClock(slots[a].StartTime, slots[b].StartTime) < 0
	})
	if !sorted {
		return nil, fmt.Errorf("time slots must be listed in chronological order")
	}
	return slots, nil
}

// ValidClock reports whether value is a zero-padded 24h HH:MM string.
func ValidClock(value string) bool {
	if len(value) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, value)
	return err == nil
}

// CompareClock orders two HH:MM strings. Zero-padded values sort lexically.
func CompareClock(a, b string) int {
	return strings.Compare(a, b)
}

// NewLayout builds a layout from configured day labels and slot ranges.
func NewLayout(days []string, ranges []string) (Layout, error) {
	if len(days) == 0 || len(days) > 7 {
		return Layout{}, fmt.Errorf("layout needs between 1 and 7 days, got %d", len(days))
	}
	slots, err := ParseSlots(ranges)
	if err != nil {
		return Layout{}, err
	}
	if len(slots) == 0 {
		return Layout{}, fmt.Errorf("layout needs at least one time slot")
	}
	labels := make([]string, len(days))
	copy(labels, days)
	return Layout{Days: labels, Slots: slots}, nil
}
