// Package calendar holds the pure date arithmetic behind the month, week and
// day views. Nothing here touches the repository or the clock: callers pass
// "today" and the current selection in so the builders stay deterministic.
package calendar

import (
	"time"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

// Agenda slot bounds for the day view, hours inclusive.
const (
	AgendaStartHour = 8
	AgendaEndHour   = 19
)

// BuildMonthGrid lays out the anchor's month for a 7-column calendar.
// The grid opens with one blank cell per weekday before the 1st (Sunday = 0)
// and then one cell per day of the month. No trailing padding is added, so the
// final row may be partial.
func BuildMonthGrid(anchor, today, selected time.Time) []model.CalendarCell {
	year, month, _ := anchor.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, anchor.Location())

	leadingBlanks := int(firstOfMonth.Weekday())
	days := DaysInMonth(year, month)

	cells := make([]model.CalendarCell, 0, leadingBlanks+days)
	for i := 0; i < leadingBlanks; i++ {
		cells = append(cells, model.CalendarCell{})
	}
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, anchor.Location())
		cells = append(cells, newCell(date, today, selected))
	}
	return cells
}

// BuildWeekGrid returns the 7 consecutive days of the week containing
// selected, starting on Sunday. Weeks straddling a month or year boundary come
// out naturally from the date arithmetic.
func BuildWeekGrid(selected, today time.Time) []model.CalendarCell {
	start := StartOfWeek(selected)

	cells := make([]model.CalendarCell, 0, 7)
	for i := 0; i < 7; i++ {
		cells = append(cells, newCell(start.AddDate(0, 0, i), today, selected))
	}
	return cells
}

// BuildDayAgenda returns the hour slots of the day view, 8 through 19. The
// slots carry no date; callers pair them with the selected date when querying.
func BuildDayAgenda() []int {
	hours := make([]int, 0, AgendaEndHour-AgendaStartHour+1)
	for h := AgendaStartHour; h <= AgendaEndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

func newCell(date, today, selected time.Time) model.CalendarCell {
	d := date
	return model.CalendarCell{
		Day:        date.Day(),
		Date:       &d,
		IsToday:    SameDay(date, today),
		IsSelected: SameDay(date, selected),
	}
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth clamps day into the valid range for the given month.
func ClampDayOfMonth(year int, month time.Month, day int) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	if day < 1 {
		return 1
	}
	return day
}
