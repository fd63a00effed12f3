// Package view owns the calendar's navigable state: which date anchors the
// visible window, which date is focused, and the active granularity.
package view

import (
	"sync"
	"time"

	"github.com/jwalitptl/clinic-scheduler/internal/calendar"
	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

// Navigator is the calendar view state machine. It starts in the month view
// anchored on today and lives for the whole calendar session. Every operation
// returns the resulting ViewState snapshot.
type Navigator struct {
	mu    sync.Mutex
	state model.ViewState
	now   func() time.Time
}

// NewNavigator builds a navigator anchored on the current date. The clock is
// injectable for tests; pass nil for time.Now.
func NewNavigator(now func() time.Time) *Navigator {
	if now == nil {
		now = time.Now
	}
	today := truncateToDay(now())
	return &Navigator{
		state: model.ViewState{
			AnchorDate:   today,
			SelectedDate: today,
			Granularity:  model.GranularityMonth,
		},
		now: now,
	}
}

// State returns a snapshot of the current view state.
func (n *Navigator) State() model.ViewState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// SelectDate focuses the given date. Selecting from the month view drills into
// the day view; the week and day views keep their granularity.
func (n *Navigator) SelectDate(date time.Time) model.ViewState {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.state.SelectedDate = truncateToDay(date)
	if n.state.Granularity == model.GranularityMonth {
		n.state.Granularity = model.GranularityDay
	}
	return n.state
}

// Next shifts the anchor forward by one unit of the current granularity.
func (n *Navigator) Next() model.ViewState {
	return n.shift(1)
}

// Previous shifts the anchor back by one unit of the current granularity.
func (n *Navigator) Previous() model.ViewState {
	return n.shift(-1)
}

func (n *Navigator) shift(dir int) model.ViewState {
	n.mu.Lock()
	defer n.mu.Unlock()

	anchor := n.state.AnchorDate
	switch n.state.Granularity {
	case model.GranularityMonth:
		anchor = shiftMonth(anchor, dir)
	case model.GranularityWeek:
		anchor = anchor.AddDate(0, 0, 7*dir)
	case model.GranularityDay:
		anchor = anchor.AddDate(0, 0, dir)
	}

	n.state.AnchorDate = anchor
	n.state.SelectedDate = anchor
	return n.state
}

// Today resets anchor and selection to the current date, keeping granularity.
func (n *Navigator) Today() model.ViewState {
	n.mu.Lock()
	defer n.mu.Unlock()

	today := truncateToDay(n.now())
	n.state.AnchorDate = today
	n.state.SelectedDate = today
	return n.state
}

// SetGranularity switches the view resolution without moving anchor or
// selection.
func (n *Navigator) SetGranularity(g model.Granularity) model.ViewState {
	n.mu.Lock()
	defer n.mu.Unlock()

	if g.Valid() {
		n.state.Granularity = g
	}
	return n.state
}

// shiftMonth moves the anchor by whole calendar months, clamping the day of
// month when the target month is shorter (Jan 31 -> Feb 28, not Mar 3).
func shiftMonth(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)

	ty, tm, _ := first.Date()
	return time.Date(ty, tm, calendar.ClampDayOfMonth(ty, tm, day), 0, 0, 0, 0, t.Location())
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
