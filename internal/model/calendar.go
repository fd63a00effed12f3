package model

import (
	"time"
)

// Granularity is the calendar resolution being viewed.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
	GranularityDay   Granularity = "day"
)

// Valid reports whether g is one of the three supported resolutions.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityMonth, GranularityWeek, GranularityDay:
		return true
	}
	return false
}

// CalendarCell is one day cell of a month or week grid. A nil Date marks a
// leading blank in the month layout; blank cells carry no day number.
type CalendarCell struct {
	Day        int        `json:"day,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	IsToday    bool       `json:"is_today"`
	IsSelected bool       `json:"is_selected"`
}

// Blank reports whether the cell is a leading filler with no date.
func (c CalendarCell) Blank() bool {
	return c.Date == nil
}

// ViewState is the navigator's current window: the anchor date defining the
// visible range, the focused date, and the active granularity.
type ViewState struct {
	AnchorDate   time.Time   `json:"anchor_date"`
	SelectedDate time.Time   `json:"selected_date"`
	Granularity  Granularity `json:"granularity"`
}
