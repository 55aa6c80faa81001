// Package calendar computes calendar windows, navigation steps and date buckets for
// scheduled content. Everything here is a pure function of its inputs.
package calendar

import (
	"errors"
	"time"
)

type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
	ViewList  View = "list"
)

// ListHorizonMonths is how far ahead the list view looks.
const ListHorizonMonths = 3

const endOfDayNanos = 999 * int(time.Millisecond)

var ErrInvalidView = errors.New("invalid calendar view")

func (v View) IsValid() bool {
	switch v {
	case ViewMonth, ViewWeek, ViewDay, ViewList:
		return true
	}

	return false
}

// ParseView parses a view name, defaulting to month when empty.
func ParseView(raw string) (View, error) {
	if raw == "" {
		return ViewMonth, nil
	}

	view := View(raw)
	if !view.IsValid() {
		return "", ErrInvalidView
	}

	return view, nil
}

// Window is an inclusive [Start, End] range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WindowFor returns the range a calendar view anchored at date has to display. Day
// boundaries are taken in date's location. Views other than month, week and list get a
// single-day window.
func WindowFor(view View, date time.Time) Window {
	year, month, day := date.Date()
	loc := date.Location()

	switch view {
	case ViewMonth:
		return Window{
			Start: time.Date(year, month, 1, 0, 0, 0, 0, loc),
			End:   time.Date(year, month+1, 0, 23, 59, 59, endOfDayNanos, loc),
		}
	case ViewWeek:
		sunday := day - int(date.Weekday())

		return Window{
			Start: time.Date(year, month, sunday, 0, 0, 0, 0, loc),
			End:   time.Date(year, month, sunday+6, 23, 59, 59, endOfDayNanos, loc),
		}
	case ViewList:
		horizon := date.AddDate(0, ListHorizonMonths, 0)

		return Window{
			Start: startOfDay(date),
			End:   endOfDay(horizon),
		}
	default:
		return Window{
			Start: startOfDay(date),
			End:   endOfDay(date),
		}
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 23, 59, 59, endOfDayNanos, t.Location())
}
