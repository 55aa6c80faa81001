package calendar

import (
	"errors"
	"time"
)

type Direction string

const (
	DirectionPrev  Direction = "prev"
	DirectionNext  Direction = "next"
	DirectionToday Direction = "today"
)

var ErrInvalidDirection = errors.New("invalid navigation direction")

func ParseDirection(raw string) (Direction, error) {
	direction := Direction(raw)

	switch direction {
	case DirectionPrev, DirectionNext, DirectionToday:
		return direction, nil
	}

	return "", ErrInvalidDirection
}

// Navigate returns the reference date after paging the calendar. Month steps use calendar
// month arithmetic, so Jan 31 + 1 month normalizes into March. Today keeps the reference
// date and takes its time of day from now.
func Navigate(date time.Time, direction Direction, view View, now time.Time) time.Time {
	if direction == DirectionToday {
		year, month, day := date.Date()
		now = now.In(date.Location())

		return time.Date(year, month, day, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), date.Location())
	}

	step := 1
	if direction == DirectionPrev {
		step = -1
	}

	switch view {
	case ViewMonth:
		return date.AddDate(0, step, 0)
	case ViewWeek:
		return date.AddDate(0, 0, 7*step)
	default:
		return date.AddDate(0, 0, step)
	}
}
