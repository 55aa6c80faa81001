package calendar_test

import (
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigate(t *testing.T) {
	t.Parallel()

	now := date(2026, time.October, 17, 15, 45)
	ref := date(2025, time.March, 10, 9, 0)

	tests := []struct {
		name      string
		direction calendar.Direction
		view      calendar.View
		want      time.Time
	}{
		{"next month", calendar.DirectionNext, calendar.ViewMonth, date(2025, time.April, 10, 9, 0)},
		{"prev month", calendar.DirectionPrev, calendar.ViewMonth, date(2025, time.February, 10, 9, 0)},
		{"next week", calendar.DirectionNext, calendar.ViewWeek, date(2025, time.March, 17, 9, 0)},
		{"prev week", calendar.DirectionPrev, calendar.ViewWeek, date(2025, time.March, 3, 9, 0)},
		{"next day", calendar.DirectionNext, calendar.ViewDay, date(2025, time.March, 11, 9, 0)},
		{"prev day", calendar.DirectionPrev, calendar.ViewDay, date(2025, time.March, 9, 9, 0)},
		{"list steps by day", calendar.DirectionNext, calendar.ViewList, date(2025, time.March, 11, 9, 0)},
		{"today keeps date and takes current time", calendar.DirectionToday, calendar.ViewMonth, date(2025, time.March, 10, 15, 45)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := calendar.Navigate(ref, tt.direction, tt.view, now)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestNavigate_MonthUsesCalendarArithmetic(t *testing.T) {
	t.Parallel()

	got := calendar.Navigate(date(2025, time.January, 31, 8, 0), calendar.DirectionNext, calendar.ViewMonth, time.Now())

	assert.True(t, date(2025, time.March, 3, 8, 0).Equal(got), "got %s", got)
}

func TestNavigate_RoundTrip(t *testing.T) {
	t.Parallel()

	views := []calendar.View{calendar.ViewMonth, calendar.ViewWeek, calendar.ViewDay}
	start := date(2023, time.January, 1, 6, 30)

	for _, view := range views {
		for i := 0; i < 400; i += 3 {
			d := start.AddDate(0, 0, i)
			if view == calendar.ViewMonth && d.Day() > 28 {
				continue
			}

			next := calendar.Navigate(d, calendar.DirectionNext, view, time.Time{})
			back := calendar.Navigate(next, calendar.DirectionPrev, view, time.Time{})

			assert.True(t, d.Equal(back), "view %s date %s", view, d)
		}
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	direction, err := calendar.ParseDirection("today")
	require.NoError(t, err)
	assert.Equal(t, calendar.DirectionToday, direction)

	_, err = calendar.ParseDirection("sideways")
	require.ErrorIs(t, err, calendar.ErrInvalidDirection)
}
