package models

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

// Recurrence describes how a scheduled item repeats. It is stored as metadata only;
// nothing in this module materializes future occurrences from it.
type Recurrence struct {
	Frequency Frequency  `json:"frequency"`
	Interval  int        `json:"interval"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// DaysOfWeek uses 0 for Sunday through 6 for Saturday. Only weekly recurrences use it.
	DaysOfWeek []int `json:"days_of_week,omitempty"`
}

var (
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrInvalidFrequency  = fmt.Errorf("%w: frequency must be daily, weekly or monthly", ErrInvalidRecurrence)
	ErrInvalidInterval   = fmt.Errorf("%w: interval must be a positive integer", ErrInvalidRecurrence)
	ErrInvalidDayOfWeek  = fmt.Errorf("%w: days of week must be between 0 and 6", ErrInvalidRecurrence)
)

// Validate accepts the pattern unchanged or rejects it. Days of week on a non-weekly
// frequency are accepted and left for consumers to ignore.
func (r Recurrence) Validate() error {
	if !r.Frequency.IsValid() {
		return ErrInvalidFrequency
	}

	if r.Interval < 1 {
		return ErrInvalidInterval
	}

	for _, day := range r.DaysOfWeek {
		if day < 0 || day > 6 {
			return ErrInvalidDayOfWeek
		}
	}

	return nil
}

// EffectiveDaysOfWeek returns the days a consumer should honour: the configured days for
// weekly recurrences and nil otherwise.
func (r Recurrence) EffectiveDaysOfWeek() []int {
	if r.Frequency != FrequencyWeekly {
		return nil
	}

	return r.DaysOfWeek
}

func (r Recurrence) clone() Recurrence {
	r.DaysOfWeek = slices.Clone(r.DaysOfWeek)

	if r.EndDate != nil {
		endDate := *r.EndDate
		r.EndDate = &endDate
	}

	return r
}
