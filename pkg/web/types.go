package web

import (
	"time"

	"github.com/pagecraft/pagecraft/pkg/calendar"
	"github.com/pagecraft/pagecraft/pkg/models"
)

// CreateContentRequest represents the request body for creating draft content.
type CreateContentRequest struct {
	WorkspaceID string                                  `json:"workspace_id" validate:"required"`
	CreatorID   string                                  `json:"creator_id"   validate:"required"`
	ContentType models.ContentType                      `json:"content_type" validate:"required,oneof=text image video link carousel story reel"`
	Platforms   map[models.Platform]models.PlatformPost `json:"platforms"    validate:"required,min=1"`
}

// ScheduleContentRequest represents the request body for scheduling content.
type ScheduleContentRequest struct {
	PublishDate time.Time `json:"publish_date" validate:"required"`
	Timezone    string    `json:"timezone"     validate:"required"`
}

// RescheduleContentRequest represents the request body for moving a scheduled publish date.
type RescheduleContentRequest struct {
	PublishDate time.Time `json:"publish_date" validate:"required"`
}

// RecurrenceRequest represents the request body for attaching a recurrence. Interval and
// day ranges are checked by the recurrence validator so every rule reports the same way.
type RecurrenceRequest struct {
	Frequency  models.Frequency `json:"frequency"              validate:"required"`
	Interval   int              `json:"interval"`
	EndDate    *time.Time       `json:"end_date,omitempty"`
	DaysOfWeek []int            `json:"days_of_week,omitempty"`
}

func (r RecurrenceRequest) toModel() models.Recurrence {
	return models.Recurrence{
		Frequency:  r.Frequency,
		Interval:   r.Interval,
		EndDate:    r.EndDate,
		DaysOfWeek: r.DaysOfWeek,
	}
}

// CreateOAuthStateRequest represents the request body for issuing an OAuth state token.
type CreateOAuthStateRequest struct {
	Platform    models.Platform `json:"platform"     validate:"required"`
	WorkspaceID string          `json:"workspace_id" validate:"required"`
	RedirectURL string          `json:"redirect_url" validate:"omitempty,url"`
}

type OAuthStateResponse struct {
	State     string `json:"state"`
	ExpiresIn int    `json:"expires_in"`
}

// CalendarResponse is the payload of a calendar view.
type CalendarResponse struct {
	WorkspaceID string           `json:"workspace_id"`
	View        calendar.View    `json:"view"`
	Date        string           `json:"date"`
	Window      calendar.Window  `json:"window"`
	Dates       []string         `json:"dates"`
	Buckets     calendar.Buckets `json:"buckets"`
}

// DayResponse is the payload of a single calendar date.
type DayResponse struct {
	Date     string                  `json:"date"`
	Contents []*models.SocialContent `json:"contents"`
}

// NavigateResponse carries the next reference date and the window it opens.
type NavigateResponse struct {
	View      calendar.View      `json:"view"`
	Direction calendar.Direction `json:"direction"`
	Date      time.Time          `json:"date"`
	Window    calendar.Window    `json:"window"`
}
