// Package events defines event types and structures for content lifecycle notifications.
package events

import (
	"time"

	"github.com/pagecraft/pagecraft/pkg/models"
)

type EventType string

// Topic carries every content lifecycle event.
const Topic = "pagecraft.content.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ContentScheduledEvent         EventType = "content.scheduled"
	ContentRescheduledEvent       EventType = "content.rescheduled"
	ContentScheduleCancelledEvent EventType = "content.schedule_cancelled"
	ContentRecurrenceSetEvent     EventType = "content.recurrence_set"

	// ContentDueEvent is emitted by the dispatcher for the publishing side.
	ContentDueEvent EventType = "content.due"
)

type BaseEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	ContentID   string         `json:"content_id"`
	WorkspaceID string         `json:"workspace_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(id string, eventType EventType, content *models.SocialContent) BaseEvent {
	return BaseEvent{
		ID:          id,
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		ContentID:   content.ID,
		WorkspaceID: content.WorkspaceID,
	}
}

type ContentScheduled struct {
	BaseEvent

	PublishDate time.Time         `json:"publish_date"`
	Timezone    string            `json:"timezone"`
	Platforms   []models.Platform `json:"platforms"`
}

func (e ContentScheduled) GetType() EventType {
	return ContentScheduledEvent
}

type ContentRescheduled struct {
	BaseEvent

	PreviousPublishDate time.Time `json:"previous_publish_date"`
	PublishDate         time.Time `json:"publish_date"`
}

func (e ContentRescheduled) GetType() EventType {
	return ContentRescheduledEvent
}

type ContentScheduleCancelled struct {
	BaseEvent

	PreviousPublishDate time.Time `json:"previous_publish_date"`
}

func (e ContentScheduleCancelled) GetType() EventType {
	return ContentScheduleCancelledEvent
}

type ContentRecurrenceSet struct {
	BaseEvent

	Recurrence models.Recurrence `json:"recurrence"`
	// DaysOfWeek is set for weekly recurrences only.
	DaysOfWeek []int `json:"days_of_week,omitempty"`
}

func (e ContentRecurrenceSet) GetType() EventType {
	return ContentRecurrenceSetEvent
}

type ContentDue struct {
	BaseEvent

	PublishDate time.Time         `json:"publish_date"`
	Timezone    string            `json:"timezone"`
	Platforms   []models.Platform `json:"platforms"`
}

func (e ContentDue) GetType() EventType {
	return ContentDueEvent
}

// PlatformsOf returns the platform keys of content in the canonical platform order.
func PlatformsOf(content *models.SocialContent) []models.Platform {
	platforms := make([]models.Platform, 0, len(content.Platforms))

	for _, platform := range models.Platforms {
		if _, ok := content.Platforms[platform]; ok {
			platforms = append(platforms, platform)
		}
	}

	return platforms
}
