// Package models provides core data structures for schedulable social content.
package models

import (
	"errors"
	"time"
)

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusFailed    ContentStatus = "failed"
	ContentStatusArchived  ContentStatus = "archived"
)

// IsValid reports whether s is one of the known content statuses.
func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusScheduled, ContentStatusPublished,
		ContentStatusFailed, ContentStatusArchived:
		return true
	}

	return false
}

// IsTerminal reports whether the scheduling engine may no longer move content out of s.
func (s ContentStatus) IsTerminal() bool {
	return s == ContentStatusPublished || s == ContentStatusFailed || s == ContentStatusArchived
}

type ContentType string

const (
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeVideo    ContentType = "video"
	ContentTypeLink     ContentType = "link"
	ContentTypeCarousel ContentType = "carousel"
	ContentTypeStory    ContentType = "story"
	ContentTypeReel     ContentType = "reel"
)

func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeText, ContentTypeImage, ContentTypeVideo, ContentTypeLink,
		ContentTypeCarousel, ContentTypeStory, ContentTypeReel:
		return true
	}

	return false
}

// SocialContent is the schedulable unit: one piece of content targeting one or more platforms.
type SocialContent struct {
	ID          string                    `json:"id"`
	WorkspaceID string                    `json:"workspace_id" validate:"required"`
	CreatorID   string                    `json:"creator_id" validate:"required"`
	ContentType ContentType               `json:"content_type" validate:"required"`
	Status      ContentStatus             `json:"status"`
	Platforms   map[Platform]PlatformPost `json:"platforms"`
	Schedule    *Schedule                 `json:"schedule,omitempty"`
	Analytics   Analytics                 `json:"analytics"`

	// Version is bumped by the content store on every write and checked on update.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Schedule is attached to every non-draft content item.
type Schedule struct {
	PublishDate time.Time   `json:"publish_date"`
	Timezone    string      `json:"timezone"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
}

// Analytics holds aggregate counters maintained by the analytics collector.
type Analytics struct {
	Impressions int64 `json:"impressions"`
	Reach       int64 `json:"reach"`
	Engagements int64 `json:"engagements"`
	Clicks      int64 `json:"clicks"`
	Shares      int64 `json:"shares"`
	Comments    int64 `json:"comments"`
	Likes       int64 `json:"likes"`
}

var (
	ErrInvalidContent = errors.New("invalid content")
	ErrMissingPostID  = errors.New("published platform post requires a platform post id")
)

// Clone returns a deep copy so callers can compute a new state without touching the original.
func (c *SocialContent) Clone() *SocialContent {
	if c == nil {
		return nil
	}

	clone := *c

	if c.Platforms != nil {
		clone.Platforms = make(map[Platform]PlatformPost, len(c.Platforms))
		for platform, post := range c.Platforms {
			clone.Platforms[platform] = post.clone()
		}
	}

	if c.Schedule != nil {
		schedule := *c.Schedule
		if c.Schedule.Recurrence != nil {
			recurrence := c.Schedule.Recurrence.clone()
			schedule.Recurrence = &recurrence
		}

		clone.Schedule = &schedule
	}

	return &clone
}

// HasAnyPlatform reports whether the content targets at least one of the given platforms.
func (c *SocialContent) HasAnyPlatform(platforms []Platform) bool {
	for _, platform := range platforms {
		if _, ok := c.Platforms[platform]; ok {
			return true
		}
	}

	return false
}

// Validate checks the structural invariants of a content item.
func (c *SocialContent) Validate() error {
	if c.WorkspaceID == "" || c.CreatorID == "" {
		return ErrInvalidContent
	}

	if !c.ContentType.IsValid() || !c.Status.IsValid() {
		return ErrInvalidContent
	}

	if c.Status == ContentStatusScheduled && (c.Schedule == nil || c.Schedule.PublishDate.IsZero()) {
		return ErrInvalidContent
	}

	for platform, post := range c.Platforms {
		if !platform.IsValid() {
			return ErrInvalidPlatform
		}

		if err := post.Validate(); err != nil {
			return err
		}
	}

	return nil
}
