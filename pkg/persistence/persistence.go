// Package persistence provides the content store abstraction used by the scheduling engine.
package persistence

import (
	"context"
	"time"

	"github.com/pagecraft/pagecraft/pkg/calendar"
	"github.com/pagecraft/pagecraft/pkg/models"
)

type Persistence interface {
	ContentRepository() ContentRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// ContentRepository is the content store collaborator.
type ContentRepository interface {
	// Query returns content matching every set filter, ordered by publish date ascending
	// and then by creation time.
	Query(ctx context.Context, query ContentQuery) ([]*models.SocialContent, error)

	// ByID returns ErrContentNotFound when no content has the given id.
	ByID(ctx context.Context, id string) (*models.SocialContent, error)

	// Create assigns id, version and timestamps and stores the content.
	Create(ctx context.Context, content *models.SocialContent) (*models.SocialContent, error)

	// Update writes content only if the stored version equals expectedVersion, returning
	// ErrVersionConflict otherwise. The stored copy gets version expectedVersion+1.
	Update(ctx context.Context, content *models.SocialContent, expectedVersion int64) (*models.SocialContent, error)

	Delete(ctx context.Context, id string) error
}

// ContentQuery is the filter set of ContentRepository.Query. Zero values are ignored.
type ContentQuery struct {
	WorkspaceID   string
	Status        models.ContentStatus
	PublishAfter  time.Time // inclusive
	PublishBefore time.Time // inclusive
	Limit         int
}

// Matches applies the query filters in memory.
func (q ContentQuery) Matches(content *models.SocialContent) bool {
	if q.WorkspaceID != "" && content.WorkspaceID != q.WorkspaceID {
		return false
	}

	if q.Status != "" && content.Status != q.Status {
		return false
	}

	if q.PublishAfter.IsZero() && q.PublishBefore.IsZero() {
		return true
	}

	if content.Schedule == nil {
		return false
	}

	publishDate := content.Schedule.PublishDate
	window := calendar.Window{Start: q.PublishAfter, End: q.PublishBefore}

	if window.End.IsZero() {
		return !publishDate.Before(window.Start)
	}

	return window.Contains(publishDate)
}
