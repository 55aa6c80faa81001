package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Content covers the authoring-side operations the API needs around the scheduling engine.
type Content struct {
	persistence persistence.Persistence
}

// NewContent creates a new content service.
func NewContent(persistence persistence.Persistence) *Content {
	return &Content{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (c *Content) HealthCheck(ctx context.Context) (string, bool) {
	if c.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := c.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// FetchByID retrieves a content item by its ID.
func (c *Content) FetchByID(ctx context.Context, id string) (*models.SocialContent, error) {
	content, err := c.persistence.ContentRepository().ByID(ctx, id)
	if err != nil {
		return nil, newServiceError("FetchByID", err)
	}

	return content, nil
}

// ListContentsRequest contains options for listing content of a workspace.
type ListContentsRequest struct {
	WorkspaceID string
	Status      models.ContentStatus
	From        time.Time
	To          time.Time
	Limit       int
}

// ListContents returns the content of a workspace ordered by publish date.
func (c *Content) ListContents(ctx context.Context, req ListContentsRequest) ([]*models.SocialContent, error) {
	const op = "ListContents"

	if req.WorkspaceID == "" {
		return nil, newServiceError(op, ErrWorkspaceRequired)
	}

	if req.Status != "" && !req.Status.IsValid() {
		return nil, NewValidationError(op, "INVALID_STATUS",
			fmt.Sprintf("invalid content status '%s'", req.Status), ErrInvalidRequest)
	}

	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}

	if req.Limit > maxListLimit {
		req.Limit = maxListLimit
	}

	contents, err := c.persistence.ContentRepository().Query(ctx, persistence.ContentQuery{
		WorkspaceID:   req.WorkspaceID,
		Status:        req.Status,
		PublishAfter:  req.From,
		PublishBefore: req.To,
		Limit:         req.Limit,
	})
	if err != nil {
		return nil, newServiceError(op, fmt.Errorf("failed to list content: %w", err))
	}

	return contents, nil
}

// Create stores new content as a draft. Status, schedule and analytics supplied by the
// caller are discarded.
func (c *Content) Create(ctx context.Context, content *models.SocialContent) (*models.SocialContent, error) {
	const op = "Create"

	if content == nil {
		return nil, newServiceError(op, ErrInvalidRequest)
	}

	draft := content.Clone()
	draft.ID = ""
	draft.Status = models.ContentStatusDraft
	draft.Schedule = nil
	draft.Analytics = models.Analytics{}

	if draft.WorkspaceID == "" {
		return nil, newServiceError(op, ErrWorkspaceRequired)
	}

	if len(draft.Platforms) == 0 {
		return nil, newServiceError(op, ErrPlatformsRequired)
	}

	for platform, post := range draft.Platforms {
		if err := post.ValidateFor(platform); err != nil {
			return nil, newServiceError(op, err)
		}
	}

	if err := draft.Validate(); err != nil {
		return nil, newServiceError(op, err)
	}

	created, err := c.persistence.ContentRepository().Create(ctx, draft)
	if err != nil {
		return nil, newServiceError(op, fmt.Errorf("failed to create content: %w", err))
	}

	return created, nil
}

// Delete removes a content item.
func (c *Content) Delete(ctx context.Context, id string) error {
	err := c.persistence.ContentRepository().Delete(ctx, id)
	if err != nil {
		return newServiceError("Delete", err)
	}

	return nil
}
