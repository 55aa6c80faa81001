// Package statecache stores short-lived OAuth state tokens between the authorize redirect
// and the provider callback.
package statecache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/pkg/models"
)

// DefaultTTL bounds how long a user may take on the provider consent screen.
const DefaultTTL = 10 * time.Minute

var (
	ErrStateNotFound = errors.New("oauth state not found or expired")
	ErrInvalidTTL    = errors.New("state TTL must be positive")
	ErrCacheClosed   = errors.New("state cache is closed")
)

// State is the payload bound to a token.
type State struct {
	Platform    models.Platform `json:"platform"`
	WorkspaceID string          `json:"workspace_id"`
	RedirectURL string          `json:"redirect_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Cache hands out single-use tokens. Consume returns the state at most once and
// ErrStateNotFound for unknown, expired or already consumed tokens.
type Cache interface {
	Put(ctx context.Context, state State) (string, error)
	Consume(ctx context.Context, token string) (*State, error)
	Close() error
}

func newToken() string {
	return uuid.NewString()
}
