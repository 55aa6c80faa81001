package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformPinterest Platform = "pinterest"
)

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{
	PlatformTwitter,
	PlatformInstagram,
	PlatformFacebook,
	PlatformLinkedIn,
	PlatformTikTok,
	PlatformYouTube,
	PlatformPinterest,
}

func (p Platform) IsValid() bool {
	return slices.Contains(Platforms, p)
}

// ParsePlatforms parses a comma separated platform list. Empty input yields nil.
func ParsePlatforms(raw string) ([]Platform, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	platforms := make([]Platform, 0, len(parts))

	for _, part := range parts {
		platform := Platform(strings.ToLower(strings.TrimSpace(part)))
		if !platform.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlatform, part)
		}

		platforms = append(platforms, platform)
	}

	return platforms, nil
}

type PublishStatus string

const (
	PublishStatusPending   PublishStatus = "pending"
	PublishStatusPublished PublishStatus = "published"
	PublishStatusFailed    PublishStatus = "failed"
)

// PlatformPost is the per-platform payload of a content item. Every platform shares this
// shape; the limits differ per platform and are enforced by the platform's JSON schema.
type PlatformPost struct {
	Text           string        `json:"text,omitempty"`
	Hashtags       []string      `json:"hashtags,omitempty"`
	MediaIDs       []string      `json:"media_ids,omitempty"`
	Link           string        `json:"link,omitempty"`
	PublishStatus  PublishStatus `json:"publish_status,omitempty"`
	PlatformPostID string        `json:"platform_post_id,omitempty"`
	PostURL        string        `json:"post_url,omitempty"`
	PublishedAt    *time.Time    `json:"published_at,omitempty"`
	Error          string        `json:"error,omitempty"`
}

var (
	ErrInvalidPlatform        = errors.New("invalid platform")
	ErrInvalidPlatformPayload = errors.New("invalid platform payload")
)

func (p PlatformPost) clone() PlatformPost {
	p.Hashtags = slices.Clone(p.Hashtags)
	p.MediaIDs = slices.Clone(p.MediaIDs)

	if p.PublishedAt != nil {
		publishedAt := *p.PublishedAt
		p.PublishedAt = &publishedAt
	}

	return p
}

// Validate checks invariants that hold regardless of platform.
func (p PlatformPost) Validate() error {
	if p.PublishStatus == PublishStatusPublished && p.PlatformPostID == "" {
		return ErrMissingPostID
	}

	return nil
}

// ValidateFor validates the post against the fixed schema of the given platform.
func (p PlatformPost) ValidateFor(platform Platform) error {
	if err := p.Validate(); err != nil {
		return err
	}

	schema, ok := platformSchemas[platform]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPlatform, platform)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(p))
	if err != nil {
		return fmt.Errorf("failed to validate %s payload: %w", platform, err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return fmt.Errorf("%w for %s: %s", ErrInvalidPlatformPayload, platform, strings.Join(messages, "; "))
	}

	return nil
}

// PlatformSchema returns the JSON schema of a platform payload.
func PlatformSchema(platform Platform) (*JSONSchema, bool) {
	schema, ok := platformSchemas[platform]

	return schema, ok
}
