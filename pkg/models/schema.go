package models

// JSONSchema represents the JSON Schema of a platform payload.
type JSONSchema struct {
	Type                 string               `json:"type"`
	Properties           map[string]*Property `json:"properties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	Title                string               `json:"title,omitempty"`
	Description          string               `json:"description,omitempty"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
}

// Property represents a JSON Schema property.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []any     `json:"enum,omitempty"`
	Format      string    `json:"format,omitempty"`
	MinLength   *int      `json:"minLength,omitempty"`
	MaxLength   *int      `json:"maxLength,omitempty"`
	Pattern     string    `json:"pattern,omitempty"`
	Items       *Property `json:"items,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`
}

type platformLimits struct {
	title       string
	maxText     int
	maxHashtags int
	minMedia    int
	maxMedia    int
}

var limits = map[Platform]platformLimits{
	PlatformTwitter:   {title: "Twitter post", maxText: 280, maxHashtags: 10, maxMedia: 4},
	PlatformInstagram: {title: "Instagram post", maxText: 2200, maxHashtags: 30, minMedia: 1, maxMedia: 10},
	PlatformFacebook:  {title: "Facebook post", maxText: 63206, maxHashtags: 30, maxMedia: 10},
	PlatformLinkedIn:  {title: "LinkedIn post", maxText: 3000, maxHashtags: 30, maxMedia: 9},
	PlatformTikTok:    {title: "TikTok video", maxText: 2200, maxHashtags: 30, minMedia: 1, maxMedia: 1},
	PlatformYouTube:   {title: "YouTube video", maxText: 5000, maxHashtags: 15, minMedia: 1, maxMedia: 1},
	PlatformPinterest: {title: "Pinterest pin", maxText: 500, maxHashtags: 20, minMedia: 1, maxMedia: 5},
}

var platformSchemas = buildPlatformSchemas()

func buildPlatformSchemas() map[Platform]*JSONSchema {
	schemas := make(map[Platform]*JSONSchema, len(limits))

	for platform, limit := range limits {
		schemas[platform] = newPlatformSchema(limit)
	}

	return schemas
}

func newPlatformSchema(limit platformLimits) *JSONSchema {
	closed := false

	schema := &JSONSchema{
		Type:                 "object",
		Title:                limit.title,
		AdditionalProperties: &closed,
		Properties: map[string]*Property{
			"text": {
				Type:      "string",
				MaxLength: intPtr(limit.maxText),
			},
			"hashtags": {
				Type:     "array",
				MaxItems: intPtr(limit.maxHashtags),
				Items:    &Property{Type: "string", Pattern: `^#?[\p{L}\p{N}_]+$`},
			},
			"media_ids": {
				Type:     "array",
				MaxItems: intPtr(limit.maxMedia),
				Items:    &Property{Type: "string", MinLength: intPtr(1)},
			},
			"link":             {Type: "string", Format: "uri"},
			"publish_status":   {Type: "string", Enum: []any{"pending", "published", "failed"}},
			"platform_post_id": {Type: "string"},
			"post_url":         {Type: "string", Format: "uri"},
			"published_at":     {Type: "string", Format: "date-time"},
			"error":            {Type: "string"},
		},
	}

	if limit.minMedia > 0 {
		schema.Required = []string{"media_ids"}
		schema.Properties["media_ids"].MinItems = intPtr(limit.minMedia)
	}

	return schema
}

func intPtr(v int) *int {
	return &v
}
