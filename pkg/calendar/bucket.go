package calendar

import (
	"sort"
	"time"

	"github.com/pagecraft/pagecraft/pkg/models"
)

// DateKeyLayout is the layout of bucket keys.
const DateKeyLayout = "2006-01-02"

// Buckets maps a YYYY-MM-DD key to the content scheduled that day, in the order the
// content store returned it.
type Buckets map[string][]*models.SocialContent

// DateKey returns the bucket key of a publish date. Keys are taken from the UTC date, not
// from the schedule's own timezone.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// FilterByPlatforms keeps content targeting at least one of the given platforms. An empty
// filter keeps everything. The input slice is not modified.
func FilterByPlatforms(contents []*models.SocialContent, platforms []models.Platform) []*models.SocialContent {
	if len(platforms) == 0 {
		return contents
	}

	filtered := make([]*models.SocialContent, 0, len(contents))

	for _, content := range contents {
		if content.HasAnyPlatform(platforms) {
			filtered = append(filtered, content)
		}
	}

	return filtered
}

// Group filters contents by platform and buckets them by publish date. Content without a
// schedule has no calendar date and is skipped.
func Group(contents []*models.SocialContent, platforms []models.Platform) Buckets {
	buckets := make(Buckets)

	for _, content := range FilterByPlatforms(contents, platforms) {
		if content.Schedule == nil || content.Schedule.PublishDate.IsZero() {
			continue
		}

		key := DateKey(content.Schedule.PublishDate)
		buckets[key] = append(buckets[key], content)
	}

	return buckets
}

// For returns the content of one date, never nil.
func (b Buckets) For(date string) []*models.SocialContent {
	if contents, ok := b[date]; ok {
		return contents
	}

	return []*models.SocialContent{}
}

// Dates returns the bucket keys in ascending order.
func (b Buckets) Dates() []string {
	dates := make([]string, 0, len(b))
	for date := range b {
		dates = append(dates, date)
	}

	sort.Strings(dates)

	return dates
}
