package calendar_test

import (
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/pkg/calendar"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduled(id string, publishDate time.Time, platforms ...models.Platform) *models.SocialContent {
	posts := make(map[models.Platform]models.PlatformPost, len(platforms))
	for _, platform := range platforms {
		posts[platform] = models.PlatformPost{Text: id}
	}

	return &models.SocialContent{
		ID:          id,
		WorkspaceID: "ws-1",
		CreatorID:   "user-1",
		ContentType: models.ContentTypeText,
		Status:      models.ContentStatusScheduled,
		Platforms:   posts,
		Schedule:    &models.Schedule{PublishDate: publishDate, Timezone: "UTC"},
	}
}

func TestGroup(t *testing.T) {
	t.Parallel()

	contents := []*models.SocialContent{
		scheduled("c1", date(2025, time.March, 10, 9, 0), models.PlatformTwitter),
		scheduled("c2", date(2025, time.March, 11, 9, 0), models.PlatformInstagram),
		scheduled("c3", date(2025, time.March, 10, 8, 0), models.PlatformLinkedIn, models.PlatformTwitter),
		{ID: "draft", Status: models.ContentStatusDraft},
	}

	buckets := calendar.Group(contents, nil)

	require.Len(t, buckets, 2)
	assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, buckets.Dates())

	// Insertion order is preserved, not publish time order.
	day := buckets.For("2025-03-10")
	require.Len(t, day, 2)
	assert.Equal(t, "c1", day[0].ID)
	assert.Equal(t, "c3", day[1].ID)

	empty := buckets.For("2025-03-12")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGroup_PlatformFilter(t *testing.T) {
	t.Parallel()

	contents := []*models.SocialContent{
		scheduled("c1", date(2025, time.March, 10, 9, 0), models.PlatformTwitter),
		scheduled("c2", date(2025, time.March, 10, 10, 0), models.PlatformInstagram),
		scheduled("c3", date(2025, time.March, 10, 11, 0), models.PlatformLinkedIn, models.PlatformInstagram),
	}

	buckets := calendar.Group(contents, []models.Platform{models.PlatformInstagram, models.PlatformYouTube})

	ids := []string{}
	for _, content := range buckets.For("2025-03-10") {
		ids = append(ids, content.ID)
	}

	assert.Equal(t, []string{"c2", "c3"}, ids)
}

func TestGroup_KeysAreUTCDates(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// 23:00 local on March 10 is already March 11 in UTC.
	late := time.Date(2025, time.March, 10, 23, 0, 0, 0, loc)
	content := scheduled("late", late, models.PlatformTwitter)
	content.Schedule.Timezone = "America/Los_Angeles"

	buckets := calendar.Group([]*models.SocialContent{content}, nil)

	assert.Empty(t, buckets.For("2025-03-10"))
	assert.Len(t, buckets.For("2025-03-11"), 1)
}

func TestGroup_IsIdempotent(t *testing.T) {
	t.Parallel()

	contents := []*models.SocialContent{
		scheduled("c1", date(2025, time.March, 10, 9, 0), models.PlatformTwitter),
		scheduled("c2", date(2025, time.March, 12, 9, 0), models.PlatformFacebook),
		scheduled("c3", date(2025, time.March, 10, 7, 0), models.PlatformFacebook),
	}
	snapshot := make([]*models.SocialContent, len(contents))
	copy(snapshot, contents)

	first := calendar.Group(contents, []models.Platform{models.PlatformFacebook})
	second := calendar.Group(contents, []models.Platform{models.PlatformFacebook})

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, contents)
}

func TestFilterByPlatforms_EmptyFilterKeepsAll(t *testing.T) {
	t.Parallel()

	contents := []*models.SocialContent{
		scheduled("c1", date(2025, time.March, 10, 9, 0), models.PlatformTwitter),
		scheduled("c2", date(2025, time.March, 10, 9, 0)),
	}

	assert.Len(t, calendar.FilterByPlatforms(contents, nil), 2)
	assert.Empty(t, calendar.FilterByPlatforms(contents, []models.Platform{models.PlatformTikTok}))
}
