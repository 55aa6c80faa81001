package persistence_test

import (
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	"github.com/stretchr/testify/assert"
)

func TestContentQuery_Matches(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)

	scheduledAt := func(publishDate time.Time) *models.SocialContent {
		return &models.SocialContent{
			WorkspaceID: "ws-1",
			Status:      models.ContentStatusScheduled,
			Schedule:    &models.Schedule{PublishDate: publishDate, Timezone: "UTC"},
		}
	}

	tests := []struct {
		name    string
		query   persistence.ContentQuery
		content *models.SocialContent
		want    bool
	}{
		{
			name:    "start bound included",
			query:   persistence.ContentQuery{PublishAfter: start, PublishBefore: end},
			content: scheduledAt(start),
			want:    true,
		},
		{
			name:    "end bound included",
			query:   persistence.ContentQuery{PublishAfter: start, PublishBefore: end},
			content: scheduledAt(end),
			want:    true,
		},
		{
			name:    "after the window",
			query:   persistence.ContentQuery{PublishAfter: start, PublishBefore: end},
			content: scheduledAt(end.Add(time.Second)),
		},
		{
			name:    "before the window",
			query:   persistence.ContentQuery{PublishAfter: start, PublishBefore: end},
			content: scheduledAt(start.Add(-time.Second)),
		},
		{
			name:    "open end",
			query:   persistence.ContentQuery{PublishAfter: start},
			content: scheduledAt(end.AddDate(1, 0, 0)),
			want:    true,
		},
		{
			name:    "open start",
			query:   persistence.ContentQuery{PublishBefore: end},
			content: scheduledAt(start.AddDate(-1, 0, 0)),
			want:    true,
		},
		{
			name:    "date filter excludes unscheduled content",
			query:   persistence.ContentQuery{PublishAfter: start},
			content: &models.SocialContent{WorkspaceID: "ws-1", Status: models.ContentStatusDraft},
		},
		{
			name:    "no date filter keeps unscheduled content",
			query:   persistence.ContentQuery{WorkspaceID: "ws-1"},
			content: &models.SocialContent{WorkspaceID: "ws-1", Status: models.ContentStatusDraft},
			want:    true,
		},
		{
			name:    "other workspace",
			query:   persistence.ContentQuery{WorkspaceID: "ws-2"},
			content: scheduledAt(start),
		},
		{
			name:    "other status",
			query:   persistence.ContentQuery{Status: models.ContentStatusPublished},
			content: scheduledAt(start),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.query.Matches(tt.content))
		})
	}
}
