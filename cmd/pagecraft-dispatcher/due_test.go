package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	p := file.NewPersistence(t.TempDir())
	repo := p.ContentRepository()

	store := func(workspaceID string, status models.ContentStatus, publishDate time.Time) *models.SocialContent {
		created, err := repo.Create(context.Background(), &models.SocialContent{
			WorkspaceID: workspaceID,
			CreatorID:   "user-1",
			ContentType: models.ContentTypeText,
			Status:      status,
			Platforms: map[models.Platform]models.PlatformPost{
				models.PlatformLinkedIn: {Text: "hiring update"},
			},
			Schedule: &models.Schedule{PublishDate: publishDate, Timezone: "UTC"},
		})
		require.NoError(t, err)

		return created
	}

	due := store("ws-1", models.ContentStatusScheduled, now.Add(-time.Hour))
	_ = store("ws-1", models.ContentStatusScheduled, now.Add(-72*time.Hour))
	_ = store("ws-1", models.ContentStatusScheduled, now.Add(time.Hour))
	_ = store("ws-2", models.ContentStatusScheduled, now.Add(-time.Hour))
	_ = store("ws-1", models.ContentStatusPublished, now.Add(-time.Hour))

	var out bytes.Buffer

	err := listDue(context.Background(), p, &out, "ws-1", 24*time.Hour, now)
	require.NoError(t, err)

	assert.Contains(t, out.String(), due.ID+"\tws-1\t2025-03-10T08:00:00Z\tUTC\n")
	assert.Contains(t, out.String(), "1 due\n")

	out.Reset()

	err = listDue(context.Background(), p, &out, "", 0, now)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "3 due\n")
}
