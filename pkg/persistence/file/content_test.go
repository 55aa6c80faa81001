package file_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	"github.com/pagecraft/pagecraft/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContent(workspaceID string) *models.SocialContent {
	return &models.SocialContent{
		WorkspaceID: workspaceID,
		CreatorID:   "user-1",
		ContentType: models.ContentTypeText,
		Status:      models.ContentStatusDraft,
		Platforms: map[models.Platform]models.PlatformPost{
			models.PlatformTwitter: {Text: "hello"},
		},
	}
}

func scheduleAt(content *models.SocialContent, publishDate time.Time) {
	content.Status = models.ContentStatusScheduled
	content.Schedule = &models.Schedule{PublishDate: publishDate, Timezone: "UTC"}
}

func TestContentRepository_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := file.NewPersistence("file://" + t.TempDir())
	repo := p.ContentRepository()

	require.NoError(t, p.HealthCheck(ctx))

	created, err := repo.Create(ctx, newContent("ws-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := repo.ByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "hello", fetched.Platforms[models.PlatformTwitter].Text)

	scheduleAt(fetched, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	fetched.WorkspaceID = "ws-other"

	updated, err := repo.Update(ctx, fetched, created.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, models.ContentStatusScheduled, updated.Status)
	assert.Equal(t, "ws-1", updated.WorkspaceID, "workspace is immutable")

	err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.ByID(ctx, created.ID)
	assert.True(t, persistence.IsContentNotFound(err))

	err = repo.Delete(ctx, created.ID)
	assert.True(t, persistence.IsContentNotFound(err))
}

func TestContentRepository_UpdateVersionConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := file.NewPersistence(t.TempDir()).ContentRepository()

	created, err := repo.Create(ctx, newContent("ws-1"))
	require.NoError(t, err)

	first := created.Clone()
	scheduleAt(first, time.Now().Add(time.Hour))
	_, err = repo.Update(ctx, first, created.Version)
	require.NoError(t, err)

	stale := created.Clone()
	_, err = repo.Update(ctx, stale, created.Version)
	require.Error(t, err)
	assert.True(t, persistence.IsVersionConflict(err))

	missing := newContent("ws-1")
	missing.ID = "does-not-exist"
	_, err = repo.Update(ctx, missing, 1)
	assert.True(t, persistence.IsContentNotFound(err))
}

func TestContentRepository_ConcurrentUpdatesOnlyOneWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := file.NewPersistence(t.TempDir()).ContentRepository()

	created, err := repo.Create(ctx, newContent("ws-1"))
	require.NoError(t, err)

	const writers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := range writers {
		wg.Add(1)

		go func(offset int) {
			defer wg.Done()

			candidate := created.Clone()
			scheduleAt(candidate, time.Now().Add(time.Duration(offset+1)*time.Hour))

			_, err := repo.Update(ctx, candidate, created.Version)

			mu.Lock()
			defer mu.Unlock()

			if err == nil {
				successes++
			} else if persistence.IsVersionConflict(err) {
				conflicts++
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, conflicts)
}

func TestContentRepository_Query(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := file.NewPersistence(t.TempDir()).ContentRepository()

	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	insert := func(workspaceID string, publishDate *time.Time) *models.SocialContent {
		content := newContent(workspaceID)
		if publishDate != nil {
			scheduleAt(content, *publishDate)
		}

		created, err := repo.Create(ctx, content)
		require.NoError(t, err)

		return created
	}

	late := day.Add(18 * time.Hour)
	early := day.Add(9 * time.Hour)
	nextDay := day.Add(33 * time.Hour)

	lateContent := insert("ws-1", &late)
	earlyContent := insert("ws-1", &early)
	insert("ws-1", &nextDay)
	insert("ws-2", &early)
	insert("ws-1", nil)

	results, err := repo.Query(ctx, persistence.ContentQuery{
		WorkspaceID:   "ws-1",
		Status:        models.ContentStatusScheduled,
		PublishAfter:  day,
		PublishBefore: day.Add(24*time.Hour - time.Millisecond),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, earlyContent.ID, results[0].ID)
	assert.Equal(t, lateContent.ID, results[1].ID)

	drafts, err := repo.Query(ctx, persistence.ContentQuery{WorkspaceID: "ws-1", Status: models.ContentStatusDraft})
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	limited, err := repo.Query(ctx, persistence.ContentQuery{WorkspaceID: "ws-1", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestContentRepository_QueryEmptyStore(t *testing.T) {
	t.Parallel()

	repo := file.NewPersistence(t.TempDir()).ContentRepository()

	results, err := repo.Query(context.Background(), persistence.ContentQuery{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	assert.Empty(t, results)
}
