package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	"github.com/pagecraft/pagecraft/pkg/persistence/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDb(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"social_contents", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	err = db.Close()
	require.NoError(t, err)
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("pagecraft_test"),
			postgres.WithUsername("pagecraft"),
			postgres.WithPassword("pagecraft"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDb(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDb(ctx, t, databaseURL)

		err = p.Close(ctx)
		require.NoError(t, err)

		cancel()
	})

	return p, ctx
}

func newContent(workspaceID string) *models.SocialContent {
	return &models.SocialContent{
		WorkspaceID: workspaceID,
		CreatorID:   "user-1",
		ContentType: models.ContentTypeImage,
		Status:      models.ContentStatusDraft,
		Platforms: map[models.Platform]models.PlatformPost{
			models.PlatformInstagram: {Text: "sunset", MediaIDs: []string{"asset-1"}},
		},
	}
}

func TestContentRepository_Lifecycle(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.ContentRepository()

	require.NoError(t, p.HealthCheck(ctx))

	created, err := repo.Create(ctx, newContent("ws-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	fetched, err := repo.ByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContentStatusDraft, fetched.Status)
	assert.Nil(t, fetched.Schedule)
	assert.Equal(t, []string{"asset-1"}, fetched.Platforms[models.PlatformInstagram].MediaIDs)

	publishDate := time.Date(2030, time.March, 10, 9, 0, 0, 0, time.UTC)
	fetched.Status = models.ContentStatusScheduled
	fetched.Schedule = &models.Schedule{
		PublishDate: publishDate,
		Timezone:    "Europe/Lisbon",
		Recurrence:  &models.Recurrence{Frequency: models.FrequencyWeekly, Interval: 2, DaysOfWeek: []int{1, 3}},
	}

	updated, err := repo.Update(ctx, fetched, fetched.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	require.NotNil(t, updated.Schedule)
	assert.True(t, publishDate.Equal(updated.Schedule.PublishDate))
	assert.Equal(t, "Europe/Lisbon", updated.Schedule.Timezone)
	assert.Equal(t, []int{1, 3}, updated.Schedule.Recurrence.DaysOfWeek)

	_, err = repo.Update(ctx, fetched, 1)
	assert.True(t, persistence.IsVersionConflict(err))

	results, err := repo.Query(ctx, persistence.ContentQuery{
		WorkspaceID:   "ws-1",
		Status:        models.ContentStatusScheduled,
		PublishAfter:  publishDate.Add(-time.Hour),
		PublishBefore: publishDate.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, created.ID, results[0].ID)

	updated.Status = models.ContentStatusDraft
	updated.Schedule = nil

	cancelled, err := repo.Update(ctx, updated, updated.Version)
	require.NoError(t, err)
	assert.Nil(t, cancelled.Schedule)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.ByID(ctx, created.ID)
	assert.True(t, persistence.IsContentNotFound(err))

	err = repo.Delete(ctx, created.ID)
	assert.True(t, persistence.IsContentNotFound(err))
}

func TestContentRepository_NotFound(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.ContentRepository()

	_, err := repo.ByID(ctx, "not-a-uuid")
	assert.True(t, persistence.IsContentNotFound(err))

	missing := newContent("ws-1")
	missing.ID = "0190a8f0-0000-7000-8000-000000000000"

	_, err = repo.Update(ctx, missing, 1)
	assert.True(t, persistence.IsContentNotFound(err))
}
