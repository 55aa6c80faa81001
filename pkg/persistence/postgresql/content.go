package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
)

const uniqueViolation = "23505"

const contentColumns = `
			id
		  , workspace_id
		  , creator_id
		  , content_type
		  , status
		  , platforms
		  , publish_date
		  , timezone
		  , recurrence
		  , analytics
		  , version
		  , created_at
		  , updated_at`

// ContentRepository handles content-related database operations.
type ContentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *sql.DB, logger *slog.Logger) *ContentRepository {
	return &ContentRepository{db: db, logger: logger}
}

// Query returns content matching the filters ordered by publish date.
func (r *ContentRepository) Query(ctx context.Context, query persistence.ContentQuery) ([]*models.SocialContent, error) {
	statement, args := buildQuery(query)

	rows, err := r.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contents: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	contents := make([]*models.SocialContent, 0)

	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}

		contents = append(contents, content)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating contents: %w", err)
	}

	return contents, nil
}

func buildQuery(query persistence.ContentQuery) (string, []any) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 5)

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if query.WorkspaceID != "" {
		add("workspace_id = $%d", query.WorkspaceID)
	}

	if query.Status != "" {
		add("status = $%d", string(query.Status))
	}

	if !query.PublishAfter.IsZero() {
		add("publish_date >= $%d", query.PublishAfter)
	}

	if !query.PublishBefore.IsZero() {
		add("publish_date <= $%d", query.PublishBefore)
	}

	var statement strings.Builder

	statement.WriteString("SELECT")
	statement.WriteString(contentColumns)
	statement.WriteString("\n\t\tFROM social_contents")

	if len(conditions) > 0 {
		statement.WriteString("\n\t\tWHERE ")
		statement.WriteString(strings.Join(conditions, " AND "))
	}

	statement.WriteString("\n\t\tORDER BY publish_date ASC NULLS LAST, created_at ASC")

	if query.Limit > 0 {
		args = append(args, query.Limit)
		statement.WriteString("\n\t\tLIMIT $" + strconv.Itoa(len(args)))
	}

	return statement.String(), args
}

// ByID retrieves content by its ID.
func (r *ContentRepository) ByID(ctx context.Context, id string) (*models.SocialContent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, persistence.NewContentError("ByID", id, persistence.ErrContentNotFound)
	}

	row := r.db.QueryRowContext(ctx, "SELECT"+contentColumns+"\n\t\tFROM social_contents WHERE id = $1", id)

	content, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewContentError("ByID", id, persistence.ErrContentNotFound)
		}

		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	return content, nil
}

// Create inserts new content.
func (r *ContentRepository) Create(ctx context.Context, content *models.SocialContent) (*models.SocialContent, error) {
	stored := content.Clone()

	if stored.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate content ID: %w", err)
		}

		stored.ID = id.String()
	}

	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Version = 1

	columns, err := toColumns(stored)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO social_contents (id, workspace_id, creator_id, content_type, status, platforms,
			publish_date, timezone, recurrence, analytics, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		stored.ID,
		stored.WorkspaceID,
		stored.CreatorID,
		stored.ContentType,
		stored.Status,
		columns.platforms,
		columns.publishDate,
		columns.timezone,
		columns.recurrence,
		columns.analytics,
		stored.Version,
		stored.CreatedAt,
		stored.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, persistence.NewContentError("Create", stored.ID, persistence.ErrContentAlreadyExists)
		}

		return nil, fmt.Errorf("failed to insert content: %w", err)
	}

	return stored, nil
}

// Update performs a compare-and-swap on the version column. Workspace, creator and
// creation time are never rewritten.
func (r *ContentRepository) Update(ctx context.Context, content *models.SocialContent, expectedVersion int64) (*models.SocialContent, error) {
	if _, err := uuid.Parse(content.ID); err != nil {
		return nil, persistence.NewContentError("Update", content.ID, persistence.ErrContentNotFound)
	}

	columns, err := toColumns(content)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE social_contents SET
			content_type = $3,
			status = $4,
			platforms = $5,
			publish_date = $6,
			timezone = $7,
			recurrence = $8,
			analytics = $9,
			version = version + 1,
			updated_at = $10
		WHERE id = $1 AND version = $2
		RETURNING`+contentColumns,
		content.ID,
		expectedVersion,
		content.ContentType,
		content.Status,
		columns.platforms,
		columns.publishDate,
		columns.timezone,
		columns.recurrence,
		columns.analytics,
		time.Now().UTC(),
	)

	updated, err := scanContent(row)
	if err == nil {
		return updated, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	var exists bool

	err = r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM social_contents WHERE id = $1)", content.ID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check content existence: %w", err)
	}

	if !exists {
		return nil, persistence.NewContentError("Update", content.ID, persistence.ErrContentNotFound)
	}

	return nil, persistence.NewContentError("Update", content.ID, persistence.ErrVersionConflict)
}

// Delete removes content by its ID.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return persistence.NewContentError("Delete", id, persistence.ErrContentNotFound)
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM social_contents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewContentError("Delete", id, persistence.ErrContentNotFound)
	}

	return nil
}

type contentColumnValues struct {
	platforms   []byte
	publishDate sql.NullTime
	timezone    sql.NullString
	recurrence  sql.NullString
	analytics   []byte
}

func toColumns(content *models.SocialContent) (*contentColumnValues, error) {
	values := &contentColumnValues{}

	platforms := content.Platforms
	if platforms == nil {
		platforms = map[models.Platform]models.PlatformPost{}
	}

	var err error

	values.platforms, err = json.Marshal(platforms)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal platforms: %w", err)
	}

	values.analytics, err = json.Marshal(content.Analytics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analytics: %w", err)
	}

	if content.Schedule != nil {
		values.publishDate = sql.NullTime{Time: content.Schedule.PublishDate, Valid: true}
		values.timezone = sql.NullString{String: content.Schedule.Timezone, Valid: true}

		if content.Schedule.Recurrence != nil {
			recurrence, err := json.Marshal(content.Schedule.Recurrence)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal recurrence: %w", err)
			}

			values.recurrence = sql.NullString{String: string(recurrence), Valid: true}
		}
	}

	return values, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*models.SocialContent, error) {
	var (
		content        models.SocialContent
		platformsJSON  []byte
		publishDate    sql.NullTime
		timezone       sql.NullString
		recurrenceJSON []byte
		analyticsJSON  []byte
	)

	err := row.Scan(
		&content.ID,
		&content.WorkspaceID,
		&content.CreatorID,
		&content.ContentType,
		&content.Status,
		&platformsJSON,
		&publishDate,
		&timezone,
		&recurrenceJSON,
		&analyticsJSON,
		&content.Version,
		&content.CreatedAt,
		&content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(platformsJSON) > 0 {
		err = json.Unmarshal(platformsJSON, &content.Platforms)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal platforms: %w", err)
		}
	}

	if len(analyticsJSON) > 0 {
		err = json.Unmarshal(analyticsJSON, &content.Analytics)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal analytics: %w", err)
		}
	}

	if publishDate.Valid {
		content.Schedule = &models.Schedule{
			PublishDate: publishDate.Time.UTC(),
			Timezone:    timezone.String,
		}

		if len(recurrenceJSON) > 0 {
			var recurrence models.Recurrence

			err = json.Unmarshal(recurrenceJSON, &recurrence)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal recurrence: %w", err)
			}

			content.Schedule.Recurrence = &recurrence
		}
	}

	return &content, nil
}
