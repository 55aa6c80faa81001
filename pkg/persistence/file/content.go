package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
)

const contentsDir = "contents"

// ContentRepository stores each content item as a JSON document under root/contents.
// The mutex makes the version check and the write of Update atomic within one process.
type ContentRepository struct {
	root string
	mu   sync.Mutex
}

// NewContentRepository creates a new content repository.
func NewContentRepository(root string) *ContentRepository {
	return &ContentRepository{root: root}
}

// Query loads every document and filters in memory.
func (cr *ContentRepository) Query(_ context.Context, query persistence.ContentQuery) ([]*models.SocialContent, error) {
	root := os.DirFS(path.Join(cr.root, contentsDir))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list content files: %w", err)
	}

	contents := make([]*models.SocialContent, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		content, err := cr.read(strings.TrimSuffix(file, ".json"))
		if err != nil {
			if persistence.IsContentNotFound(err) {
				continue
			}

			return nil, err
		}

		if query.Matches(content) {
			contents = append(contents, content)
		}
	}

	sortByPublishDate(contents)

	if query.Limit > 0 && len(contents) > query.Limit {
		contents = contents[:query.Limit]
	}

	return contents, nil
}

// ByID retrieves content by its ID from the file system.
func (cr *ContentRepository) ByID(_ context.Context, id string) (*models.SocialContent, error) {
	content, err := cr.read(id)
	if err != nil {
		return nil, persistence.NewContentError("ByID", id, err)
	}

	return content, nil
}

// Create stores a new content item.
func (cr *ContentRepository) Create(_ context.Context, content *models.SocialContent) (*models.SocialContent, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	stored := content.Clone()

	if stored.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate content ID: %w", err)
		}

		stored.ID = id.String()
	}

	if _, err := os.Stat(cr.filePath(stored.ID)); err == nil {
		return nil, persistence.NewContentError("Create", stored.ID, persistence.ErrContentAlreadyExists)
	}

	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Version = 1

	if err := cr.write(stored); err != nil {
		return nil, err
	}

	return stored, nil
}

// Update writes content when the stored version still equals expectedVersion.
func (cr *ContentRepository) Update(_ context.Context, content *models.SocialContent, expectedVersion int64) (*models.SocialContent, error) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	current, err := cr.read(content.ID)
	if err != nil {
		return nil, persistence.NewContentError("Update", content.ID, err)
	}

	if current.Version != expectedVersion {
		return nil, persistence.NewContentError("Update", content.ID, persistence.ErrVersionConflict)
	}

	stored := content.Clone()
	stored.WorkspaceID = current.WorkspaceID
	stored.CreatorID = current.CreatorID
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	stored.Version = expectedVersion + 1

	if err := cr.write(stored); err != nil {
		return nil, err
	}

	return stored, nil
}

// Delete removes content by its ID.
func (cr *ContentRepository) Delete(_ context.Context, id string) error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	err := os.Remove(cr.filePath(id))
	if err != nil && os.IsNotExist(err) {
		return persistence.NewContentError("Delete", id, persistence.ErrContentNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete content %s: %w", id, err)
	}

	return nil
}

func (cr *ContentRepository) filePath(id string) string {
	return filepath.Clean(path.Join(cr.root, contentsDir, filepath.Base(id)+".json"))
}

func (cr *ContentRepository) read(id string) (*models.SocialContent, error) {
	body, err := os.ReadFile(cr.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrContentNotFound
		}

		return nil, fmt.Errorf("failed to fetch content %s: %w", id, err)
	}

	var content models.SocialContent

	err = json.Unmarshal(body, &content)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal content %s: %w", id, err)
	}

	return &content, nil
}

func (cr *ContentRepository) write(content *models.SocialContent) error {
	err := os.MkdirAll(path.Join(cr.root, contentsDir), 0750)
	if err != nil {
		return fmt.Errorf("failed to create contents directory: %w", err)
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal content %s: %w", content.ID, err)
	}

	return os.WriteFile(cr.filePath(content.ID), data, 0600)
}

// sortByPublishDate orders unscheduled content last, then by creation time.
func sortByPublishDate(contents []*models.SocialContent) {
	sort.SliceStable(contents, func(i, j int) bool {
		a, b := contents[i], contents[j]

		switch {
		case a.Schedule != nil && b.Schedule != nil && !a.Schedule.PublishDate.Equal(b.Schedule.PublishDate):
			return a.Schedule.PublishDate.Before(b.Schedule.PublishDate)
		case a.Schedule != nil && b.Schedule == nil:
			return true
		case a.Schedule == nil && b.Schedule != nil:
			return false
		}

		return a.CreatedAt.Before(b.CreatedAt)
	})
}
