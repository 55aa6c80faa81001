// Package file provides file-based persistence implementation for social content.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/pagecraft/pagecraft/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root        string
	contentRepo *ContentRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:        cleanRoot,
		contentRepo: NewContentRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// ContentRepository returns the content repository implementation for file persistence.
func (fp *Persistence) ContentRepository() persistence.ContentRepository {
	return fp.contentRepo
}
