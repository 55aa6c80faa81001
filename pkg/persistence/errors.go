package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrContentNotFound indicates no content exists for the given identifier.
	ErrContentNotFound = errors.New("content not found")

	// ErrVersionConflict indicates the stored content changed since it was read.
	ErrVersionConflict = errors.New("content version conflict")

	// ErrContentAlreadyExists indicates content with the same identifier already exists.
	ErrContentAlreadyExists = errors.New("content already exists")
)

// ContentError wraps content-related errors with additional context.
type ContentError struct {
	Op        string // Operation being performed (e.g., "ByID", "Update", "Delete")
	ContentID string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s operation failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for content errors.
func (e *ContentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewContentError creates a new content error with context.
func NewContentError(op, contentID string, err error) *ContentError {
	return &ContentError{
		Op:        op,
		ContentID: contentID,
		Err:       err,
	}
}

// IsContentNotFound checks if an error indicates content was not found.
func IsContentNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}

// IsVersionConflict checks if an error indicates a failed compare-and-swap.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
