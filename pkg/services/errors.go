// Package services provides the scheduling engine and the content operations built on the content store.
package services

import (
	"errors"
	"fmt"

	"github.com/pagecraft/pagecraft/pkg/calendar"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWorkspaceRequired  = errors.New("workspace ID is required")
	ErrPublishDateInPast  = errors.New("publish date must be in the future")
	ErrPublishDateMissing = errors.New("publish date is required")
	ErrInvalidTimezone    = errors.New("invalid IANA timezone")
	ErrEndDateBeforeStart = errors.New("recurrence end date must be after the publish date")
	ErrPlatformsRequired  = errors.New("content must target at least one platform")

	// ErrContentNotFound is returned when the content store has no item for an id (404 Not Found).
	ErrContentNotFound = persistence.ErrContentNotFound

	// Business Logic Conflicts (409 Conflict).
	ErrInvalidTransition = models.ErrInvalidTransition
	ErrVersionConflict   = persistence.ErrVersionConflict
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkspaceRequired) ||
		errors.Is(err, ErrPublishDateInPast) ||
		errors.Is(err, ErrPublishDateMissing) ||
		errors.Is(err, ErrInvalidTimezone) ||
		errors.Is(err, ErrEndDateBeforeStart) ||
		errors.Is(err, ErrPlatformsRequired) ||
		errors.Is(err, models.ErrInvalidRecurrence) ||
		errors.Is(err, models.ErrInvalidPlatform) ||
		errors.Is(err, models.ErrInvalidPlatformPayload) ||
		errors.Is(err, models.ErrInvalidContent) ||
		errors.Is(err, models.ErrMissingPostID) ||
		errors.Is(err, calendar.ErrInvalidView) ||
		errors.Is(err, calendar.ErrInvalidDirection)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrVersionConflict)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func newServiceError(op string, err error) *ServiceError {
	return &ServiceError{Op: op, Err: err}
}
