package web_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationFields(t *testing.T, err error, fields []string) {
	t.Helper()

	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		t.Fatalf("Expected validator.ValidationErrors, got %T", err)
	}

	errorFields := make(map[string]bool)
	for _, fieldErr := range validationErrors {
		errorFields[fieldErr.Field()] = true
	}

	for _, expectedField := range fields {
		assert.True(t, errorFields[expectedField], "Expected validation error for field %s", expectedField)
	}
}

func TestCreateContentRequest_Validation(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRequiredStructEnabled())

	tests := []struct {
		name      string
		request   web.CreateContentRequest
		wantErr   bool
		errFields []string
	}{
		{
			name: "valid request",
			request: web.CreateContentRequest{
				WorkspaceID: "ws-1",
				CreatorID:   "user-1",
				ContentType: models.ContentTypeCarousel,
				Platforms: map[models.Platform]models.PlatformPost{
					models.PlatformInstagram: {MediaIDs: []string{"a", "b"}},
				},
			},
		},
		{
			name: "unknown content type",
			request: web.CreateContentRequest{
				WorkspaceID: "ws-1",
				CreatorID:   "user-1",
				ContentType: "podcast",
				Platforms:   map[models.Platform]models.PlatformPost{models.PlatformTwitter: {Text: "hi"}},
			},
			wantErr:   true,
			errFields: []string{"ContentType"},
		},
		{
			name:      "multiple validation errors",
			request:   web.CreateContentRequest{},
			wantErr:   true,
			errFields: []string{"WorkspaceID", "CreatorID", "ContentType", "Platforms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := v.Struct(tt.request)

			if tt.wantErr {
				assertValidationFields(t, err, tt.errFields)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleContentRequest_Validation(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(web.ScheduleContentRequest{
		PublishDate: time.Date(2030, time.January, 1, 9, 0, 0, 0, time.UTC),
		Timezone:    "UTC",
	})
	assert.NoError(t, err)

	err = v.Struct(web.ScheduleContentRequest{})
	assertValidationFields(t, err, []string{"PublishDate", "Timezone"})

	err = v.Struct(web.RescheduleContentRequest{})
	assertValidationFields(t, err, []string{"PublishDate"})
}

func TestCreateOAuthStateRequest_Validation(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(web.CreateOAuthStateRequest{
		Platform:    models.PlatformTikTok,
		WorkspaceID: "ws-1",
	})
	assert.NoError(t, err)

	err = v.Struct(web.CreateOAuthStateRequest{RedirectURL: "::"})
	assertValidationFields(t, err, []string{"Platform", "WorkspaceID", "RedirectURL"})
}
