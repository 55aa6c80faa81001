package mocks

import (
	"context"

	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockContentRepository is a mock implementation of persistence.ContentRepository interface.
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Query(ctx context.Context, query persistence.ContentQuery) ([]*models.SocialContent, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.SocialContent), args.Error(1)
}

func (m *MockContentRepository) ByID(ctx context.Context, id string) (*models.SocialContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SocialContent), args.Error(1)
}

func (m *MockContentRepository) Create(ctx context.Context, content *models.SocialContent) (*models.SocialContent, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SocialContent), args.Error(1)
}

func (m *MockContentRepository) Update(ctx context.Context, content *models.SocialContent, expectedVersion int64) (*models.SocialContent, error) {
	args := m.Called(ctx, content, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.SocialContent), args.Error(1)
}

func (m *MockContentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	ContentRepo *MockContentRepository
}

// NewMockPersistence creates a mock persistence backed by a fresh content repository mock.
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{ContentRepo: &MockContentRepository{}}
}

func (m *MockPersistence) ContentRepository() persistence.ContentRepository {
	return m.ContentRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
