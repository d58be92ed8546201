package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// MockSupportMessageRepository is a mock implementation of repository.SupportMessageRepository
type MockSupportMessageRepository struct {
	mock.Mock
}

func NewMockSupportMessageRepository(t *testing.T) *MockSupportMessageRepository {
	m := &MockSupportMessageRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSupportMessageRepository) Create(ctx context.Context, message *entity.SupportMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockSupportMessageRepository) FindByUserID(ctx context.Context, userID string, limit int) ([]*entity.SupportMessage, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SupportMessage), args.Error(1)
}
