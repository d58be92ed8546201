package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
)

// MockUserRoleRepository is a mock implementation of repository.UserRoleRepository
type MockUserRoleRepository struct {
	mock.Mock
}

func NewMockUserRoleRepository(t *testing.T) *MockUserRoleRepository {
	m := &MockUserRoleRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRoleRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.UserRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.UserRole), args.Error(1)
}
