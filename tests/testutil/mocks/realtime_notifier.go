package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockRealtimeNotifier is a mock implementation of service.RealtimeNotifier
type MockRealtimeNotifier struct {
	mock.Mock
}

func NewMockRealtimeNotifier(t *testing.T) *MockRealtimeNotifier {
	m := &MockRealtimeNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRealtimeNotifier) Notify(ctx context.Context, userID string, event any) bool {
	args := m.Called(ctx, userID, event)
	return args.Bool(0)
}

func (m *MockRealtimeNotifier) IsOnline(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}
