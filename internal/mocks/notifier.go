package mocks

import (
	"context"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/notification"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a testify mock of notification.Port.
type MockNotifier struct {
	mock.Mock
}

var _ notification.Port = (*MockNotifier)(nil)

// NotifyAssignment is a mock implementation of notification.Port.NotifyAssignment
func (m *MockNotifier) NotifyAssignment(ctx context.Context, task *domain.Task, user *domain.User) bool {
	args := m.Called(ctx, task, user)
	return args.Bool(0)
}

// NotifyUnassignment is a mock implementation of notification.Port.NotifyUnassignment
func (m *MockNotifier) NotifyUnassignment(ctx context.Context, task *domain.Task, user *domain.User) bool {
	args := m.Called(ctx, task, user)
	return args.Bool(0)
}

// NotifyStatusChange is a mock implementation of notification.Port.NotifyStatusChange
func (m *MockNotifier) NotifyStatusChange(
	ctx context.Context,
	task *domain.Task,
	oldStatus domain.TaskStatus,
	user *domain.User,
) bool {
	args := m.Called(ctx, task, oldStatus, user)
	return args.Bool(0)
}
