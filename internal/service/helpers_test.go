package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return baseTime
}

func ptr[T any](v T) *T {
	return &v
}

func seedList(t *testing.T, lists *mocks.MockTaskListStore, name string) *domain.TaskList {
	t.Helper()
	n, err := domain.NewTaskListName(name)
	require.NoError(t, err)
	list := domain.NewTaskList(n, baseTime)
	require.NoError(t, lists.Create(context.Background(), list))
	return list
}

func seedUser(t *testing.T, users *mocks.MockUserStore, email string) *domain.User {
	t.Helper()
	e, err := domain.NewEmail(email)
	require.NoError(t, err)
	user, err := domain.NewUser(e, nil, "hashed:password", baseTime)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func seedTask(
	t *testing.T,
	tasks *mocks.MockTaskStore,
	listID int64,
	title string,
	status domain.TaskStatus,
) *domain.Task {
	t.Helper()
	tt, err := domain.NewTitle(title)
	require.NoError(t, err)
	task, err := domain.NewTask(tt, nil, domain.TaskPriorityMedium, listID, baseTime)
	require.NoError(t, err)
	task.Status = status
	tasks.Seed(task)
	return task
}
