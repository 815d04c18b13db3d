package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/mocks"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryFixture(t *testing.T) (*service.TaskQueryServiceImpl, *mocks.MockTaskStore, *mocks.MockTaskListStore) {
	t.Helper()
	tasks, lists, _ := mocks.NewMockStores()
	svc, err := service.NewTaskQueryService(tasks, lists, testLogger())
	require.NoError(t, err)
	return svc, tasks, lists
}

func TestTaskQueryService_ListByTaskList(t *testing.T) {
	ctx := context.Background()

	t.Run("progress covers the whole list regardless of filters", func(t *testing.T) {
		svc, tasks, lists := newQueryFixture(t)
		list := seedList(t, lists, "Sprint 1")
		other := seedList(t, lists, "Sprint 2")
		seedTask(t, tasks, list.ID, "a", domain.TaskStatusCompleted)
		seedTask(t, tasks, list.ID, "b", domain.TaskStatusCompleted)
		seedTask(t, tasks, list.ID, "c", domain.TaskStatusPending)
		seedTask(t, tasks, list.ID, "d", domain.TaskStatusPending)
		seedTask(t, tasks, other.ID, "e", domain.TaskStatusCompleted)

		page, err := svc.ListByTaskList(ctx, list.ID, service.TaskQuery{
			Status: ptr(domain.TaskStatusPending),
			Page:   store.DefaultPage(),
		})
		require.NoError(t, err)
		assert.Len(t, page.Tasks, 2)
		assert.Equal(t, 2, page.Returned())
		assert.Equal(t, 4, page.Total)
		assert.Equal(t, 2, page.Completed)
		assert.Equal(t, 50.0, page.PercentComplete)
		for _, task := range page.Tasks {
			assert.Equal(t, domain.TaskStatusPending, task.Status)
		}
	})

	t.Run("paging does not change progress", func(t *testing.T) {
		svc, tasks, lists := newQueryFixture(t)
		list := seedList(t, lists, "Sprint 1")
		for _, title := range []string{"a", "b", "c"} {
			seedTask(t, tasks, list.ID, title, domain.TaskStatusCompleted)
		}

		page, err := svc.ListByTaskList(ctx, list.ID, service.TaskQuery{Page: store.Page{Skip: 1, Limit: 1}})
		require.NoError(t, err)
		require.Len(t, page.Tasks, 1)
		assert.Equal(t, "b", page.Tasks[0].Title)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 100.0, page.PercentComplete)
	})

	t.Run("empty list", func(t *testing.T) {
		svc, _, lists := newQueryFixture(t)
		list := seedList(t, lists, "Empty")

		page, err := svc.ListByTaskList(ctx, list.ID, service.TaskQuery{Page: store.DefaultPage()})
		require.NoError(t, err)
		assert.Empty(t, page.Tasks)
		assert.Equal(t, 0.0, page.PercentComplete)
		assert.True(t, page.IsEmpty())
	})

	t.Run("missing list fails before any task query", func(t *testing.T) {
		svc, tasks, _ := newQueryFixture(t)

		_, err := svc.ListByTaskList(ctx, 999, service.TaskQuery{Page: store.DefaultPage()})
		assert.ErrorIs(t, err, store.ErrTaskListNotFound)
		assert.Equal(t, 0, tasks.TotalCalls())
	})

	t.Run("limit bounds", func(t *testing.T) {
		svc, _, lists := newQueryFixture(t)
		list := seedList(t, lists, "Sprint 1")

		_, err := svc.ListByTaskList(ctx, list.ID, service.TaskQuery{Page: store.Page{Limit: 1000}})
		assert.NoError(t, err)
		_, err = svc.ListByTaskList(ctx, list.ID, service.TaskQuery{Page: store.Page{Limit: 1001}})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.ListByTaskList(ctx, list.ID, service.TaskQuery{Page: store.Page{Limit: 0}})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.ListByTaskList(ctx, list.ID, service.TaskQuery{Page: store.Page{Skip: -1, Limit: 10}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		svc, tasks, lists := newQueryFixture(t)
		list := seedList(t, lists, "Sprint 1")
		tasks.GetWithFiltersFn = func(context.Context, store.TaskFilter, store.Page) ([]*domain.Task, error) {
			return nil, errors.New("timeout")
		}

		_, err := svc.ListByTaskList(ctx, list.ID, service.TaskQuery{Page: store.DefaultPage()})
		var svcErr *service.ServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestTaskQueryService_ListAll(t *testing.T) {
	ctx := context.Background()
	svc, tasks, lists := newQueryFixture(t)
	a := seedList(t, lists, "A")
	b := seedList(t, lists, "B")
	seedTask(t, tasks, a.ID, "one", domain.TaskStatusPending)
	high := seedTask(t, tasks, b.ID, "two", domain.TaskStatusPending)
	high.Priority = domain.TaskPriorityHigh
	tasks.Seed(high)
	seedTask(t, tasks, b.ID, "three", domain.TaskStatusCompleted)

	all, err := svc.ListAll(ctx, service.TaskQuery{Page: store.DefaultPage()})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.ListAll(ctx, service.TaskQuery{
		Status:   ptr(domain.TaskStatusPending),
		Priority: ptr(domain.TaskPriorityHigh),
		Page:     store.DefaultPage(),
	})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "two", pending[0].Title)

	wide, err := svc.ListAll(ctx, service.TaskQuery{Page: store.Page{Limit: 500}})
	require.NoError(t, err)
	assert.Len(t, wide, 3)

	_, err = svc.ListAll(ctx, service.TaskQuery{Page: store.Page{Limit: 1001}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskQueryService_SearchByTitle(t *testing.T) {
	ctx := context.Background()
	svc, tasks, lists := newQueryFixture(t)
	list := seedList(t, lists, "A")
	seedTask(t, tasks, list.ID, "Fix login bug", domain.TaskStatusPending)
	seedTask(t, tasks, list.ID, "Write docs", domain.TaskStatusPending)

	found, err := svc.SearchByTitle(ctx, "BUG", store.DefaultPage())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Fix login bug", found[0].Title)
}
