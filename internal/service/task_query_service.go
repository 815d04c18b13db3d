package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/store"
)

const taskQueryServiceName = "task_query"

// TaskQuery selects tasks. TaskListID is ignored by ListByTaskList, which
// takes the list ID as an argument.
type TaskQuery struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	UserID   *int64
	Page     store.Page
}

// TaskListPage is a filtered page of a list's tasks. Total, Completed and
// PercentComplete always describe the whole list, not the filtered page.
type TaskListPage struct {
	Tasks []*domain.Task
	domain.TaskListProgress
	Page store.Page
}

// Returned is the number of tasks on this page.
func (p *TaskListPage) Returned() int {
	return len(p.Tasks)
}

// TaskQueryService lists and searches tasks.
type TaskQueryService interface {
	// ListByTaskList returns a filtered page of the list's tasks together with
	// completion figures over every task in the list. A missing list fails
	// with store.ErrTaskListNotFound before any task query runs.
	ListByTaskList(ctx context.Context, taskListID int64, q TaskQuery) (*TaskListPage, error)

	// ListAll returns a filtered page of tasks across all lists.
	ListAll(ctx context.Context, q TaskQuery) ([]*domain.Task, error)

	// SearchByTitle returns tasks whose title contains query, case-insensitively.
	SearchByTitle(ctx context.Context, query string, page store.Page) ([]*domain.Task, error)
}

// TaskQueryServiceImpl implements TaskQueryService.
type TaskQueryServiceImpl struct {
	tasks  store.TaskStore
	lists  store.TaskListStore
	logger *slog.Logger
}

var _ TaskQueryService = (*TaskQueryServiceImpl)(nil)

// NewTaskQueryService creates a TaskQueryService.
func NewTaskQueryService(
	tasks store.TaskStore,
	lists store.TaskListStore,
	log *slog.Logger,
) (*TaskQueryServiceImpl, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if lists == nil {
		return nil, domain.NewValidationError("lists", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskQueryServiceImpl{
		tasks:  tasks,
		lists:  lists,
		logger: log.With(slog.String("component", "task_query_service")),
	}, nil
}

// ListByTaskList implements TaskQueryService.
func (s *TaskQueryServiceImpl) ListByTaskList(
	ctx context.Context,
	taskListID int64,
	q TaskQuery,
) (*TaskListPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := q.Page.Validate(store.MaxTaskListScopedLimit); err != nil {
		return nil, err
	}

	if _, err := s.lists.GetByID(ctx, taskListID); err != nil {
		log.Debug("task list lookup failed",
			slog.Int64("task_list_id", taskListID),
			slog.String("error", err.Error()))
		return nil, wrapError(taskQueryServiceName, "list_by_task_list", "failed to load task list", err)
	}

	filter := store.TaskFilter{
		TaskListID: &taskListID,
		Status:     q.Status,
		Priority:   q.Priority,
		UserID:     q.UserID,
	}
	tasks, err := s.tasks.GetWithFilters(ctx, filter, q.Page)
	if err != nil {
		return nil, wrapError(taskQueryServiceName, "list_by_task_list", "failed to query tasks", err)
	}

	// Completion figures cover the whole list regardless of filters and paging.
	all, err := s.tasks.GetByTaskListID(ctx, taskListID, store.Unbounded)
	if err != nil {
		return nil, wrapError(taskQueryServiceName, "list_by_task_list", "failed to load all tasks", err)
	}

	progress := domain.CalculateProgress(all)
	log.Debug("listed tasks for task list",
		slog.Int64("task_list_id", taskListID),
		slog.Int("returned", len(tasks)),
		slog.Int("total", progress.Total),
		slog.Int("completed", progress.Completed))

	return &TaskListPage{
		Tasks:            tasks,
		TaskListProgress: progress,
		Page:             q.Page,
	}, nil
}

// ListAll implements TaskQueryService.
func (s *TaskQueryServiceImpl) ListAll(ctx context.Context, q TaskQuery) ([]*domain.Task, error) {
	if err := q.Page.Validate(store.MaxTaskListScopedLimit); err != nil {
		return nil, err
	}

	filter := store.TaskFilter{
		Status:   q.Status,
		Priority: q.Priority,
		UserID:   q.UserID,
	}
	tasks, err := s.tasks.GetWithFilters(ctx, filter, q.Page)
	if err != nil {
		return nil, wrapError(taskQueryServiceName, "list_all", "failed to query tasks", err)
	}
	return tasks, nil
}

// SearchByTitle implements TaskQueryService.
func (s *TaskQueryServiceImpl) SearchByTitle(
	ctx context.Context,
	query string,
	page store.Page,
) ([]*domain.Task, error) {
	if err := page.Validate(store.MaxLimit); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.SearchByTitle(ctx, query, page)
	if err != nil {
		return nil, wrapError(taskQueryServiceName, "search", "failed to search tasks", err)
	}
	return tasks, nil
}
