package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/store"
)

const taskListServiceName = "task_list"

// TaskListService manages task lists. Names are unique across all lists.
type TaskListService interface {
	Create(ctx context.Context, name string) (*domain.TaskList, error)
	Get(ctx context.Context, id int64) (*domain.TaskList, error)
	List(ctx context.Context, page store.Page) ([]*domain.TaskList, error)
	Search(ctx context.Context, name string, page store.Page) ([]*domain.TaskList, error)
	Rename(ctx context.Context, id int64, name string) (*domain.TaskList, error)
	// Delete removes the list and, by cascade, all of its tasks.
	Delete(ctx context.Context, id int64) error
}

// TaskListServiceImpl implements TaskListService.
type TaskListServiceImpl struct {
	lists  store.TaskListStore
	tx     store.TxRunner
	clock  domain.Clock
	logger *slog.Logger
}

var _ TaskListService = (*TaskListServiceImpl)(nil)

// NewTaskListService creates a TaskListService. A nil clock uses domain.SystemClock.
func NewTaskListService(
	lists store.TaskListStore,
	tx store.TxRunner,
	clock domain.Clock,
	log *slog.Logger,
) (*TaskListServiceImpl, error) {
	if lists == nil {
		return nil, domain.NewValidationError("lists", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskListServiceImpl{
		lists:  lists,
		tx:     tx,
		clock:  clock,
		logger: log.With(slog.String("component", "task_list_service")),
	}, nil
}

// Create implements TaskListService. The name is checked up front for a
// readable conflict; the unique constraint still guards concurrent creates.
func (s *TaskListServiceImpl) Create(ctx context.Context, name string) (*domain.TaskList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	listName, err := domain.NewTaskListName(name)
	if err != nil {
		return nil, err
	}
	list := domain.NewTaskList(listName, s.clock())

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)
		if err := ensureNameFree(ctx, lists, listName.String(), 0); err != nil {
			return err
		}
		return lists.Create(ctx, list)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("attempted to create task list with existing name", slog.String("name", listName.String()))
		}
		return nil, wrapError(taskListServiceName, "create", "failed to save task list", err)
	}

	log.Info("task list created", slog.Int64("task_list_id", list.ID), slog.String("name", list.Name))
	return list, nil
}

// Get implements TaskListService.
func (s *TaskListServiceImpl) Get(ctx context.Context, id int64) (*domain.TaskList, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(taskListServiceName, "get", "failed to retrieve task list", err)
	}
	return list, nil
}

// List implements TaskListService.
func (s *TaskListServiceImpl) List(ctx context.Context, page store.Page) ([]*domain.TaskList, error) {
	if err := page.Validate(store.MaxLimit); err != nil {
		return nil, err
	}
	lists, err := s.lists.GetAll(ctx, page)
	if err != nil {
		return nil, wrapError(taskListServiceName, "list", "failed to list task lists", err)
	}
	return lists, nil
}

// Search implements TaskListService.
func (s *TaskListServiceImpl) Search(
	ctx context.Context,
	name string,
	page store.Page,
) ([]*domain.TaskList, error) {
	if err := page.Validate(store.MaxLimit); err != nil {
		return nil, err
	}
	lists, err := s.lists.SearchByName(ctx, name, page)
	if err != nil {
		return nil, wrapError(taskListServiceName, "search", "failed to search task lists", err)
	}
	return lists, nil
}

// Rename implements TaskListService. Renaming a list to its current name is
// not a conflict.
func (s *TaskListServiceImpl) Rename(ctx context.Context, id int64, name string) (*domain.TaskList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	listName, err := domain.NewTaskListName(name)
	if err != nil {
		return nil, err
	}

	var list *domain.TaskList
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)

		var err error
		list, err = lists.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureNameFree(ctx, lists, listName.String(), id); err != nil {
			return err
		}
		list.Rename(listName, s.clock())
		return lists.Update(ctx, list)
	})
	if err != nil {
		log.Debug("failed to rename task list", slog.Int64("task_list_id", id), slog.String("error", err.Error()))
		return nil, wrapError(taskListServiceName, "rename", "failed to update task list", err)
	}

	log.Info("task list renamed", slog.Int64("task_list_id", id), slog.String("name", list.Name))
	return list, nil
}

// Delete implements TaskListService.
func (s *TaskListServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.lists.Delete(ctx, id); err != nil {
		return wrapError(taskListServiceName, "delete", "failed to delete task list", err)
	}

	log.Info("task list deleted", slog.Int64("task_list_id", id))
	return nil
}

// ensureNameFree fails with store.ErrTaskListNameExists when another list
// (not exceptID) already uses name.
func ensureNameFree(ctx context.Context, lists store.TaskListStore, name string, exceptID int64) error {
	existing, err := lists.GetByName(ctx, name)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	if existing.ID != exceptID {
		return store.ErrTaskListNameExists
	}
	return nil
}
