package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/notification"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/platform/metrics"
	"github.com/phrazzld/tasklist-api/internal/store"
)

const taskServiceName = "task"

// CreateTaskParams holds the input for creating a task.
type CreateTaskParams struct {
	Title       string
	Description *string
	Priority    domain.TaskPriority // empty means medium
	TaskListID  int64
	UserID      *int64
}

// UpdateTaskParams holds a partial task update. Nil fields are left unchanged.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	UserID      *int64
}

// TaskService applies lifecycle operations to single tasks. Mutations are
// persisted before any notification is sent, and notification failures never
// fail the operation.
type TaskService interface {
	Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, id int64, params UpdateTaskParams) (*domain.Task, error)
	ChangeStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)
	Assign(ctx context.Context, id, userID int64) (*domain.Task, error)
	Unassign(ctx context.Context, id int64) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	tasks    store.TaskStore
	lists    store.TaskListStore
	users    store.UserStore
	tx       store.TxRunner
	notifier notification.Port
	clock    domain.Clock
	logger   *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a TaskService. A nil clock uses domain.SystemClock.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	lists store.TaskListStore,
	users store.UserStore,
	tx store.TxRunner,
	notifier notification.Port,
	clock domain.Clock,
	log *slog.Logger,
) (*TaskServiceImpl, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if lists == nil {
		return nil, domain.NewValidationError("lists", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if notifier == nil {
		return nil, domain.NewValidationError("notifier", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskServiceImpl{
		tasks:    tasks,
		lists:    lists,
		users:    users,
		tx:       tx,
		notifier: notifier,
		clock:    clock,
		logger:   log.With(slog.String("component", "task_service")),
	}, nil
}

// assignment records who gained and who lost a task during a mutation so
// notifications can be sent after commit.
type assignment struct {
	assignee *domain.User
	previous *domain.User
}

func (a assignment) notify(ctx context.Context, n notification.Port, task *domain.Task) {
	if a.assignee != nil {
		n.NotifyAssignment(ctx, task, a.assignee)
	}
	if a.previous != nil {
		n.NotifyUnassignment(ctx, task, a.previous)
	}
}

// Create implements TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	title, err := domain.NewTitle(params.Title)
	if err != nil {
		return nil, err
	}
	task, err := domain.NewTask(title, params.Description, params.Priority, params.TaskListID, s.clock())
	if err != nil {
		return nil, err
	}

	var assignee *domain.User
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.lists.WithTx(tx).GetByID(ctx, params.TaskListID); err != nil {
			return err
		}
		if params.UserID != nil {
			user, err := s.users.WithTx(tx).GetByID(ctx, *params.UserID)
			if err != nil {
				return err
			}
			task.AssignToUser(user.ID, s.clock())
			assignee = user
		}
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		log.Debug("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("task_list_id", params.TaskListID))
		return nil, wrapError(taskServiceName, "create", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("task_list_id", task.TaskListID))

	if assignee != nil {
		s.notifier.NotifyAssignment(ctx, task, assignee)
	}
	return task, nil
}

// Get implements TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(taskServiceName, "get", "failed to retrieve task", err)
	}
	return task, nil
}

// Update implements TaskService. A changed user_id follows the same rules
// and notifications as Assign.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	id int64,
	params UpdateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var title *domain.Title
	if params.Title != nil {
		t, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		title = &t
	}
	if err := domain.ValidateDescription(params.Description); err != nil {
		return nil, err
	}
	if params.Priority != nil && !params.Priority.IsValid() {
		return nil, domain.NewValidationError("priority", "is not a valid priority", domain.ErrInvalidPriority)
	}

	var task *domain.Task
	var change assignment
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)
		users := s.users.WithTx(tx)

		var err error
		task, err = tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.clock()
		if title != nil {
			task.UpdateTitle(*title, now)
		}
		if params.Description != nil {
			if err := task.UpdateDescription(params.Description, now); err != nil {
				return err
			}
		}
		if params.Priority != nil {
			if err := task.ChangePriority(*params.Priority, now); err != nil {
				return err
			}
		}
		if params.UserID != nil && !task.IsAssignedTo(*params.UserID) {
			change, err = s.assign(ctx, users, task, *params.UserID)
			if err != nil {
				return err
			}
		}

		return tasks.Update(ctx, task)
	})
	if err != nil {
		log.Debug("failed to update task", slog.String("error", err.Error()), slog.Int64("task_id", id))
		return nil, wrapError(taskServiceName, "update", "failed to update task", err)
	}

	change.notify(ctx, s.notifier, task)
	return task, nil
}

// ChangeStatus implements TaskService. An assigned user is notified of the
// change; an unassigned task changes silently.
func (s *TaskServiceImpl) ChangeStatus(
	ctx context.Context,
	id int64,
	status domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task *domain.Task
	var oldStatus domain.TaskStatus
	var assignee *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		oldStatus = task.Status
		if err := task.ChangeStatus(status, s.clock()); err != nil {
			return err
		}
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}

		if task.UserID != nil {
			assignee = s.lookupUser(ctx, s.users.WithTx(tx), *task.UserID)
		}
		return nil
	})
	if err != nil {
		log.Debug("failed to change task status",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.String("status", string(status)))
		return nil, wrapError(taskServiceName, "change_status", "failed to change status", err)
	}

	metrics.IncrementStatusTransition(string(oldStatus), string(task.Status))
	log.Info("task status changed",
		slog.Int64("task_id", task.ID),
		slog.String("from", string(oldStatus)),
		slog.String("to", string(task.Status)))

	if assignee != nil {
		s.notifier.NotifyStatusChange(ctx, task, oldStatus, assignee)
	} else {
		log.Debug("task has no assignee, skipping status notification", slog.Int64("task_id", task.ID))
	}
	return task, nil
}

// Assign implements TaskService. The new assignee is always notified; a
// different previous assignee is notified of the unassignment.
func (s *TaskServiceImpl) Assign(ctx context.Context, id, userID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task *domain.Task
	var change assignment
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		change, err = s.assign(ctx, s.users.WithTx(tx), task, userID)
		if err != nil {
			return err
		}
		return tasks.Update(ctx, task)
	})
	if err != nil {
		log.Debug("failed to assign task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id),
			slog.Int64("user_id", userID))
		return nil, wrapError(taskServiceName, "assign", "failed to assign task", err)
	}

	log.Info("task assigned", slog.Int64("task_id", task.ID), slog.Int64("user_id", userID))
	change.notify(ctx, s.notifier, task)
	return task, nil
}

// Unassign implements TaskService.
func (s *TaskServiceImpl) Unassign(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task *domain.Task
	var previous *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if prevID := task.UnassignUser(s.clock()); prevID != nil {
			previous = s.lookupUser(ctx, s.users.WithTx(tx), *prevID)
		}
		return tasks.Update(ctx, task)
	})
	if err != nil {
		log.Debug("failed to unassign task", slog.String("error", err.Error()), slog.Int64("task_id", id))
		return nil, wrapError(taskServiceName, "unassign", "failed to unassign task", err)
	}

	if previous != nil {
		s.notifier.NotifyUnassignment(ctx, task, previous)
	}
	return task, nil
}

// Delete implements TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.Delete(ctx, id); err != nil {
		log.Debug("failed to delete task", slog.String("error", err.Error()), slog.Int64("task_id", id))
		return wrapError(taskServiceName, "delete", "failed to delete task", err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// assign sets the assignee on task after checking the user exists.
func (s *TaskServiceImpl) assign(
	ctx context.Context,
	users store.UserStore,
	task *domain.Task,
	userID int64,
) (assignment, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return assignment{}, err
	}

	change := assignment{assignee: user}
	if prevID := task.AssignToUser(userID, s.clock()); prevID != nil && *prevID != userID {
		change.previous = s.lookupUser(ctx, users, *prevID)
	}
	return change, nil
}

// lookupUser loads a user for notification purposes. A missing user yields
// nil so the notification is skipped rather than failing the mutation.
func (s *TaskServiceImpl) lookupUser(ctx context.Context, users store.UserStore, id int64) *domain.User {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("could not load user for notification",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()))
		return nil
	}
	return user
}
