package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create inserts a task and sets its ID.
	// Returns ErrInvalidEntity if the task list or assignee does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetAll returns tasks ordered by ID.
	GetAll(ctx context.Context, page Page) ([]*domain.Task, error)

	// Update saves every mutable field of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Returns ErrTaskNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	GetByTaskListID(ctx context.Context, taskListID int64, page Page) ([]*domain.Task, error)
	GetByUserID(ctx context.Context, userID int64, page Page) ([]*domain.Task, error)
	GetByStatus(ctx context.Context, status domain.TaskStatus, page Page) ([]*domain.Task, error)
	GetByPriority(ctx context.Context, priority domain.TaskPriority, page Page) ([]*domain.Task, error)

	// SearchByTitle matches a case-insensitive substring of the title.
	SearchByTitle(ctx context.Context, query string, page Page) ([]*domain.Task, error)

	// GetWithFilters applies every set filter field as a conjunction.
	GetWithFilters(ctx context.Context, filter TaskFilter, page Page) ([]*domain.Task, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
