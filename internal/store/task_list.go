package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// TaskListStore defines the interface for task list persistence.
type TaskListStore interface {
	// Create inserts a list and sets its ID.
	// Returns ErrTaskListNameExists when the name is taken.
	Create(ctx context.Context, list *domain.TaskList) error

	// GetByID returns ErrTaskListNotFound if the list does not exist.
	GetByID(ctx context.Context, id int64) (*domain.TaskList, error)

	// GetAll returns lists ordered by ID.
	GetAll(ctx context.Context, page Page) ([]*domain.TaskList, error)

	// Update saves the list's name. Returns ErrTaskListNotFound or
	// ErrTaskListNameExists.
	Update(ctx context.Context, list *domain.TaskList) error

	// Delete removes a list and, by cascade, its tasks.
	// Returns ErrTaskListNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// GetByName performs an exact match. Returns ErrTaskListNotFound on miss.
	GetByName(ctx context.Context, name string) (*domain.TaskList, error)

	// SearchByName matches a case-insensitive substring of the name.
	SearchByName(ctx context.Context, query string, page Page) ([]*domain.TaskList, error)

	// WithTx returns a TaskListStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskListStore
}
