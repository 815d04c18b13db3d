package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create inserts a user and sets its ID.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetAll returns users ordered by ID.
	GetAll(ctx context.Context, page Page) ([]*domain.User, error)

	// Update saves email, name and password hash.
	// Returns ErrUserNotFound or ErrEmailExists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user. Tasks assigned to the user become unassigned.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error

	// GetByEmail performs an exact match on the normalized email.
	// Returns ErrUserNotFound on miss.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SearchByName matches a case-insensitive substring of the name.
	SearchByName(ctx context.Context, query string, page Page) ([]*domain.User, error)

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
