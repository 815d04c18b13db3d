package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/phrazzld/tasklist-api/internal/store"
)

const userServiceName = "user"

// RegisterParams holds the input for creating a user.
type RegisterParams struct {
	Email    string
	Name     *string
	Password string
}

// UpdateUserParams holds a partial user update. Nil fields are left unchanged.
type UpdateUserParams struct {
	Email *string
	Name  *string
}

// UserService provides user-related operations
type UserService interface {
	// Register creates a user with a hashed password. A taken email fails
	// with store.ErrEmailExists.
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)

	// Get retrieves a user by their ID
	Get(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	List(ctx context.Context, page store.Page) ([]*domain.User, error)
	Search(ctx context.Context, name string, page store.Page) ([]*domain.User, error)

	// Update follows the pattern of retrieving the full user, changing the
	// requested fields and saving the complete user back.
	Update(ctx context.Context, id int64, params UpdateUserParams) (*domain.User, error)

	// Delete removes the user. Tasks assigned to them become unassigned.
	Delete(ctx context.Context, id int64) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users  store.UserStore
	tx     store.TxRunner
	hasher auth.PasswordHasher
	clock  domain.Clock
	logger *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService. A nil clock uses domain.SystemClock.
func NewUserService(
	users store.UserStore,
	tx store.TxRunner,
	hasher auth.PasswordHasher,
	clock domain.Clock,
	log *slog.Logger,
) (*UserServiceImpl, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		users:  users,
		tx:     tx,
		hasher: hasher,
		clock:  clock,
		logger: log.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email, err := domain.NewEmail(params.Email)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(params.Password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(params.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError(userServiceName, "register", "failed to hash password", err)
	}

	user, err := domain.NewUser(email, params.Name, hashed, s.clock())
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email", slog.String("email", email.String()))
		} else {
			log.Error("failed to save user to database",
				slog.String("error", err.Error()),
				slog.String("email", email.String()))
		}
		return nil, wrapError(userServiceName, "register", "failed to save user", err)
	}

	log.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email))
	return user, nil
}

// Get implements UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError(userServiceName, "get", "failed to retrieve user", err)
	}
	return user, nil
}

// GetByEmail implements UserService. The email is normalized before lookup.
func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	addr, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, addr.String())
	if err != nil {
		return nil, wrapError(userServiceName, "get_by_email", "failed to retrieve user by email", err)
	}
	return user, nil
}

// List implements UserService.
func (s *UserServiceImpl) List(ctx context.Context, page store.Page) ([]*domain.User, error) {
	if err := page.Validate(store.MaxLimit); err != nil {
		return nil, err
	}
	users, err := s.users.GetAll(ctx, page)
	if err != nil {
		return nil, wrapError(userServiceName, "list", "failed to list users", err)
	}
	return users, nil
}

// Search implements UserService.
func (s *UserServiceImpl) Search(ctx context.Context, name string, page store.Page) ([]*domain.User, error) {
	if err := page.Validate(store.MaxLimit); err != nil {
		return nil, err
	}
	users, err := s.users.SearchByName(ctx, name, page)
	if err != nil {
		return nil, wrapError(userServiceName, "search", "failed to search users", err)
	}
	return users, nil
}

// Update implements UserService.
func (s *UserServiceImpl) Update(ctx context.Context, id int64, params UpdateUserParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var email *domain.Email
	if params.Email != nil {
		e, err := domain.NewEmail(*params.Email)
		if err != nil {
			return nil, err
		}
		email = &e
	}

	var user *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		var err error
		user, err = users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.clock()
		if email != nil {
			user.ChangeEmail(*email, now)
		}
		if params.Name != nil {
			if err := user.Rename(params.Name, now); err != nil {
				return err
			}
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to update to an existing email", slog.Int64("user_id", id))
		}
		return nil, wrapError(userServiceName, "update", "failed to update user", err)
	}

	log.Info("user updated successfully", slog.Int64("user_id", id))
	return user, nil
}

// Delete implements UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.users.Delete(ctx, id); err != nil {
		return wrapError(userServiceName, "delete", "failed to delete user", err)
	}

	log.Info("user deleted successfully", slog.Int64("user_id", id))
	return nil
}
