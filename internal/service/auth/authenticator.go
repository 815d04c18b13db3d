package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// Authenticator checks email and password pairs against the user store.
type Authenticator struct {
	users  store.UserStore
	hasher PasswordHasher
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users store.UserStore, hasher PasswordHasher, log *slog.Logger) *Authenticator {
	if users == nil {
		panic("users cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Authenticator{
		users:  users,
		hasher: hasher,
		logger: log.With(slog.String("component", "authenticator")),
	}
}

// VerifyCredentials returns the user owning email when password matches.
// Unknown emails, malformed emails and wrong passwords all yield
// ErrInvalidCredentials so callers cannot tell them apart.
func (a *Authenticator) VerifyCredentials(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	addr, err := domain.NewEmail(email)
	if err != nil {
		log.Debug("credential check failed: malformed email")
		return nil, ErrInvalidCredentials
	}

	user, err := a.users.GetByEmail(ctx, addr.String())
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("credential check failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user for authentication: %w", err)
	}

	if err := a.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("credential check failed: password mismatch", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
