package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/store"
)

const selectUsers = `SELECT id, email, name, hashed_password, created_at, updated_at FROM users`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Email,
		nullableString(user.Name),
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered")
		} else {
			log.Error("failed to insert user", slog.String("error", err.Error()))
		}
		return MapUniqueViolation(err, store.ErrEmailExists)
	}

	log.Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, selectUsers+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapNotFound(err, store.ErrUserNotFound)
	}
	return user, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, selectUsers+` WHERE email = $1`, email))
	if err != nil {
		return nil, mapNotFound(err, store.ErrUserNotFound)
	}
	return user, nil
}

// GetAll implements store.UserStore.GetAll
func (s *PostgresUserStore) GetAll(ctx context.Context, page store.Page) ([]*domain.User, error) {
	return s.query(ctx, newSelectQuery(selectUsers), page)
}

// SearchByName implements store.UserStore.SearchByName
func (s *PostgresUserStore) SearchByName(
	ctx context.Context,
	query string,
	page store.Page,
) ([]*domain.User, error) {
	return s.query(ctx, newSelectQuery(selectUsers).where("name ILIKE $%d", containsPattern(query)), page)
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET email = $1, name = $2, hashed_password = $3, updated_at = $4
		WHERE id = $5`,
		user.Email,
		nullableString(user.Name),
		user.HashedPassword,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.Error("failed to update user",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()))
		}
		return MapUniqueViolation(err, store.ErrEmailExists)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// Delete implements store.UserStore.Delete.
// Assigned tasks are unassigned by the ON DELETE SET NULL foreign key.
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete user",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

func (s *PostgresUserStore) query(
	ctx context.Context,
	q *selectQuery,
	page store.Page,
) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args := q.build(page)
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return users, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		name      sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &name, &user.HashedPassword, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		user.Name = &name.String
	}
	user.CreatedAt = createdAt.UTC()
	user.UpdatedAt = updatedAt.UTC()
	return &user, nil
}
