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

const selectTaskLists = `SELECT id, name, created_at, updated_at FROM task_lists`

// PostgresTaskListStore implements the store.TaskListStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskListStore creates a new PostgreSQL implementation of the TaskListStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskListStore(db store.DBTX, logger *slog.Logger) *PostgresTaskListStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskListStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_list_store")),
	}
}

var _ store.TaskListStore = (*PostgresTaskListStore)(nil)

// WithTx implements store.TaskListStore.WithTx
func (s *PostgresTaskListStore) WithTx(tx *sql.Tx) store.TaskListStore {
	return &PostgresTaskListStore{db: tx, logger: s.logger}
}

// Create implements store.TaskListStore.Create.
// The unique index on name is the authority on conflicts.
func (s *PostgresTaskListStore) Create(ctx context.Context, list *domain.TaskList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO task_lists (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		list.Name,
		list.CreatedAt,
		list.UpdatedAt,
	).Scan(&list.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("task list name already taken", slog.String("name", list.Name))
		} else {
			log.Error("failed to insert task list", slog.String("error", err.Error()))
		}
		return MapUniqueViolation(err, store.ErrTaskListNameExists)
	}

	log.Debug("task list created", slog.Int64("task_list_id", list.ID))
	return nil
}

// GetByID implements store.TaskListStore.GetByID
func (s *PostgresTaskListStore) GetByID(ctx context.Context, id int64) (*domain.TaskList, error) {
	list, err := scanTaskList(s.db.QueryRowContext(ctx, selectTaskLists+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapNotFound(err, store.ErrTaskListNotFound)
	}
	return list, nil
}

// GetByName implements store.TaskListStore.GetByName
func (s *PostgresTaskListStore) GetByName(ctx context.Context, name string) (*domain.TaskList, error) {
	list, err := scanTaskList(s.db.QueryRowContext(ctx, selectTaskLists+` WHERE name = $1`, name))
	if err != nil {
		return nil, mapNotFound(err, store.ErrTaskListNotFound)
	}
	return list, nil
}

// GetAll implements store.TaskListStore.GetAll
func (s *PostgresTaskListStore) GetAll(ctx context.Context, page store.Page) ([]*domain.TaskList, error) {
	return s.query(ctx, newSelectQuery(selectTaskLists), page)
}

// SearchByName implements store.TaskListStore.SearchByName
func (s *PostgresTaskListStore) SearchByName(
	ctx context.Context,
	query string,
	page store.Page,
) ([]*domain.TaskList, error) {
	return s.query(ctx, newSelectQuery(selectTaskLists).where("name ILIKE $%d", containsPattern(query)), page)
}

// Update implements store.TaskListStore.Update
func (s *PostgresTaskListStore) Update(ctx context.Context, list *domain.TaskList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := list.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE task_lists SET name = $1, updated_at = $2 WHERE id = $3`,
		list.Name,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.Error("failed to update task list",
				slog.Int64("task_list_id", list.ID),
				slog.String("error", err.Error()))
		}
		return MapUniqueViolation(err, store.ErrTaskListNameExists)
	}

	return CheckRowsAffected(result, store.ErrTaskListNotFound)
}

// Delete implements store.TaskListStore.Delete.
// Tasks in the list are removed by the ON DELETE CASCADE foreign key.
func (s *PostgresTaskListStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM task_lists WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task list",
			slog.Int64("task_list_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskListNotFound)
}

func (s *PostgresTaskListStore) query(
	ctx context.Context,
	q *selectQuery,
	page store.Page,
) ([]*domain.TaskList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args := q.build(page)
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		log.Error("failed to query task lists", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	lists := make([]*domain.TaskList, 0)
	for rows.Next() {
		list, err := scanTaskList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return lists, nil
}

func scanTaskList(row rowScanner) (*domain.TaskList, error) {
	var (
		list      domain.TaskList
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&list.ID, &list.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	list.CreatedAt = createdAt.UTC()
	list.UpdatedAt = updatedAt.UTC()
	return &list, nil
}
