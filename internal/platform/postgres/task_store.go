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

const selectTasks = `SELECT id, title, description, status, priority, task_list_id, user_id, created_at, updated_at FROM tasks`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("invalid task rejected", slog.String("error", err.Error()))
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, status, priority, task_list_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		task.Title,
		nullableString(task.Description),
		statusToDB(task.Status),
		priorityToDB(task.Priority),
		task.TaskListID,
		nullableInt64(task.UserID),
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to insert task",
			slog.Int64("task_list_id", task.TaskListID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, selectTasks+` WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		return nil, mapNotFound(err, store.ErrTaskNotFound)
	}
	return task, nil
}

// GetAll implements store.TaskStore.GetAll
func (s *PostgresTaskStore) GetAll(ctx context.Context, page store.Page) ([]*domain.Task, error) {
	return s.query(ctx, newSelectQuery(selectTasks), page)
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    task_list_id = $5, user_id = $6, updated_at = $7
		WHERE id = $8`,
		task.Title,
		nullableString(task.Description),
		statusToDB(task.Status),
		priorityToDB(task.Priority),
		task.TaskListID,
		nullableInt64(task.UserID),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// GetByTaskListID implements store.TaskStore.GetByTaskListID
func (s *PostgresTaskStore) GetByTaskListID(
	ctx context.Context,
	taskListID int64,
	page store.Page,
) ([]*domain.Task, error) {
	return s.query(ctx, newSelectQuery(selectTasks).where("task_list_id = $%d", taskListID), page)
}

// GetByUserID implements store.TaskStore.GetByUserID
func (s *PostgresTaskStore) GetByUserID(
	ctx context.Context,
	userID int64,
	page store.Page,
) ([]*domain.Task, error) {
	return s.query(ctx, newSelectQuery(selectTasks).where("user_id = $%d", userID), page)
}

// GetByStatus implements store.TaskStore.GetByStatus
func (s *PostgresTaskStore) GetByStatus(
	ctx context.Context,
	status domain.TaskStatus,
	page store.Page,
) ([]*domain.Task, error) {
	return s.query(ctx, newSelectQuery(selectTasks).where("status = $%d", statusToDB(status)), page)
}

// GetByPriority implements store.TaskStore.GetByPriority
func (s *PostgresTaskStore) GetByPriority(
	ctx context.Context,
	priority domain.TaskPriority,
	page store.Page,
) ([]*domain.Task, error) {
	return s.query(ctx, newSelectQuery(selectTasks).where("priority = $%d", priorityToDB(priority)), page)
}

// SearchByTitle implements store.TaskStore.SearchByTitle
func (s *PostgresTaskStore) SearchByTitle(
	ctx context.Context,
	query string,
	page store.Page,
) ([]*domain.Task, error) {
	return s.query(ctx, newSelectQuery(selectTasks).where("title ILIKE $%d", containsPattern(query)), page)
}

// GetWithFilters implements store.TaskStore.GetWithFilters
func (s *PostgresTaskStore) GetWithFilters(
	ctx context.Context,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, error) {
	q := newSelectQuery(selectTasks)
	if filter.TaskListID != nil {
		q.where("task_list_id = $%d", *filter.TaskListID)
	}
	if filter.UserID != nil {
		q.where("user_id = $%d", *filter.UserID)
	}
	if filter.Status != nil {
		q.where("status = $%d", statusToDB(*filter.Status))
	}
	if filter.Priority != nil {
		q.where("priority = $%d", priorityToDB(*filter.Priority))
	}
	return s.query(ctx, q, page)
}

func (s *PostgresTaskStore) query(
	ctx context.Context,
	q *selectQuery,
	page store.Page,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlText, args := q.build(page)
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      string
		priority    string
		userID      sql.NullInt64
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&priority,
		&task.TaskListID,
		&userID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if task.Status, err = statusFromDB(status); err != nil {
		return nil, err
	}
	if task.Priority, err = priorityFromDB(priority); err != nil {
		return nil, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	if userID.Valid {
		id := userID.Int64
		task.UserID = &id
	}
	task.CreatedAt = createdAt.UTC()
	task.UpdatedAt = updatedAt.UTC()

	return &task, nil
}
