package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore. Function fields override
// the default behavior when set.
type MockTaskStore struct {
	calls

	CreateFn         func(ctx context.Context, task *domain.Task) error
	GetByIDFn        func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateFn         func(ctx context.Context, task *domain.Task) error
	DeleteFn         func(ctx context.Context, id int64) error
	GetWithFiltersFn func(ctx context.Context, filter store.TaskFilter, page store.Page) ([]*domain.Task, error)

	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty MockTaskStore.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[int64]*domain.Task)}
}

// Seed stores task as-is, assigning an ID when it has none.
func (m *MockTaskStore) Seed(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tasks {
		if t.ID == 0 {
			m.nextID++
			t.ID = m.nextID
		} else if t.ID > m.nextID {
			m.nextID = t.ID
		}
		m.tasks[t.ID] = copyTask(t)
	}
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	task.ID = m.nextID
	m.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(t), nil
}

// GetAll implements store.TaskStore.
func (m *MockTaskStore) GetAll(ctx context.Context, page store.Page) ([]*domain.Task, error) {
	m.record("GetAll")
	return m.filter(store.TaskFilter{}, page), nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	m.tasks[task.ID] = copyTask(task)
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// GetByTaskListID implements store.TaskStore.
func (m *MockTaskStore) GetByTaskListID(
	ctx context.Context,
	taskListID int64,
	page store.Page,
) ([]*domain.Task, error) {
	m.record("GetByTaskListID")
	return m.filter(store.TaskFilter{TaskListID: &taskListID}, page), nil
}

// GetByUserID implements store.TaskStore.
func (m *MockTaskStore) GetByUserID(ctx context.Context, userID int64, page store.Page) ([]*domain.Task, error) {
	m.record("GetByUserID")
	return m.filter(store.TaskFilter{UserID: &userID}, page), nil
}

// GetByStatus implements store.TaskStore.
func (m *MockTaskStore) GetByStatus(
	ctx context.Context,
	status domain.TaskStatus,
	page store.Page,
) ([]*domain.Task, error) {
	m.record("GetByStatus")
	return m.filter(store.TaskFilter{Status: &status}, page), nil
}

// GetByPriority implements store.TaskStore.
func (m *MockTaskStore) GetByPriority(
	ctx context.Context,
	priority domain.TaskPriority,
	page store.Page,
) ([]*domain.Task, error) {
	m.record("GetByPriority")
	return m.filter(store.TaskFilter{Priority: &priority}, page), nil
}

// SearchByTitle implements store.TaskStore.
func (m *MockTaskStore) SearchByTitle(ctx context.Context, query string, page store.Page) ([]*domain.Task, error) {
	m.record("SearchByTitle")

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Task
	for _, id := range sortedKeys(m.tasks) {
		if containsFold(m.tasks[id].Title, query) {
			out = append(out, copyTask(m.tasks[id]))
		}
	}
	return store.Apply(out, page), nil
}

// GetWithFilters implements store.TaskStore.
func (m *MockTaskStore) GetWithFilters(
	ctx context.Context,
	filter store.TaskFilter,
	page store.Page,
) ([]*domain.Task, error) {
	m.record("GetWithFilters")
	if m.GetWithFiltersFn != nil {
		return m.GetWithFiltersFn(ctx, filter, page)
	}
	return m.filter(filter, page), nil
}

// WithTx returns the same store; the in-memory store has no transactions.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func (m *MockTaskStore) filter(filter store.TaskFilter, page store.Page) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Task
	for _, id := range sortedKeys(m.tasks) {
		if filter.Matches(m.tasks[id]) {
			out = append(out, copyTask(m.tasks[id]))
		}
	}
	return store.Apply(out, page)
}

func (m *MockTaskStore) deleteByTaskList(taskListID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tasks {
		if t.TaskListID == taskListID {
			delete(m.tasks, id)
		}
	}
}

func (m *MockTaskStore) clearAssignee(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.IsAssignedTo(userID) {
			t.UserID = nil
		}
	}
}
