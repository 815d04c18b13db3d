package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// MockTaskListStore is an in-memory store.TaskListStore enforcing unique names.
type MockTaskListStore struct {
	calls

	CreateFn func(ctx context.Context, list *domain.TaskList) error
	UpdateFn func(ctx context.Context, list *domain.TaskList) error

	// Tasks, when set, receives cascading deletes.
	Tasks *MockTaskStore

	mu     sync.Mutex
	lists  map[int64]*domain.TaskList
	nextID int64
}

var _ store.TaskListStore = (*MockTaskListStore)(nil)

// NewMockTaskListStore creates an empty MockTaskListStore.
func NewMockTaskListStore() *MockTaskListStore {
	return &MockTaskListStore{lists: make(map[int64]*domain.TaskList)}
}

// Create implements store.TaskListStore.
func (m *MockTaskListStore) Create(ctx context.Context, list *domain.TaskList) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, list)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(list.Name, 0) {
		return store.ErrTaskListNameExists
	}
	m.nextID++
	list.ID = m.nextID
	m.lists[list.ID] = copyTaskList(list)
	return nil
}

// GetByID implements store.TaskListStore.
func (m *MockTaskListStore) GetByID(ctx context.Context, id int64) (*domain.TaskList, error) {
	m.record("GetByID")

	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return nil, store.ErrTaskListNotFound
	}
	return copyTaskList(l), nil
}

// GetAll implements store.TaskListStore.
func (m *MockTaskListStore) GetAll(ctx context.Context, page store.Page) ([]*domain.TaskList, error) {
	m.record("GetAll")
	return m.collect(func(*domain.TaskList) bool { return true }, page), nil
}

// Update implements store.TaskListStore.
func (m *MockTaskListStore) Update(ctx context.Context, list *domain.TaskList) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, list)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[list.ID]; !ok {
		return store.ErrTaskListNotFound
	}
	if m.nameTaken(list.Name, list.ID) {
		return store.ErrTaskListNameExists
	}
	m.lists[list.ID] = copyTaskList(list)
	return nil
}

// Delete implements store.TaskListStore.
func (m *MockTaskListStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")

	m.mu.Lock()
	if _, ok := m.lists[id]; !ok {
		m.mu.Unlock()
		return store.ErrTaskListNotFound
	}
	delete(m.lists, id)
	m.mu.Unlock()

	if m.Tasks != nil {
		m.Tasks.deleteByTaskList(id)
	}
	return nil
}

// GetByName implements store.TaskListStore.
func (m *MockTaskListStore) GetByName(ctx context.Context, name string) (*domain.TaskList, error) {
	m.record("GetByName")

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range sortedKeys(m.lists) {
		if m.lists[id].Name == name {
			return copyTaskList(m.lists[id]), nil
		}
	}
	return nil, store.ErrTaskListNotFound
}

// SearchByName implements store.TaskListStore.
func (m *MockTaskListStore) SearchByName(
	ctx context.Context,
	query string,
	page store.Page,
) ([]*domain.TaskList, error) {
	m.record("SearchByName")
	return m.collect(func(l *domain.TaskList) bool { return containsFold(l.Name, query) }, page), nil
}

// WithTx returns the same store.
func (m *MockTaskListStore) WithTx(tx *sql.Tx) store.TaskListStore {
	return m
}

func (m *MockTaskListStore) nameTaken(name string, exceptID int64) bool {
	for id, l := range m.lists {
		if id != exceptID && l.Name == name {
			return true
		}
	}
	return false
}

func (m *MockTaskListStore) collect(keep func(*domain.TaskList) bool, page store.Page) []*domain.TaskList {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.TaskList
	for _, id := range sortedKeys(m.lists) {
		if keep(m.lists[id]) {
			out = append(out, copyTaskList(m.lists[id]))
		}
	}
	return store.Apply(out, page)
}
