package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// MockUserStore implements store.UserStore in memory with unique emails.
type MockUserStore struct {
	calls

	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id int64) (*domain.User, error)

	// Tasks, when set, has assignments cleared when a user is deleted.
	Tasks *MockTaskStore

	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[int64]*domain.User)}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(user.Email, 0) {
		return store.ErrEmailExists
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetAll implements the UserStore interface
func (m *MockUserStore) GetAll(ctx context.Context, page store.Page) ([]*domain.User, error) {
	m.record("GetAll")
	return m.collect(func(*domain.User) bool { return true }, page), nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.record("Update")

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return store.ErrEmailExists
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")

	m.mu.Lock()
	if _, ok := m.users[id]; !ok {
		m.mu.Unlock()
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	m.mu.Unlock()

	if m.Tasks != nil {
		m.Tasks.clearAssignee(id)
	}
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.record("GetByEmail")
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// SearchByName implements the UserStore interface
func (m *MockUserStore) SearchByName(ctx context.Context, query string, page store.Page) ([]*domain.User, error) {
	m.record("SearchByName")
	return m.collect(func(u *domain.User) bool {
		return u.Name != nil && containsFold(*u.Name, query)
	}, page), nil
}

// WithTx implements the UserStore interface
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

func (m *MockUserStore) emailTaken(email string, exceptID int64) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (m *MockUserStore) collect(keep func(*domain.User) bool, page store.Page) []*domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, id := range sortedKeys(m.users) {
		if keep(m.users[id]) {
			out = append(out, copyUser(m.users[id]))
		}
	}
	return store.Apply(out, page)
}
