package mocks

import (
	"sort"
	"strings"
	"sync"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// calls records which store methods were invoked.
type calls struct {
	mu    sync.Mutex
	names []string
}

func (c *calls) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
}

// CallCount returns how many times method was invoked.
func (c *calls) CallCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, name := range c.names {
		if name == method {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of recorded invocations.
func (c *calls) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}

// NewMockStores returns linked in-memory stores. Deleting a task list
// removes its tasks and deleting a user clears their assignments, matching
// the foreign keys of the Postgres schema.
func NewMockStores() (*MockTaskStore, *MockTaskListStore, *MockUserStore) {
	tasks := NewMockTaskStore()
	lists := NewMockTaskListStore()
	users := NewMockUserStore()
	lists.Tasks = tasks
	users.Tasks = tasks
	return tasks, lists, users
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.UserID != nil {
		u := *t.UserID
		c.UserID = &u
	}
	return &c
}

func copyTaskList(l *domain.TaskList) *domain.TaskList {
	c := *l
	return &c
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.Name != nil {
		n := *u.Name
		c.Name = &n
	}
	return &c
}

// sortedKeys returns map keys in ascending order, mirroring ORDER BY id.
func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// containsFold mirrors ILIKE '%query%'.
func containsFold(s, query string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}
