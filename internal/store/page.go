package store

import (
	"strconv"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// Pagination defaults and bounds.
const (
	DefaultSkip  = 0
	DefaultLimit = 100

	// MaxLimit bounds user, task list and search listings.
	MaxLimit = 100

	// MaxTaskListScopedLimit bounds task listings, scoped to one list or not.
	MaxTaskListScopedLimit = 1000
)

// Page is an offset-based window. A zero Limit means no limit.
type Page struct {
	Skip  int
	Limit int
}

// Unbounded selects every row.
var Unbounded = Page{}

// DefaultPage returns skip=0, limit=100.
func DefaultPage() Page {
	return Page{Skip: DefaultSkip, Limit: DefaultLimit}
}

// Validate checks 0 <= Skip and 1 <= Limit <= maxLimit.
func (p Page) Validate(maxLimit int) error {
	if p.Skip < 0 {
		return domain.NewValidationError("skip", "must be zero or greater", nil)
	}
	if p.Limit < 1 || p.Limit > maxLimit {
		return domain.NewValidationError("limit", "must be between 1 and "+strconv.Itoa(maxLimit), nil)
	}
	return nil
}

// Apply slices items to the window. It is used by in-memory stores.
func Apply[T any](items []T, p Page) []T {
	if p.Skip >= len(items) {
		return []T{}
	}
	items = items[p.Skip:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// TaskFilter holds optional equality filters combined with AND.
// A nil field places no constraint.
type TaskFilter struct {
	TaskListID *int64
	UserID     *int64
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
}

// Matches reports whether task satisfies every set field.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if f.TaskListID != nil && task.TaskListID != *f.TaskListID {
		return false
	}
	if f.UserID != nil && !task.IsAssignedTo(*f.UserID) {
		return false
	}
	if f.Status != nil && task.Status != *f.Status {
		return false
	}
	if f.Priority != nil && task.Priority != *f.Priority {
		return false
	}
	return true
}
