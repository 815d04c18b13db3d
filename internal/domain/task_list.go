package domain

import "time"

// TaskList groups tasks under a unique name. Deleting a list deletes its tasks.
type TaskList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskList creates a task list. The ID is assigned by the store.
func NewTaskList(name TaskListName, now time.Time) *TaskList {
	ts := stamp(now)
	return &TaskList{
		Name:      name.String(),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Validate checks the list's invariants.
func (l *TaskList) Validate() error {
	if _, err := NewTaskListName(l.Name); err != nil {
		return err
	}
	if l.UpdatedAt.Before(l.CreatedAt) {
		return NewValidationError("updated_at", "cannot be before created_at", nil)
	}
	return nil
}

// Rename replaces the list name.
func (l *TaskList) Rename(name TaskListName, now time.Time) {
	l.Name = name.String()
	l.UpdatedAt = advance(l.UpdatedAt, now)
}

// TaskListProgress summarizes completion across every task in a list.
type TaskListProgress struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	PercentComplete float64 `json:"percent_complete"`
}

// CalculateProgress counts tasks and completed tasks and derives the
// percentage rounded to two decimals.
func CalculateProgress(tasks []*Task) TaskListProgress {
	completed := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			completed++
		}
	}
	return TaskListProgress{
		Total:           len(tasks),
		Completed:       completed,
		PercentComplete: CalculateCompletionPercentage(len(tasks), completed).Rounded(),
	}
}

// IsEmpty reports whether the list has no tasks.
func (p TaskListProgress) IsEmpty() bool {
	return p.Total == 0
}

// IsFullyCompleted reports whether the list has tasks and all of them are done.
func (p TaskListProgress) IsFullyCompleted() bool {
	return p.Total > 0 && p.Completed == p.Total
}
