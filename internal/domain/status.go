package domain

import "strings"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// transitions lists the allowed successors of each status. Self-transitions
// are deliberately absent.
var transitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusCompleted},
	TaskStatusInProgress: {TaskStatusPending, TaskStatusCompleted},
	TaskStatusCompleted:  {TaskStatusPending, TaskStatusInProgress},
}

// ParseTaskStatus converts a string to a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", NewValidationError("status", "must be one of pending, in_progress, completed", ErrInvalidStatus)
	}
	return st, nil
}

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// AllowedTransitions returns the statuses reachable from s in one step.
func (s TaskStatus) AllowedTransitions() []TaskStatus {
	next := transitions[s]
	out := make([]TaskStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CompletedStatuses returns the statuses that count as done.
func CompletedStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusCompleted}
}

// ActiveStatuses returns the statuses that count as open work.
func ActiveStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress}
}

// TaskPriority ranks tasks. Priorities are totally ordered low < medium < high.
type TaskPriority string

// Task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority converts a string to a TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", NewValidationError("priority", "must be one of low, medium, high", ErrInvalidPriority)
	}
	return p, nil
}

// IsValid reports whether p is a known priority.
func (p TaskPriority) IsValid() bool {
	return p.Order() > 0
}

// Order returns 1 for low, 2 for medium, 3 for high and 0 for unknown values.
func (p TaskPriority) Order() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	default:
		return 0
	}
}

// Less reports whether p ranks below other.
func (p TaskPriority) Less(other TaskPriority) bool {
	return p.Order() < other.Order()
}
