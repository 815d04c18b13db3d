package domain

import "time"

// Task is a unit of work that belongs to exactly one TaskList and may be
// assigned to a User.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	TaskListID  int64        `json:"task_list_id"`
	UserID      *int64       `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a pending task in the given list. The ID is assigned by the
// store on creation. An empty priority defaults to medium.
func NewTask(
	title Title,
	description *string,
	priority TaskPriority,
	taskListID int64,
	now time.Time,
) (*Task, error) {
	if priority == "" {
		priority = TaskPriorityMedium
	}
	ts := stamp(now)
	task := &Task{
		Title:       title.String(),
		Description: description,
		Status:      TaskStatusPending,
		Priority:    priority,
		TaskListID:  taskListID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task's invariants.
func (t *Task) Validate() error {
	if _, err := NewTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", "is not a valid status", ErrInvalidStatus)
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", "is not a valid priority", ErrInvalidPriority)
	}
	if t.TaskListID <= 0 {
		return NewValidationError("task_list_id", "is required", ErrInvalidID)
	}
	if t.UserID != nil && *t.UserID <= 0 {
		return NewValidationError("user_id", "must be positive", ErrInvalidID)
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updated_at", "cannot be before created_at", nil)
	}
	return nil
}

// ChangeStatus moves the task to next if the transition table allows it.
// On failure the task is left untouched.
func (t *Task) ChangeStatus(next TaskStatus, now time.Time) error {
	if !next.IsValid() {
		return NewValidationError("status", "is not a valid status", ErrInvalidStatus)
	}
	if !t.Status.CanTransitionTo(next) {
		return &TransitionError{From: t.Status, To: next}
	}
	t.Status = next
	t.touch(now)
	return nil
}

// AssignToUser sets the assignee and returns the previous one, if any.
// User existence is the caller's concern.
func (t *Task) AssignToUser(userID int64, now time.Time) (previous *int64) {
	previous = t.UserID
	id := userID
	t.UserID = &id
	t.touch(now)
	return previous
}

// UnassignUser clears the assignee and returns the previous one, if any.
func (t *Task) UnassignUser(now time.Time) (previous *int64) {
	previous = t.UserID
	t.UserID = nil
	t.touch(now)
	return previous
}

// UpdateTitle replaces the title.
func (t *Task) UpdateTitle(title Title, now time.Time) {
	t.Title = title.String()
	t.touch(now)
}

// UpdateDescription replaces the description. Nil clears it.
func (t *Task) UpdateDescription(description *string, now time.Time) error {
	if err := ValidateDescription(description); err != nil {
		return err
	}
	t.Description = description
	t.touch(now)
	return nil
}

// ChangePriority replaces the priority.
func (t *Task) ChangePriority(priority TaskPriority, now time.Time) error {
	if !priority.IsValid() {
		return NewValidationError("priority", "is not a valid priority", ErrInvalidPriority)
	}
	t.Priority = priority
	t.touch(now)
	return nil
}

// IsCompleted reports whether the task is done.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsAssigned reports whether the task has an assignee.
func (t *Task) IsAssigned() bool {
	return t.UserID != nil
}

// IsAssignedTo reports whether the task is assigned to userID.
func (t *Task) IsAssignedTo(userID int64) bool {
	return t.UserID != nil && *t.UserID == userID
}

func (t *Task) touch(now time.Time) {
	t.UpdatedAt = advance(t.UpdatedAt, now)
}
