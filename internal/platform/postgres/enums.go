package postgres

import (
	"fmt"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// Column values for tasks.status and tasks.priority. They are kept apart
// from the domain constants so a rename on either side fails loudly here.
var (
	statusColumnValues = map[domain.TaskStatus]string{
		domain.TaskStatusPending:    "pending",
		domain.TaskStatusInProgress: "in_progress",
		domain.TaskStatusCompleted:  "completed",
	}
	priorityColumnValues = map[domain.TaskPriority]string{
		domain.TaskPriorityLow:    "low",
		domain.TaskPriorityMedium: "medium",
		domain.TaskPriorityHigh:   "high",
	}
)

func statusToDB(s domain.TaskStatus) string {
	if v, ok := statusColumnValues[s]; ok {
		return v
	}
	return string(s)
}

func statusFromDB(v string) (domain.TaskStatus, error) {
	for s, col := range statusColumnValues {
		if col == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown task status %q", store.ErrInvalidEntity, v)
}

func priorityToDB(p domain.TaskPriority) string {
	if v, ok := priorityColumnValues[p]; ok {
		return v
	}
	return string(p)
}

func priorityFromDB(v string) (domain.TaskPriority, error) {
	for p, col := range priorityColumnValues {
		if col == v {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown task priority %q", store.ErrInvalidEntity, v)
}
