package notification

import (
	"fmt"
	"strings"

	"github.com/phrazzld/tasklist-api/internal/domain"
)

// Event types emitted by the Notifier. They double as broker routing keys.
const (
	EventTaskAssigned      = "task.assigned"
	EventTaskUnassigned    = "task.unassigned"
	EventTaskStatusChanged = "task.status_changed"
)

// Email is the payload carried by every notification event.
type Email struct {
	To        string             `json:"to"`
	Subject   string             `json:"subject"`
	Body      string             `json:"body"`
	TaskID    int64              `json:"task_id"`
	UserID    int64              `json:"user_id"`
	OldStatus *domain.TaskStatus `json:"old_status,omitempty"`
	NewStatus *domain.TaskStatus `json:"new_status,omitempty"`
}

const signature = "Best regards,\nTask Management System\n"

func assignmentEmail(task *domain.Task, user *domain.User) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.DisplayName())
	b.WriteString("You have been assigned a new task:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", task.Title)
	fmt.Fprintf(&b, "Description: %s\n", describe(task))
	fmt.Fprintf(&b, "Status: %s\n", task.Status)
	fmt.Fprintf(&b, "Priority: %s\n\n", task.Priority)
	b.WriteString("Please log in to the task management system to view more details.\n\n")
	b.WriteString(signature)

	return Email{
		To:      user.Email,
		Subject: "New Task Assigned: " + task.Title,
		Body:    b.String(),
		TaskID:  task.ID,
		UserID:  user.ID,
	}
}

func unassignmentEmail(task *domain.Task, user *domain.User) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.DisplayName())
	b.WriteString("The following task has been unassigned from you:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", task.Title)
	fmt.Fprintf(&b, "Description: %s\n\n", describe(task))
	b.WriteString("If you have any questions, please contact your project manager.\n\n")
	b.WriteString(signature)

	return Email{
		To:      user.Email,
		Subject: "Task Unassigned: " + task.Title,
		Body:    b.String(),
		TaskID:  task.ID,
		UserID:  user.ID,
	}
}

func statusChangeEmail(task *domain.Task, oldStatus domain.TaskStatus, user *domain.User) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.DisplayName())
	b.WriteString("The status of your assigned task has been updated:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", task.Title)
	fmt.Fprintf(&b, "Previous Status: %s\n", oldStatus)
	fmt.Fprintf(&b, "New Status: %s\n\n", task.Status)
	b.WriteString("Please log in to the task management system to view more details.\n\n")
	b.WriteString(signature)

	newStatus := task.Status
	return Email{
		To:        user.Email,
		Subject:   "Task Status Updated: " + task.Title,
		Body:      b.String(),
		TaskID:    task.ID,
		UserID:    user.ID,
		OldStatus: &oldStatus,
		NewStatus: &newStatus,
	}
}

func describe(task *domain.Task) string {
	if task.Description == nil || strings.TrimSpace(*task.Description) == "" {
		return "No description provided"
	}
	return *task.Description
}
