package api

import (
	"time"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/service"
)

// Auth

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string  `json:"email"    validate:"required,email"`
	Name     *string `json:"name"     validate:"omitempty,max=100"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the JSON payload for the login endpoint. Form
// submissions use the username and password fields instead.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse defines the successful response for the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Users

// UpdateUserRequest defines the payload for updating the current user.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Name  *string `json:"name"  validate:"omitempty,max=100"`
}

// UserResponse is the public view of a user. The password hash is never exposed.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task lists

// TaskListRequest defines the payload for creating or renaming a task list.
type TaskListRequest struct {
	Name string `json:"name" validate:"required"`
}

// TaskListResponse is the public view of a task list.
type TaskListResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tasks

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"        validate:"required"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"     validate:"omitempty,oneof=low medium high"`
	TaskListID  int64   `json:"task_list_id" validate:"required,gt=0"`
	UserID      *int64  `json:"user_id"      validate:"omitempty,gt=0"`
}

// UpdateTaskRequest defines the payload for updating a task. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	UserID      *int64  `json:"user_id"  validate:"omitempty,gt=0"`
}

// StatusUpdateRequest defines the payload for changing a task's status.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignTaskRequest defines the payload for assigning a task.
type AssignTaskRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	TaskListID  int64     `json:"task_list_id"`
	UserID      *int64    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PaginationResponse echoes the window applied to a listing.
type PaginationResponse struct {
	Skip     int `json:"skip"`
	Limit    int `json:"limit"`
	Returned int `json:"returned"`
}

// TaskListTasksResponse is the scoped listing of one task list's tasks
// together with the list's completion figures.
type TaskListTasksResponse struct {
	Tasks           []TaskResponse     `json:"tasks"`
	Total           int                `json:"total"`
	Completed       int                `json:"completed"`
	PercentComplete float64            `json:"percent_complete"`
	Pagination      PaginationResponse `json:"pagination"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func usersToResponse(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}

func taskListToResponse(l *domain.TaskList) TaskListResponse {
	return TaskListResponse{
		ID:        l.ID,
		Name:      l.Name,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func taskListsToResponse(lists []*domain.TaskList) []TaskListResponse {
	out := make([]TaskListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, taskListToResponse(l))
	}
	return out
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		TaskListID:  t.TaskListID,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func taskListPageToResponse(p *service.TaskListPage) TaskListTasksResponse {
	return TaskListTasksResponse{
		Tasks:           tasksToResponse(p.Tasks),
		Total:           p.Total,
		Completed:       p.Completed,
		PercentComplete: p.PercentComplete,
		Pagination: PaginationResponse{
			Skip:     p.Page.Skip,
			Limit:    p.Page.Limit,
			Returned: p.Returned(),
		},
	}
}
