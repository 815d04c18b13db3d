package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/service"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/phrazzld/tasklist-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrUserNotFound), http.StatusNotFound},
		{"list name exists", store.ErrTaskListNameExists, http.StatusConflict},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"validation", domain.NewValidationError("title", "cannot be empty", nil), http.StatusBadRequest},
		{"invalid status", domain.NewValidationError("status", "bad", domain.ErrInvalidStatus), http.StatusBadRequest},
		{"transition", &domain.TransitionError{From: domain.TaskStatusPending, To: domain.TaskStatusPending}, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"service error", service.NewServiceError("task", "create", "boom", errors.New("db down")), http.StatusInternalServerError},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"expired", auth.ErrExpiredToken, "Token has expired"},
		{"invalid token", auth.ErrInvalidToken, "Could not validate credentials"},
		{"credentials", auth.ErrInvalidCredentials, "Incorrect email or password"},
		{"task", store.ErrTaskNotFound, "Task not found"},
		{"list", store.ErrTaskListNotFound, "Task list not found"},
		{"user", store.ErrUserNotFound, "User not found"},
		{"generic not found", store.ErrNotFound, "Resource not found"},
		{"list name", store.ErrTaskListNameExists, "Task list with this name already exists"},
		{"email", store.ErrEmailExists, "Email already registered"},
		{
			"transition",
			&domain.TransitionError{From: domain.TaskStatusCompleted, To: domain.TaskStatusCompleted},
			"Cannot change status from completed to completed",
		},
		{"validation", domain.NewValidationError("title", "cannot be empty", nil), "Invalid title: cannot be empty"},
		{"internal detail hidden", errors.New("pq: relation \"tasks\" does not exist"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
		Name  string `validate:"max=3"`
	}

	err := shared.ValidateRequest(&req{Email: "bad", Name: "ok"})
	assert.Equal(t, "Invalid email: invalid email format", SanitizeValidationError(err))

	err = shared.ValidateRequest(&req{Email: "a@b.co", Name: "toolong"})
	assert.Equal(t, "Invalid name: too long", SanitizeValidationError(err))

	legacy := errors.New("Key: 'X.Title' Error:Field validation for 'Title' failed on the 'required' tag")
	assert.Equal(t, "Invalid title: required field", SanitizeValidationError(legacy))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}

func TestHandleAPIError(t *testing.T) {
	t.Run("internal error uses fallback", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(rr, req, errors.New("postgres://user:secret@db/tasks unreachable"), "Failed to get task")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to get task", errorBody(t, rr).Error)
		assert.NotContains(t, rr.Body.String(), "secret")
	})

	t.Run("unauthorized sets challenge", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(rr, req, auth.ErrInvalidCredentials, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("known error ignores fallback", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(rr, req, store.ErrTaskNotFound, "Failed to get task")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Task not found", errorBody(t, rr).Error)
	})
}
