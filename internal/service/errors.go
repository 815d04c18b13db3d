// Package service provides the application use cases for tasks, task lists and users.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// Error handling principles:
// 1. Expected conditions (not found, duplicate, validation, invalid transition)
//    are returned unchanged so callers can use errors.Is on the sentinels.
// 2. Unexpected errors are wrapped in a *ServiceError naming the operation.
// 3. The API layer maps both to HTTP status codes.

// ServiceError wraps an unexpected failure inside a service operation.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	prefix := fmt.Sprintf("%s service %s operation failed", e.Service, e.Operation)
	if e.Message != "" {
		prefix += ": " + e.Message
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// isExpected reports whether err is a condition callers are meant to handle.
func isExpected(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidTransition)
}

// wrapError passes expected errors through and wraps the rest.
func wrapError(service, operation, message string, err error) error {
	if err == nil || isExpected(err) {
		return err
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return NewServiceError(service, operation, message, err)
}
