package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every store implementation. Entity-specific
// variants wrap the generic ones so callers can match at either level.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicate         = errors.New("entity already exists")
	ErrInvalidEntity     = errors.New("invalid entity")
	ErrTransactionFailed = errors.New("transaction failed")

	ErrTaskNotFound     = fmt.Errorf("%w: task", ErrNotFound)
	ErrTaskListNotFound = fmt.Errorf("%w: task list", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskListNameExists is returned when another list already has the name.
	ErrTaskListNameExists = fmt.Errorf("%w: task list name", ErrDuplicate)
	// ErrEmailExists is returned when another user already has the email.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is any of the not-found sentinels.
func IsNotFoundError(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicateError reports whether err is any of the uniqueness sentinels.
func IsDuplicateError(err error) bool { return errors.Is(err, ErrDuplicate) }
