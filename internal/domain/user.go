package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Password length bounds. bcrypt ignores input beyond 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User is a registered account. Tasks hold a non-owning reference to their
// assignee.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           *string   `json:"name"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a user from a validated email. The caller hashes the
// password before calling; the plaintext never reaches the entity.
func NewUser(email Email, name *string, hashedPassword string, now time.Time) (*User, error) {
	ts := stamp(now)
	user := &User{
		Email:          email.String(),
		Name:           normalizeName(name),
		HashedPassword: hashedPassword,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user's invariants.
func (u *User) Validate() error {
	if _, err := NewEmail(u.Email); err != nil {
		return err
	}
	if err := ValidateUserName(u.Name); err != nil {
		return err
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", nil)
	}
	return nil
}

// Rename replaces the display name. Nil clears it.
func (u *User) Rename(name *string, now time.Time) error {
	name = normalizeName(name)
	if err := ValidateUserName(name); err != nil {
		return err
	}
	u.Name = name
	u.UpdatedAt = advance(u.UpdatedAt, now)
	return nil
}

// ChangeEmail replaces the email address.
func (u *User) ChangeEmail(email Email, now time.Time) {
	u.Email = email.String()
	u.UpdatedAt = advance(u.UpdatedAt, now)
}

// HasName reports whether a non-blank display name is set.
func (u *User) HasName() bool {
	return u.Name != nil && strings.TrimSpace(*u.Name) != ""
}

// DisplayName returns the name when set, otherwise the email.
func (u *User) DisplayName() string {
	if u.HasName() {
		return *u.Name
	}
	return u.Email
}

// ValidateUserName checks an optional display name.
func ValidateUserName(name *string) error {
	if name == nil {
		return nil
	}
	n := utf8.RuneCountInString(*name)
	if n == 0 {
		return NewValidationError("name", "cannot be empty when provided", nil)
	}
	if n > MaxUserNameLength {
		return NewValidationError("name", fmt.Sprintf("must be at most %d characters", MaxUserNameLength), nil)
	}
	return nil
}

// ValidatePassword checks plaintext password length before hashing.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength), nil)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", fmt.Sprintf("must be at most %d characters", MaxPasswordLength), nil)
	}
	return nil
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	return &trimmed
}
