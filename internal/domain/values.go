package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length limits enforced by the value objects.
const (
	MaxTitleLength        = 200
	MaxTaskListNameLength = 100
	MaxEmailLength        = 100
	MaxDescriptionLength  = 1000
	MaxUserNameLength     = 100
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Title is a validated task title: trimmed, non-empty, at most MaxTitleLength characters.
type Title struct {
	value string
}

// NewTitle validates and normalizes a task title.
func NewTitle(raw string) (Title, error) {
	v, err := boundedText("title", raw, MaxTitleLength)
	if err != nil {
		return Title{}, err
	}
	return Title{value: v}, nil
}

// String returns the trimmed title.
func (t Title) String() string { return t.value }

// TaskListName is a validated task list name: trimmed, non-empty, at most
// MaxTaskListNameLength characters.
type TaskListName struct {
	value string
}

// NewTaskListName validates and normalizes a task list name.
func NewTaskListName(raw string) (TaskListName, error) {
	v, err := boundedText("name", raw, MaxTaskListNameLength)
	if err != nil {
		return TaskListName{}, err
	}
	return TaskListName{value: v}, nil
}

// String returns the trimmed name.
func (n TaskListName) String() string { return n.value }

// Email is a validated, lowercased email address.
type Email struct {
	value string
}

// NewEmail trims and lowercases raw and checks it has a local@domain.tld shape
// and at most MaxEmailLength characters.
func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return Email{}, NewValidationError("email", "cannot be empty", nil)
	}
	if utf8.RuneCountInString(v) > MaxEmailLength {
		return Email{}, NewValidationError("email",
			fmt.Sprintf("must be at most %d characters", MaxEmailLength), nil)
	}
	if !emailPattern.MatchString(v) {
		return Email{}, NewValidationError("email", "has invalid format", nil)
	}
	return Email{value: v}, nil
}

// String returns the normalized address.
func (e Email) String() string { return e.value }

// CompletionPercentage is a value in [0, 100].
type CompletionPercentage struct {
	value float64
}

// NewCompletionPercentage fails when v lies outside [0, 100].
func NewCompletionPercentage(v float64) (CompletionPercentage, error) {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return CompletionPercentage{}, NewValidationError("percentage", "must be between 0 and 100", nil)
	}
	return CompletionPercentage{value: v}, nil
}

// CalculateCompletionPercentage returns completed/total*100, or 0 when total is 0.
// The result is clamped to [0, 100].
func CalculateCompletionPercentage(total, completed int) CompletionPercentage {
	if total <= 0 || completed <= 0 {
		return CompletionPercentage{}
	}
	if completed >= total {
		return CompletionPercentage{value: 100}
	}
	return CompletionPercentage{value: float64(completed) / float64(total) * 100}
}

// Value returns the raw percentage.
func (p CompletionPercentage) Value() float64 { return p.value }

// Rounded returns the percentage rounded to two decimal places.
func (p CompletionPercentage) Rounded() float64 {
	return math.Round(p.value*100) / 100
}

func boundedText(field, raw string, max int) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", NewValidationError(field, "cannot be empty", nil)
	}
	if utf8.RuneCountInString(v) > max {
		return "", NewValidationError(field, fmt.Sprintf("must be at most %d characters", max), nil)
	}
	return v, nil
}

// ValidateDescription checks an optional task description. Nil is valid.
func ValidateDescription(desc *string) error {
	if desc != nil && utf8.RuneCountInString(*desc) > MaxDescriptionLength {
		return NewValidationError("description",
			fmt.Sprintf("must be at most %d characters", MaxDescriptionLength), nil)
	}
	return nil
}
