package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: "Fix bug", want: "Fix bug"},
		{name: "trims whitespace", input: "  Fix bug \t", want: "Fix bug"},
		{name: "exactly max length", input: strings.Repeat("a", MaxTitleLength), want: strings.Repeat("a", MaxTitleLength)},
		{name: "multibyte at max length", input: strings.Repeat("é", MaxTitleLength), want: strings.Repeat("é", MaxTitleLength)},
		{name: "empty", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "one over max length", input: strings.Repeat("a", MaxTitleLength+1), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			title, err := NewTitle(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, title.String())
		})
	}
}

func TestNewTaskListName(t *testing.T) {
	name, err := NewTaskListName("  Sprint 1  ")
	require.NoError(t, err)
	assert.Equal(t, "Sprint 1", name.String())

	_, err = NewTaskListName(strings.Repeat("n", MaxTaskListNameLength))
	assert.NoError(t, err)

	_, err = NewTaskListName(strings.Repeat("n", MaxTaskListNameLength+1))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewTaskListName(" ")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestNewEmail(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "user@example.com", want: "user@example.com"},
		{input: "  User@Example.COM ", want: "user@example.com"},
		{input: "a@b.c", want: "a@b.c"},
		{input: "", wantErr: true},
		{input: "no-at-sign.com", wantErr: true},
		{input: "user@nodot", wantErr: true},
		{input: "two@@example.com", wantErr: true},
		{input: strings.Repeat("a", 95) + "@x.com", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			email, err := NewEmail(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, email.String())
		})
	}
}

func TestCalculateCompletionPercentage(t *testing.T) {
	assert.Equal(t, 0.0, CalculateCompletionPercentage(0, 0).Value())
	assert.Equal(t, 50.0, CalculateCompletionPercentage(4, 2).Value())
	assert.Equal(t, 100.0, CalculateCompletionPercentage(3, 3).Value())
	assert.Equal(t, 33.33, CalculateCompletionPercentage(3, 1).Rounded())
	assert.Equal(t, 66.67, CalculateCompletionPercentage(3, 2).Rounded())
}

func TestNewCompletionPercentage(t *testing.T) {
	for _, v := range []float64{0, 12.5, 100} {
		p, err := NewCompletionPercentage(v)
		require.NoError(t, err)
		assert.Equal(t, v, p.Value())
	}

	for _, v := range []float64{-0.01, 100.01} {
		_, err := NewCompletionPercentage(v)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestValidateDescription(t *testing.T) {
	assert.NoError(t, ValidateDescription(nil))

	ok := strings.Repeat("d", MaxDescriptionLength)
	assert.NoError(t, ValidateDescription(&ok))

	tooLong := ok + "d"
	assert.ErrorIs(t, ValidateDescription(&tooLong), ErrValidation)
}
