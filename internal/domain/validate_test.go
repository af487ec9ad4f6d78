package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	assert.NoError(t, Collect())
	assert.NoError(t, Collect(Required("a", "x", "a missing")))

	err := Collect(
		Required("a", "", "a missing"),
		Required("b", "ok", "b missing"),
		MaxLength("c", "toolong", 3, "c too long"),
	)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{
		{Field: "a", Message: "a missing"},
		{Field: "c", Message: "c too long"},
	}, verr.Errors)
	assert.Equal(t, "validation failed: a: a missing; c: c too long", err.Error())
}

func TestRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		fail bool
	}{
		{"required blank", Required("f", " \t", "m"), true},
		{"length empty passes", LengthBetween("f", "", 2, 5, "m"), false},
		{"length too short", LengthBetween("f", "a", 2, 5, "m"), true},
		{"length runes", LengthBetween("f", "ééééé", 2, 5, "m"), false},
		{"min length", MinLength("f", "abc", 4, "m"), true},
		{"max bytes", MaxBytes("f", "éé", 3, "m"), true},
		{"one of", OneOf("f", "b", []string{"a", "b"}, "m"), false},
		{"not one of", OneOf("f", "z", []string{"a", "b"}, "m"), true},
		{"email ok", ValidEmail("f", "a.b@c.io"), false},
		{"email display name", ValidEmail("f", "Bob <bob@c.io>"), true},
		{"email trailing dot", ValidEmail("f", "bob@c."), true},
		{"email no domain dot", ValidEmail("f", "bob@localhost"), true},
		{"email missing at", ValidEmail("f", "bob.example.com"), true},
		{"max length runes", MaxLength("f", "ééé", 3, "m"), false},
		{"max length exceeded", MaxLength("f", "abcd", 3, "m"), true},
		{"one of empty", OneOf("f", "", []string{"a", "b"}, "m"), true},
		{"one of hyphenated", OneOf("f", TaskStatusInProgress, TaskStatuses, "m"), false},
		{"non-ascii digit", ContainsDigit("f", "abc٣", "m"), true},
		{"digit", ContainsDigit("f", "abc9", "m"), false},
		{"no digit", ContainsDigit("f", "abc", "m"), true},
		{"when false", When(false, Fail("f", "m")), false},
		{"when true", When(true, Fail("f", "m")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fail, tt.rule() != nil)
		})
	}
}

func TestNewValidationError(t *testing.T) {
	cause := errors.New("bad uuid")
	err := NewValidationError("id", "Invalid task ID", cause)

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []FieldError{{Field: "id", Message: "Invalid task ID"}}, err.Errors)

	wrapped := errors.Join(errors.New("context"), NewValidationError("x", "y", nil))
	var verr *ValidationError
	require.ErrorAs(t, wrapped, &verr)
	assert.Equal(t, []string{"x"}, verr.Fields())
}

func TestJoinValidation(t *testing.T) {
	assert.NoError(t, JoinValidation(nil, nil))

	joined := JoinValidation(
		NewValidationError("dueDate", "Invalid date format", nil),
		nil,
		Collect(Fail("title", "Task title is required"), Fail("status", "Invalid status value")),
	)
	var verr *ValidationError
	require.ErrorAs(t, joined, &verr)
	assert.Equal(t, []string{"dueDate", "title", "status"}, verr.Fields())
	assert.ErrorIs(t, joined, ErrValidation)

	other := errors.New("boom")
	assert.Same(t, other, JoinValidation(NewValidationError("x", "y", nil), other))
}
