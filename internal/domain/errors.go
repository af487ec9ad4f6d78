// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// *ValidationError unwraps to it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field-level failure found while checking an input.
type ValidationError struct {
	Errors []FieldError
	cause  error
}

// NewValidationError creates a ValidationError for a single field. cause may be nil.
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
		cause:  cause,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes both ErrValidation and the optional cause to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrValidation, e.cause}
	}
	return []error{ErrValidation}
}

// Fields returns the names of all failing fields, in order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fields
}

// JoinValidation merges the field errors of every *ValidationError in errs,
// in order. Nil entries are skipped. The first error that is not a
// validation failure is returned unchanged.
func JoinValidation(errs ...error) error {
	var joined *ValidationError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		if joined == nil {
			joined = &ValidationError{}
		}
		joined.Errors = append(joined.Errors, verr.Errors...)
	}
	if joined == nil {
		return nil
	}
	return joined
}
