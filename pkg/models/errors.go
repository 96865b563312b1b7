package models

import (
	"errors"
	"fmt"
)

// Application errors. Callers match them with errors.Is.
var (
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrDuplicateSubjectName = errors.New("subject already exists")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrExternalService      = errors.New("external service error")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid is a shorthand for building a ValidationError
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
