package services

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password. The two cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// NotFoundError reports a missing resource, or one owned by somebody else.
type NotFoundError struct {
	Resource string
	Key      any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id: '%v' not found.", e.Resource, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(resource string, key any) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError reports an unacceptable request payload or parameter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
