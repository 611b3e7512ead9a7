// Package domain holds the error taxonomy shared by every domain package
// and the storage layer.
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError reports a rejected input field. It matches ErrInvalidArgument
// under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e FieldError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Invalid builds a FieldError.
func Invalid(field, message string) error {
	return FieldError{Field: field, Message: message}
}
