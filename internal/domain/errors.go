package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized is returned when a request carries no usable identity.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError lists one "<path>: <message>" entry per invalid field.
// The path is "root" when the payload itself is malformed.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NotFoundError is returned when no bookmark with ID exists for the caller.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bookmark with id %s not found", e.ID)
}

// InternalError signals a data-integrity violation detected while
// mapping a stored bookmark.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *InternalError) Unwrap() error { return e.Err }

// StorageError wraps a persistence failure raised by a repository backend.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err for op, or returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
