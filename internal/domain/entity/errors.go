package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorage is matched by every StorageError via errors.Is
	ErrStorage = errors.New("storage failure")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// FieldErrors collects validation messages keyed by form field.
// A nil or empty FieldErrors means the input is valid.
//
// It satisfies error so use cases can return it through the regular error
// path; callers recover the map with errors.As.
type FieldErrors map[string]string

// Valid reports whether no validation message was recorded.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Error joins the messages in field order.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// StorageError reports a failed read or write against the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

// Error returns the operation and the driver error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps a driver error raised by the named repository step.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
