package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "id", Message: "must be positive"}
	assert.Equal(t, "validation error on field 'id': must be positive", err.Error())

	var target *ValidationError
	wrapped := fmt.Errorf("Update: %w", err)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "id", target.Field)
}

func TestFieldErrors(t *testing.T) {
	var none FieldErrors
	assert.True(t, none.Valid())
	assert.True(t, FieldErrors{}.Valid())

	fe := FieldErrors{
		"title": "no text for title given",
		"url":   "param URL required but not given",
	}
	assert.False(t, fe.Valid())
	assert.Equal(t,
		"invalid input: title: no text for title given; url: param URL required but not given",
		fe.Error())

	var target FieldErrors
	assert.True(t, errors.As(fmt.Errorf("Create: %w", error(fe)), &target))
	assert.Equal(t, "no text for title given", target["title"])
}

func TestStorageError(t *testing.T) {
	driverErr := errors.New("connection reset by peer")
	err := NewStorageError("List: QueryContext", driverErr)

	assert.Equal(t, "List: QueryContext: connection reset by peer", err.Error())
	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, driverErr))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("service: %w", err)
	assert.True(t, errors.Is(wrapped, ErrStorage))

	var se *StorageError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "List: QueryContext", se.Op)
}

func TestSentinelErrors(t *testing.T) {
	assert.NotEqual(t, ErrNotFound, ErrInvalidInput)
	assert.True(t, errors.Is(fmt.Errorf("Edit: source 4: %w", ErrNotFound), ErrNotFound))
}
