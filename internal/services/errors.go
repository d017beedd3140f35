package services

import (
	"errors"
	"fmt"

	"storefront/internal/repositories"
	"storefront/internal/validation"
)

// ValidationError is a client error on a single request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing record, either the target of the request
// or a record it references. Field is set for references.
type NotFoundError struct {
	Resource string
	ID       int64
	Field    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// StorageError wraps an unexpected failure of the store. Its message is the
// underlying error's message.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrNothingToUpdate is the message of the validation error returned for an
// update request without any recognised field.
const ErrNothingToUpdate = "provide at least one field to update"

func fieldError(ferr *validation.FieldError) error {
	return &ValidationError{Field: ferr.Field, Message: ferr.Reason}
}

// lookupError classifies an error from a lookup by id.
func lookupError(err error, resource string, id int64, field string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id, Field: field}
	}
	return &StorageError{Err: err}
}
