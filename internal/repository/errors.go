package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when an insert violates a uniqueness constraint.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrMissingReference is returned when an insert points at a row that
	// does not exist.
	ErrMissingReference = errors.New("referenced record does not exist")
)

// ConflictError reports which unique column rejected an insert.
// It matches ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return ErrAlreadyExists.Error()
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ReferenceError reports a foreign key that matched no row. Field is the
// referencing column when the backend names it, empty otherwise.
// It matches ErrMissingReference with errors.Is.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	if e.Field == "" {
		return ErrMissingReference.Error()
	}
	return fmt.Sprintf("%s references a missing record", e.Field)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}
