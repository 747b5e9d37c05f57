package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an expense does not exist (including a
	// repeat delete of an already-deleted record).
	ErrNotFound = errors.New("expense not found")
	// ErrNotOwner is returned when a valid caller targets someone else's
	// expense. The record is never touched in that case.
	ErrNotOwner = errors.New("not the owner of this expense")
)

// ValidationError reports which input fields were missing or invalid.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}
