package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent indicates that no usable content was available for an item.
	// The pipeline treats this as a skip, not a failure.
	ErrNoContent = errors.New("no content available")

	// ErrNoSummary indicates the model returned a clean but empty response
	// for an item. Also a skip: the service answered, it just had nothing
	// to say.
	ErrNoSummary = errors.New("no summary produced")
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
