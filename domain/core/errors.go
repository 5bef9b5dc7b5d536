package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrCycleNotFound  = fmt.Errorf("%w: cycle", ErrNotFound)
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)

	ErrInvalidScore     = errors.New("invalid score")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// NewNotFoundError wraps ErrNotFound with the resource and its id
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewValidationError reports an invalid field of a domain record
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidScore, field, reason)
}

// IsNotFoundError checks whether err is a not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks whether err is a record validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidScore)
}
