package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrValidation       = errors.New("validation failed")
	ErrMerge            = errors.New("merge failed")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

func NewMergeError(studentID string, reason string) error {
	return fmt.Errorf("%w for student %s: %s", ErrMerge, studentID, reason)
}

func NewInsufficientDataError(what string, n int) error {
	return fmt.Errorf("%w: %s has n=%d, need at least 2", ErrInsufficientData, what, n)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsMergeError(err error) bool {
	return errors.Is(err, ErrMerge)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
