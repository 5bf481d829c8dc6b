package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving its code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	var appErr *AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any error in the chain carries the given code
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Predefined error codes
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeMergeError       = "MERGE_ERROR"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeIOError          = "IO_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors

// ValidationError reports malformed or out-of-range input. The message must
// identify the offending file, row, or column; the pipeline never auto-repairs.
func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func ValidationErrorf(format string, args ...interface{}) *AppError {
	return ValidationError(fmt.Sprintf(format, args...))
}

// MergeError reports a key mismatch or duplication across input tables
func MergeError(message string) *AppError {
	return New(CodeMergeError, message)
}

func MergeErrorf(format string, args ...interface{}) *AppError {
	return MergeError(fmt.Sprintf(format, args...))
}

// InsufficientData reports a sample too small for the requested statistic
func InsufficientData(message string) *AppError {
	return New(CodeInsufficientData, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func IOError(message string, cause error) *AppError {
	return &AppError{Code: CodeIOError, Message: message, Cause: cause}
}
