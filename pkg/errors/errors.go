// Package errors provides structured error types for Wayfinder.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the core, the stores and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the layer that raises them:
//   - Core graph errors: DUPLICATE_LOCATION, UNKNOWN_LOCATION, ...
//   - Persistence errors: STORAGE_*
//   - Ambient errors: INVALID_INPUT, INVALID_CONFIG, INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownLocation, "location %q does not exist", name)
//	if errors.Is(err, errors.ErrCodeUnknownLocation) {
//	    // Handle missing location
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorageMalformed, origErr, "parse %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core graph errors
	ErrCodeDuplicateLocation Code = "DUPLICATE_LOCATION"
	ErrCodeUnknownLocation   Code = "UNKNOWN_LOCATION"
	ErrCodeInvalidDirection  Code = "INVALID_DIRECTION"
	ErrCodeInvalidArgument   Code = "INVALID_ARGUMENT"
	ErrCodeNoCurrentLocation Code = "NO_CURRENT_LOCATION"

	// Persistence errors
	ErrCodeStorageNotFound    Code = "STORAGE_NOT_FOUND"
	ErrCodeStorageMalformed   Code = "STORAGE_MALFORMED"
	ErrCodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"

	// Ambient errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain and matches the outermost *Error only,
// so a STORAGE_MALFORMED wrapping an UNKNOWN_LOCATION reports the former.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Has reports whether any *Error in the chain carries code.
func Has(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix,
// followed by the cause's own user message when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
