// Package errors provides structured error types for kintree.
//
// Error codes let the CLI and library callers branch on the kind of failure
// without string matching:
//   - INVALID_*: Input validation failures (snapshots, config, flags)
//   - NOT_FOUND, MEMBER_NOT_FOUND: Missing resources
//   - STORAGE, PERSIST_FAILED: Collaborator (store) failures
//   - CACHE: Layout cache failures
//   - INTERNAL, UNSUPPORTED: Everything else
//
// The layout engine itself never returns errors: malformed graphs are
// tolerated and skipped. These codes cover the code around the engine.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRelationship, "unknown kind %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidRelationship) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodePersistFailed, origErr, "member %d", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput          Code = "INVALID_INPUT"
	ErrCodeInvalidRelationship   Code = "INVALID_RELATIONSHIP"
	ErrCodeDuplicateRelationship Code = "DUPLICATE_RELATIONSHIP"
	ErrCodeInvalidFormat         Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig         Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeMemberNotFound Code = "MEMBER_NOT_FOUND"

	// Collaborator errors
	ErrCodeStorage       Code = "STORAGE"
	ErrCodePersistFailed Code = "PERSIST_FAILED"
	ErrCodeCache         Code = "CACHE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
