// Package errors provides structured error types for the mindgrove engine.
//
// The pipeline distinguishes three fatal categories: a raw node list that is
// not a well-formed record set (PARSE_ERROR), a list that cannot yield a
// meaningful tree at all (INTEGRITY_ERROR), and an impossible configuration
// (CONFIG_ERROR). Parse failures on individual records are recovered locally
// by the normalizer and never surface as errors; the remaining codes cover
// collaborator failures (generator, store, cache).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeIntegrity, "found %d roots", n)
//	if errors.Is(err, errors.ErrCodeIntegrity) {
//	    // no partial output - abort the request
//	}
//
//	// Wrap collaborator errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "generate chunk %d", i)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline errors
	ErrCodeParse     Code = "PARSE_ERROR"     // raw input is not a well-formed record set
	ErrCodeIntegrity Code = "INTEGRITY_ERROR" // zero or multiple roots, unresolvable structure
	ErrCodeConfig    Code = "CONFIG_ERROR"    // empty palette, negative cap, overlap >= chunk size

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Collaborator errors
	ErrCodeNetwork   Code = "NETWORK_ERROR"
	ErrCodeGenerator Code = "GENERATOR_ERROR"

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
