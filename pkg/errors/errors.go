// Package errors provides structured error types for packopt.
//
// Every failure in the pipeline is fatal: there is no retry and no
// skip-and-continue. The code on an error tells the operator which kind of
// failure stopped the run.
//
// # Error Codes
//
//   - VALIDATION_ERROR: bad input/output paths or options
//   - IO_ERROR: read, write, create or delete failures
//   - PARSE_ERROR: malformed JSON or YAML
//   - CODEC_ERROR: image recompression failures
//   - CONFIG_ERROR: unreadable or malformed config file
//   - INTERNAL_ERROR: unexpected internal errors
//
// A declined confirmation is not an error. The pipeline reports it as an
// aborted run instead.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "input path %s is not a directory", p)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeValidation Code = "VALIDATION_ERROR"
	ErrCodeIO         Code = "IO_ERROR"
	ErrCodeParse      Code = "PARSE_ERROR"
	ErrCodeCodec      Code = "CODEC_ERROR"
	ErrCodeConfig     Code = "CONFIG_ERROR"
	ErrCodeInternal   Code = "INTERNAL_ERROR"
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
// For *Error types, returns the message and the cause without the code prefix.
// Context added around an *Error with fmt.Errorf is kept.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	if e, ok := err.(*Error); ok {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	var e *Error
	if errors.As(err, &e) {
		full := err.Error()
		if i := strings.LastIndex(full, e.Error()); i > 0 {
			return full[:i] + UserMessage(e)
		}
		return UserMessage(e)
	}
	return err.Error()
}

// WithCode keeps err as-is when it already carries a code and wraps it
// with code otherwise.
func WithCode(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return Wrap(code, err, format, args...)
}
