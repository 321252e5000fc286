// Package errors provides coded errors shared by the engine, the host
// document and the command line.
//
// Codes let callers tell a precondition failure (nothing was selected) apart
// from a recoverable write failure (one node refused new content) without
// string matching:
//
//	err := errors.New(errors.ErrCodeNoContainer, "no frame selected")
//	if errors.Is(err, errors.ErrCodeNoContainer) {
//	    // ask the user to select a frame
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Caller preconditions
	ErrCodeNoContainer      Code = "NO_CONTAINER"
	ErrCodeInvalidContainer Code = "INVALID_CONTAINER"
	ErrCodeNoSelection      Code = "NO_SELECTION"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"

	// Host document writes
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFillRejected Code = "FILL_REJECTED"

	// Files
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

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

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given code anywhere in its chain,
// including coded errors wrapped as the cause of another coded error.
func Is(err error, code Code) bool {
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

// GetCode extracts the error code, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
