package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Action errors
	ErrActionInvalid ErrorCode = "ACTION_INVALID"

	// Link request errors
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrNotADirectory  ErrorCode = "NOT_A_DIRECTORY"
	ErrMissingParent  ErrorCode = "MISSING_PARENT"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrPermission     ErrorCode = "PERMISSION"

	// FileSystem errors
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ErrUnknown
}
