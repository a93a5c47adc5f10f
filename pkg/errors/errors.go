package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the class of failure seen while talking to the review API
// or reading the page cache
type ErrorType string

const (
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeAPI       ErrorType = "api"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeCache     ErrorType = "cache"
)

// Error represents a typed failure. Code carries the HTTP status when one exists.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(errorType ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// Wrap creates a typed error around an existing cause
func Wrap(errorType ErrorType, err error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf("%s: %v", fmt.Sprintf(format, args...), err),
		Err:     err,
	}
}

// TypeOf returns the ErrorType of err, or "" when err is not a typed error
func TypeOf(err error) ErrorType {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Type
	}
	return ""
}

// IsTransport reports whether err is a network or HTTP status failure
func IsTransport(err error) bool {
	return TypeOf(err) == ErrorTypeTransport
}

// IsAPI reports whether err is an API-level failure (success flag not set)
func IsAPI(err error) bool {
	return TypeOf(err) == ErrorTypeAPI
}

// IsCache reports whether err came from reading or writing the page cache
func IsCache(err error) bool {
	return TypeOf(err) == ErrorTypeCache
}

// IsRetryable checks if a failure of this type is worth revisiting on a later iteration.
// Cache faults are local and are never retried.
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeTransport, ErrorTypeAPI, ErrorTypeParsing:
		return true
	case ErrorTypeCache:
		return false
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a transient failure
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429:
		return true
	case 401, 403, 404:
		return false
	default:
		return statusCode >= 500
	}
}
