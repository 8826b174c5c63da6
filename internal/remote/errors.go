package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates an unexpected HTTP status
	ErrTypeHTTP
	// ErrTypeParse indicates a response that is not the expected JSON document
	ErrTypeParse
	// ErrTypeDecode indicates the inspector rejected the packet
	ErrTypeDecode
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeDecode:
		return "Decode Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is an error that occurred while talking to a remote inspector
type Error struct {
	Type       ErrorType
	StatusCode int // HTTP status, zero for network errors
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a network error
func NewNetworkError(message string, err error) *Error {
	return &Error{Type: ErrTypeNetwork, Message: message, Err: err}
}

// NewHTTPError creates an HTTP status error
func NewHTTPError(statusCode int, message string) *Error {
	return &Error{Type: ErrTypeHTTP, StatusCode: statusCode, Message: message}
}

// NewParseError creates a response parsing error
func NewParseError(message string, err error) *Error {
	return &Error{Type: ErrTypeParse, Message: message, Err: err}
}

// NewDecodeError creates an error for a packet the inspector rejected
func NewDecodeError(message string) *Error {
	return &Error{Type: ErrTypeDecode, StatusCode: http.StatusBadRequest, Message: message}
}

// IsRetryable reports whether a request that failed with err may succeed
// when sent again: network failures and 5xx responses.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Type {
	case ErrTypeNetwork:
		return true
	case ErrTypeHTTP:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// IsDecodeError reports whether err means the packet itself was rejected
func IsDecodeError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrTypeDecode
}
