// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-pool.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrConfig             = fmt.Errorf("invalid pool configuration")
	ErrNotInitialized     = fmt.Errorf("pool is not initialized")
	ErrAlreadyInitialized = fmt.Errorf("pool is already initialized")
	ErrOverCapacity       = fmt.Errorf("write exceeds segment capacity")
	ErrWrongState         = fmt.Errorf("operation invalid in current segment state")
	ErrDoubleRelease      = fmt.Errorf("resource released twice")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeConfig
	ErrCodeNotInitialized
	ErrCodeAlreadyInitialized
	ErrCodeOverCapacity
	ErrCodeWrongState
	ErrCodeDoubleRelease
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Unwrap maps a structured error back to its sentinel so callers can
// use errors.Is against the package-level values.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeConfig:
		return ErrConfig
	case ErrCodeNotInitialized:
		return ErrNotInitialized
	case ErrCodeAlreadyInitialized:
		return ErrAlreadyInitialized
	case ErrCodeOverCapacity:
		return ErrOverCapacity
	case ErrCodeWrongState:
		return ErrWrongState
	case ErrCodeDoubleRelease:
		return ErrDoubleRelease
	}
	return nil
}
