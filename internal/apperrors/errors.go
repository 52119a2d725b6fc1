// Package apperrors defines the application error surface shared by services,
// repositories and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that forbids the
// requested operation (e.g. reversing an already-reversed entry).
var ErrConflict = errors.New("conflicting resource state")

// AppError wraps an underlying error with an HTTP-ish status code and message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// RejectionError is returned by the ledger gateway when a candidate entry is
// refused admission. It carries the full ordered list of rule violations so
// downstream callers can display them verbatim.
type RejectionError struct {
	Violations []string
}

func (e *RejectionError) Error() string {
	return "entry rejected: " + strings.Join(e.Violations, "; ")
}

// Is makes RejectionError match ErrValidation under errors.Is.
func (e *RejectionError) Is(target error) bool {
	return target == ErrValidation
}

// NewRejectionError builds a RejectionError from a violation list.
func NewRejectionError(violations []string) *RejectionError {
	return &RejectionError{Violations: violations}
}
