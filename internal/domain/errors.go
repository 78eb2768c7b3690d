package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain failures for structured client responses.
type ErrorCode string

const (
	CodeValidation       ErrorCode = "validation"
	CodeNotFound         ErrorCode = "not_found"
	CodeInvalidOperation ErrorCode = "invalid_operation"
	CodePersistence      ErrorCode = "persistence"
	CodeUnauthorized     ErrorCode = "unauthorized"
)

// Error carries a stable code alongside a human-readable message. An
// optional cause is preserved for logging but never sent to clients.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NewValidation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidOperation(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func NewPersistence(msg string, cause error) *Error {
	return &Error{Code: CodePersistence, Message: msg, cause: cause}
}

func NewUnauthorized(msg string, cause error) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg, cause: cause}
}

// CodeOf extracts the domain error code from err, or CodePersistence for
// anything that escaped without classification.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodePersistence
}
