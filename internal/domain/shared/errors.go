package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Withf returns a copy of the error carrying a formatted message and the same code.
// The copy still matches the original with errors.Is.
func (e *DomainError) Withf(format string, args ...any) error {
	return &detailedError{
		base: e,
		msg:  &DomainError{Code: e.Code, Message: fmt.Sprintf(format, args...)},
	}
}

type detailedError struct {
	base *DomainError
	msg  *DomainError
}

func (d *detailedError) Error() string { return d.msg.Message }

func (d *detailedError) Unwrap() error { return d.msg }

func (d *detailedError) Is(target error) bool { return target == d.base }

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
