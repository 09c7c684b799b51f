package shared

import "errors"

// DomainError represents a domain-level error with a stable, programmatic code.
// Codes are identical on the local and the remote backend so callers never
// need to inspect message text.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// DomainCode returns the stable error code
func (e *DomainError) DomainCode() string {
	return e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrDuplicate       = NewDomainError("DUPLICATE", "Resource already exists")
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrVersionConflict = NewDomainError("VERSION_CONFLICT", "Resource was modified by another writer, re-read and retry")
	ErrDeleteFailed    = NewDomainError("DELETE_FAILED", "Delete affected no rows")
	ErrUnknown         = NewDomainError("UNKNOWN_ERROR", "Unexpected error")
)

// Coder is implemented by errors that carry a stable domain code.
// Data-carrying error types (e.g. insufficient stock) implement it so they
// stay programmatically distinguishable without being *DomainError.
type Coder interface {
	DomainCode() string
}

// CodeOf extracts the stable domain code from an error chain.
// Errors without a code map to UNKNOWN_ERROR.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var c Coder
	if errors.As(err, &c) {
		return c.DomainCode()
	}
	return ErrUnknown.Code
}
