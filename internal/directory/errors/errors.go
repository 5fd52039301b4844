// Package errors declares the sentinel errors shared by the directory services
// and the stable machine-readable codes they map to at the transport edge.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrInvalidSecret = fmt.Errorf("invalid password")
	ErrConfiguration = fmt.Errorf("configuration error")
	ErrUpstream      = fmt.Errorf("upstream failure")
	ErrUploadFailed  = fmt.Errorf("%w: upload failed", ErrUpstream)
)

// Machine-readable codes returned to API clients.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidAuth  = "INVALID_PASSWORD"
	CodeNotFound     = "NOT_FOUND"
	CodeUploadFailed = "UPLOAD_FAILED"
	CodeUpstream     = "UPSTREAM_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Code maps err to its stable code. Anything unrecognised, configuration errors
// included, is reported as an internal error.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, ErrInvalidSecret):
		return CodeInvalidAuth
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUploadFailed):
		return CodeUploadFailed
	case errors.Is(err, ErrUpstream):
		return CodeUpstream
	default:
		return CodeInternal
	}
}

// Invalid builds a validation error naming the failing constraint.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
