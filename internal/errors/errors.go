// Package errors defines typed error values shared across the aggregation layer.
// Every failure crosses component boundaries as an *AppError value so callers
// can branch on its kind instead of parsing messages.
package errors

import (
	"errors"
	"fmt"
)

// Error kind constants
const (
	KindValidation          = "VALIDATION_FAILED"
	KindUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	KindUpstreamRejected    = "UPSTREAM_REJECTED"
	KindNoPageFound         = "NO_PAGE_FOUND"
	KindGenreResolution     = "GENRE_RESOLUTION_FAILED"
	KindLocalStore          = "LOCAL_STORE_FAILURE"
	KindNotFound            = "NOT_FOUND"
	KindAlreadyExists       = "ALREADY_EXISTS"
)

// AppError carries a stable machine-readable kind alongside a human message.
type AppError struct {
	Kind    string
	Message string
	Status  int // upstream HTTP status, only set for KindUpstreamRejected
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of err when it is (or wraps) an *AppError,
// empty string otherwise.
func KindOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// New creates an AppError with an arbitrary kind.
func New(kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

// NewValidationError reports malformed input rejected before any I/O.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewUpstreamUnavailable reports a transport-level failure or timeout
// talking to the metadata provider.
func NewUpstreamUnavailable(message string, cause error) *AppError {
	return &AppError{Kind: KindUpstreamUnavailable, Message: message, Cause: cause}
}

// NewUpstreamRejected reports a non-2xx provider response. The message is the
// provider-supplied status message, never the raw body.
func NewUpstreamRejected(status int, message string) *AppError {
	return &AppError{Kind: KindUpstreamRejected, Message: message, Status: status}
}

// NewNoPageFound reports a listing page that is structurally absent upstream.
func NewNoPageFound() *AppError {
	return &AppError{Kind: KindNoPageFound, Message: "no page found"}
}

// NewGenreResolutionError reports a listing entry referencing a genre id
// missing from the fetched catalog.
func NewGenreResolutionError(genreID int) *AppError {
	return &AppError{Kind: KindGenreResolution, Message: fmt.Sprintf("unknown genre id %d", genreID)}
}

// NewLocalStoreError reports a failed relational store operation.
func NewLocalStoreError(message string, cause error) *AppError {
	return &AppError{Kind: KindLocalStore, Message: message, Cause: cause}
}

// NewNotFound reports a missing local record.
func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewAlreadyExists reports a uniqueness conflict on a local record.
func NewAlreadyExists(message string) *AppError {
	return &AppError{Kind: KindAlreadyExists, Message: message}
}
