// Package apperrors defines the typed error kinds returned by the interaction,
// aggregation and catalog services.
//
// Services return *Error values built with the constructors below. Handlers
// translate them into HTTP responses with StatusOf:
//
//	if errors.Is(err, apperrors.ErrForbidden) {
//	    ...
//	}
//
//	status, body := apperrors.StatusOf(err)
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable category of an error.
type Kind string

const (
	KindInvalidIdentifier Kind = "INVALID_IDENTIFIER"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindUpstreamFailure   Kind = "UPSTREAM_FAILURE"
	KindInvalidPage       Kind = "INVALID_PAGE"
	KindInvalidSortField  Kind = "INVALID_SORT_FIELD"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindInternal          Kind = "INTERNAL"
)

// HTTPStatus returns the fixed status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidIdentifier, KindValidation, KindInvalidPage, KindInvalidSortField:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a kind and a human-readable message.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus returns the status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// WithDetails returns a copy of e carrying structured details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Details: details, cause: e.cause}
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidIdentifier = &Error{Kind: KindInvalidIdentifier, Message: "invalid identifier"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation error"}
	ErrUpstreamFailure   = &Error{Kind: KindUpstreamFailure, Message: "upstream failure"}
	ErrInvalidPage       = &Error{Kind: KindInvalidPage, Message: "invalid page"}
	ErrInvalidSortField  = &Error{Kind: KindInvalidSortField, Message: "invalid sort field"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrRateLimited       = &Error{Kind: KindRateLimited, Message: "too many requests"}
	ErrInternal          = &Error{Kind: KindInternal, Message: "internal error"}
)

// InvalidIdentifier reports a malformed entity reference.
func InvalidIdentifier(msg string) *Error {
	return &Error{Kind: KindInvalidIdentifier, Message: msg}
}

// Forbidden reports an operation disallowed for the acting user.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound reports a missing record or one not owned by the actor.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Validation reports rejected input content.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// ValidationWithDetails reports rejected input with per-field messages.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// UpstreamFailure wraps a failure of an external collaborator.
func UpstreamFailure(msg string, cause error) *Error {
	return &Error{Kind: KindUpstreamFailure, Message: msg, cause: cause}
}

// InvalidPage reports malformed pagination input.
func InvalidPage(msg string) *Error {
	return &Error{Kind: KindInvalidPage, Message: msg}
}

// InvalidSortField reports a sort field outside the allow-list.
func InvalidSortField(field string) *Error {
	return &Error{Kind: KindInvalidSortField, Message: fmt.Sprintf("unsupported sort field %q", field)}
}

// Unauthorized reports a request without a usable actor.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// RateLimited reports a caller exceeding its request budget.
func RateLimited(msg string) *Error {
	return &Error{Kind: KindRateLimited, Message: msg}
}

// Internal wraps an unexpected failure, typically from the store.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// StatusOf returns the HTTP status and the domain error to render for err.
// Errors that are not *Error are reported as internal without leaking their text.
func StatusOf(err error) (int, *Error) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.HTTPStatus(), domainErr
	}
	return http.StatusInternalServerError, ErrInternal
}
