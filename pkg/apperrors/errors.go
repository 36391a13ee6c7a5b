package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for response mapping and retry semantics.
type Kind int

const (
	// KindValidation marks malformed or missing request fields. Not retryable.
	KindValidation Kind = iota
	// KindAuth marks a failed signature or shared-secret check. Not retryable.
	KindAuth
	// KindNotFound marks an unknown booking or profile. Not retryable.
	KindNotFound
	// KindDependency marks a data-store failure. Safe for the caller to retry
	// since every mutation is idempotent.
	KindDependency
	// KindDelivery marks a push-delivery failure for one or more recipients.
	// Never surfaced as a request failure.
	KindDelivery
)

// Error is the service-wide error type carrying a Kind and a client-safe
// message. The wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the error kind to the response status per the error design.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Dependency(message string, cause error) *Error {
	return &Error{Kind: KindDependency, Message: message, cause: cause}
}

func Delivery(message string, cause error) *Error {
	return &Error{Kind: KindDelivery, Message: message, cause: cause}
}

// As extracts an *Error from err, wrapping unknown errors as Dependency so
// the handler boundary always has a mappable error.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Dependency("internal error", err)
}
