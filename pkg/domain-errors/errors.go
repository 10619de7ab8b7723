// Package domainerrors provides code-carrying domain errors. Services return
// these so transports can map failures to protocol status codes without string
// matching, and so tests can assert on the failure class rather than the
// message. Import sites alias it as dErrors.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeNotFound: a referenced record does not exist.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized: the caller lacks the privilege for the operation.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden: the caller is authenticated but the action is denied.
	CodeForbidden Code = "forbidden"
	// CodeBadRequest: the request is malformed.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidInput: a value failed trust-boundary validation.
	CodeInvalidInput Code = "invalid_input"
	// CodeConflict: the request conflicts with existing state.
	CodeConflict Code = "conflict"
	// CodeUnprocessable: the request is well-formed but violates a business
	// rule (closed window, self-referral, duplicate registration).
	CodeUnprocessable Code = "unprocessable"
	// CodeValidation: a domain invariant would be violated.
	CodeValidation Code = "validation"
	// CodeUnavailable: a dependency is temporarily unavailable.
	CodeUnavailable Code = "unavailable"
	// CodeInternal: an unexpected failure in this service or the host.
	CodeInternal Code = "internal"
)

// Error is the concrete domain error. Use New or Wrap; do not construct
// directly.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with a code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return New(code, message)
	}
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// HasCode is an alias of Is kept for call-site readability when the predicate
// reads as a property check rather than a comparison.
func HasCode(err error, code Code) bool {
	return Is(err, code)
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the message from err, or a generic message when err is
// not a domain error. Transports use this to avoid leaking internals.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnprocessable, CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
