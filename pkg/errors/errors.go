package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error into one of the caller-facing
// categories the API reports.
type Kind int

const (
	KindInvalidInput Kind = iota + 1000
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	KindInternal
)

// AppError carries an error kind alongside a human-readable message.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// StatusCode maps the error kind to the HTTP status the middleware renders.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func InvalidInput(message string, err error) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message, Err: err}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message, Err: err}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{Kind: KindForbidden, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Err: err}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: message, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf reports the kind of err if it is (or wraps) an AppError,
// KindInternal otherwise.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
