// errors.go defines the application error taxonomy shared by the service layer
// and mapped to HTTP status codes by the handlers. Anything that is not an
// *Error surfaces as a generic 500 with no internal detail leaked.
package services

import "net/http"

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota + 1 // 400, optionally with a field name
	KindUnauthorized               // 401, missing/invalid session
	KindForbidden                  // 403, authenticated but not allowed
	KindNotFound                   // 404
)

// Error is an application error with a caller-safe message. Message is used
// verbatim as the response body's error field.
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for schema-level validation failures
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code this error maps to.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// NewValidationError creates a 400-class error. field may be empty when the
// failure is not tied to a single input field.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewForbiddenError creates a 403-class error.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewNotFoundError creates a 404-class error.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}
