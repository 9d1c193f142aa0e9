// Package errs contains the error taxonomy shared by the service and api
// layers. Services return *Error values, the api layer maps their Kind to a
// status code.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
	KindPayloadTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "Validation Error"
	case KindBadRequest:
		return "Bad Request"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "Not Found"
	case KindConflict:
		return "Conflict"
	case KindPayloadTooLarge:
		return "Payload Too Large"
	}

	return "Internal Server Error"
}

// Status returns the HTTP status code used for the kind
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusInternalServerError
}

// FieldError names a single offending input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

// Sentinels for errors.Is checks. Matching is done on the kind only.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrBadRequest      = &Error{Kind: KindBadRequest}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrPayloadTooLarge = &Error{Kind: KindPayloadTooLarge}
)

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}

	if e.Err != nil {
		return fmt.Sprintf("%s, %v", msg, e.Err)
	}

	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error     { return newf(KindNotFound, format, args...) }
func Conflict(format string, args ...any) *Error     { return newf(KindConflict, format, args...) }
func BadRequest(format string, args ...any) *Error   { return newf(KindBadRequest, format, args...) }
func Unauthorized(format string, args ...any) *Error { return newf(KindUnauthorized, format, args...) }
func TooLarge(format string, args ...any) *Error     { return newf(KindPayloadTooLarge, format, args...) }

// Validation builds a validation error with a single offending field
func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Validation Error",
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// KindOf returns the kind of err, KindInternal if err isn't an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}
