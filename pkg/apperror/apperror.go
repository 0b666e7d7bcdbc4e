package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error; the HTTP layer maps kinds to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindDuplicate
	KindBadRequest
	KindInsufficientStock
	KindUnauthorized
	KindTokenRefresh
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindBadRequest:
		return "bad_request"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindUnauthorized:
		return "unauthorized"
	case KindTokenRefresh:
		return "token_refresh"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error  { return newf(KindNotFound, format, args...) }
func Duplicate(format string, args ...any) *Error { return newf(KindDuplicate, format, args...) }
func BadRequest(format string, args ...any) *Error {
	return newf(KindBadRequest, format, args...)
}
func InsufficientStock(format string, args ...any) *Error {
	return newf(KindInsufficientStock, format, args...)
}
func Unauthorized(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}
func TokenRefresh(format string, args ...any) *Error {
	return newf(KindTokenRefresh, format, args...)
}
func Forbidden(format string, args ...any) *Error { return newf(KindForbidden, format, args...) }
func Conflict(format string, args ...any) *Error  { return newf(KindConflict, format, args...) }

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ResourceNotFound formats the standard "<resource> not found with <field>: <value>" message.
func ResourceNotFound(resource, field string, value any) *Error {
	return NotFound("%s not found with %s: %v", resource, field, value)
}
