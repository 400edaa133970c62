package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so the handler boundary can pick an HTTP
// status without inspecting message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindInvalidState
)

// Error carries a user-facing message together with its taxonomy kind.
// Internal errors never reach the client verbatim; handlers log them and
// respond with a generic message instead.
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

// Errorf builds a classified error with a formatted user-facing message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapInternal attaches a cause to an internal error while keeping a safe
// outward message.
func wrapInternal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// KindOf extracts the taxonomy kind, defaulting to internal for plain errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
