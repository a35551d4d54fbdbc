package transfers

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthorization  Kind = "authorization"
	KindInvalidState   Kind = "invalid_state"
	KindNotFound       Kind = "not_found"
	KindTimeout        Kind = "timeout"
	KindPartialFailure Kind = "partial_failure"
)

// Error is returned by every Service operation that fails for a workflow reason.
// Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation     = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrAuthorization  = &Error{Kind: KindAuthorization, Message: "not authorized"}
	ErrInvalidState   = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrTimeout        = &Error{Kind: KindTimeout, Message: "timed out"}
	ErrPartialFailure = &Error{Kind: KindPartialFailure, Message: "partial failure"}
)

// KindOf returns the kind of err, or "" when err is not a workflow error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func authorizationf(format string, args ...interface{}) error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func invalidStatef(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}
