package response

import (
	"errors"
)

// Error is a domain error that already knows the HTTP status it maps to and
// the machine readable code sent alongside the message.
type Error struct {
	Code   int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, reason string, message string) error {
	return &Error{Code: code, Reason: reason, Err: errors.New(message)}
}
