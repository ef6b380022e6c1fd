// Package apperr defines the error taxonomy shared by the directory, the
// authentication gate and the HTTP surface.
package apperr

import (
	"errors"
	"strings"
)

// Error codes. The HTTP layer maps each one to a status code.
const (
	EInvalid      = "invalid"
	EConflict     = "conflict"
	ENotFound     = "not found"
	EUnauthorized = "unauthorized"
	EInternal     = "internal error"
)

// Error carries a code for automated handling, a human readable message, the
// operation that failed and an optional wrapped cause.
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return "<" + e.Code + ">"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Invalid reports malformed input.
func Invalid(op, msg string) *Error {
	return &Error{Code: EInvalid, Op: op, Msg: msg}
}

// Conflict reports a naming collision.
func Conflict(op, msg string) *Error {
	return &Error{Code: EConflict, Op: op, Msg: msg}
}

// NotFound reports a lookup miss.
func NotFound(op, msg string) *Error {
	return &Error{Code: ENotFound, Op: op, Msg: msg}
}

// Unauthorized reports bad credentials or an invalid token.
func Unauthorized(op, msg string, err error) *Error {
	return &Error{Code: EUnauthorized, Op: op, Msg: msg, Err: err}
}

// Internal wraps a store or unexpected failure.
func Internal(op string, err error) *Error {
	return &Error{Code: EInternal, Op: op, Err: err}
}

// Code returns the code of the first *Error in err's chain. Errors that carry
// no code are internal.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) || e.Code == "" {
		return EInternal
	}
	return e.Code
}

// Message returns the human readable message of the first *Error in err's
// chain, or an empty string.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return Code(err) == code
}
