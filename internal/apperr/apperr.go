// Package apperr classifies failures of the storage core into a small set of
// machine-readable codes.
//
// Every package below the command layer returns errors that either are an
// *Error or wrap one, so callers can branch with errors.Is against the
// sentinels (ErrNotFound, ErrInvalidInput, ...) and render a human-readable
// message with Message without leaking driver details.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure.
type Code string

const (
	// NotFound is returned when no row matches a given id.
	NotFound Code = "NOT_FOUND"
	// InvalidInput is returned when a required request field is missing or malformed.
	InvalidInput Code = "INVALID_INPUT"
	// IO is returned when the filesystem or the storage engine cannot be reached.
	IO Code = "IO_ERROR"
	// Serialization is returned for malformed metadata, JSON or backup payloads.
	Serialization Code = "SERIALIZATION_ERROR"
	// Storage is returned when the engine fails for a reason other than a missing row.
	Storage Code = "STORAGE_ERROR"
	// Schema is returned when a definition statement fails during bootstrap.
	Schema Code = "SCHEMA_ERROR"
	// Internal is returned for anything unexpected.
	Internal Code = "INTERNAL_ERROR"
)

// Sentinels for errors.Is. They match any *Error carrying the same code.
var (
	ErrNotFound      = &Error{Code: NotFound, Msg: "not found"}
	ErrInvalidInput  = &Error{Code: InvalidInput, Msg: "invalid input"}
	ErrIO            = &Error{Code: IO, Msg: "i/o error"}
	ErrSerialization = &Error{Code: Serialization, Msg: "serialization error"}
	ErrStorage       = &Error{Code: Storage, Msg: "storage error"}
	ErrSchema        = &Error{Code: Schema, Msg: "schema error"}
	ErrInternal      = &Error{Code: Internal, Msg: "internal error"}
)

// Error is a classified error with an optional underlying cause.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

// New returns an *Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Errorf returns an *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under code. A nil err yields nil.
func Wrap(code Code, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Msg: msg, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or Internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// Message returns the text shown to a caller: the classified message without
// the wrapped driver detail for storage and internal failures.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch e.Code {
	case Storage, Internal, Schema:
		return e.Msg
	}
	return e.Error()
}
