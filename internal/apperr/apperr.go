// Package apperr defines the error kinds shared by the proxy handlers and
// the upstream clients they call.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error by how it is reported to the caller.
type Kind int

const (
	Internal Kind = iota
	MethodNotAllowed
	BadRequest
	Upstream
	Configuration
)

func (k Kind) String() string {
	switch k {
	case MethodNotAllowed:
		return "method not allowed"
	case BadRequest:
		return "bad request"
	case Upstream:
		return "upstream error"
	case Configuration:
		return "configuration error"
	}
	return "internal error"
}

// Status returns the HTTP status code used to report errors of this kind.
func (k Kind) Status() int {
	switch k {
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	case BadRequest:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error is an error with a kind, the operation that produced it and an
// optional cause.
type Error struct {
	Op   string
	Kind Kind
	Msg  string
	Err  error
}

// E builds an *Error. Msg falls back to the cause's text when empty.
func E(op string, kind Kind, msg string, err error) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so callers can
// write errors.Is(err, &apperr.Error{Kind: apperr.Upstream}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	return KindOf(err).Status()
}
