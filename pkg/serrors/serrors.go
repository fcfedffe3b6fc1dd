// Package serrors provides semantic error kinds used across the application.
// A Kind is a comparable sentinel; the Error wrapper attaches a kind, an
// optional cause and an optional message while fully supporting
// errors.Is/errors.As.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind. It allows distinguishing semantic kinds from ordinary errors.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided
// name. Kinds are comparable and can be matched with errors.Is through the
// Error wrapper.
func NewKind(name string) Kind { return kind{s: name} }

// Error kinds covering the failure modes of the monitor. ErrConfig is the
// only fatal one and may surface only at startup; the rest are logged at the
// domain-unit boundary and never terminate the process.
var (
	// ErrConfig indicates invalid or incomplete configuration.
	ErrConfig = NewKind("CONFIG")
	// ErrFetch indicates the certificate-transparency source could not be
	// queried or returned an unusable response.
	ErrFetch = NewKind("FETCH")
	// ErrStore indicates a persistence failure.
	ErrStore = NewKind("STORE")
	// ErrDelivery indicates a notification channel failed to deliver.
	ErrDelivery = NewKind("DELIVERY")
	// ErrRateLimited indicates the upstream rejected the request due to
	// rate limiting.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = NewKind("NOT_FOUND")
)

// Error is a semantic error carrying a kind, an optional wrapped cause and an
// optional message.
//
// Matching semantics: errors.Is(err, target) matches if target matches either
// the kind sentinel or the wrapped cause; errors.As behaves accordingly.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and a formatted
// message. Use Wrap to also record a concrete cause.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind, wrapping the provided
// cause and attaching a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped cause, enabling errors.Unwrap/Is/As to traverse
// the chain.
func (e *Error) Unwrap() error { return e.err }

// Is matches against either the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As matches against either the kind sentinel or the wrapped cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the semantic kind sentinel associated with this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }
