/*
Package fault defines the classes of fatal errors a faka program run can end
with. Every error produced by the interpreter packages is a *Error carrying one
of the Kind values below and wrapping a package-level sentinel describing the
exact cause, so callers can use errors.Is for the cause and KindOf for the
class.
*/
package fault

import (
	"errors"
	"fmt"
)

// Kind is the class of a fatal error.
type Kind byte

// This block defines all known error classes.
const (
	// Unknown is returned by KindOf for errors not produced by the interpreter.
	Unknown Kind = iota
	// Structural is a missing or misplaced start/end marker.
	Structural
	// Parse is a line not matching the grammar of its statement.
	Parse
	// Type is a value not valid for its declared kind or a non-int
	// arithmetic result.
	Type
	// Reference is an unbound identifier.
	Reference
	// Operator is an arithmetic expression without a known operator.
	Operator
)

// String implements fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case Structural:
		return "StructuralError"
	case Parse:
		return "ParseError"
	case Type:
		return "TypeError"
	case Reference:
		return "ReferenceError"
	case Operator:
		return "OperatorError"
	default:
		return "UnknownError"
	}
}

// Error is a classified interpreter error.
type Error struct {
	Kind Kind
	// Line is a 1-based number of the program line that caused the error,
	// 0 if unknown.
	Line int
	// Detail is the offending value, name or line text, may be empty.
	Detail string
	Err    error
}

// New creates an error of the given kind wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// Newf creates an error of the given kind wrapping cause with a formatted
// detail appended to its message.
func Newf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: cause, Detail: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.Err
}

// AtLine sets the line number of err if it's a classified error without one.
// Other errors are returned as is.
func AtLine(err error, line int) error {
	var e *Error
	if errors.As(err, &e) && e.Line == 0 {
		cp := *e
		cp.Line = line
		return &cp
	}
	return err
}

// KindOf returns the class of err or Unknown if err is not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
