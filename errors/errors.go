package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the boundary crossing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // dynamic library open
	PhaseResolve  Phase = "resolve"  // symbol resolution
	PhaseCall     Phase = "call"     // dispatching into the library
	PhaseCallback Phase = "callback" // asynchronous completion delivery
	PhaseRelease  Phase = "release"  // buffer release
	PhaseConfig   Phase = "config"   // host-side configuration
)

// Kind categorizes the error
type Kind string

const (
	KindNotLoaded    Kind = "not_loaded"
	KindNotResolved  Kind = "not_resolved"
	KindNilRuntime   Kind = "nil_runtime"
	KindInvalidInput Kind = "invalid_input"
	KindRejected     Kind = "rejected"
	KindCallFailed   Kind = "call_failed"
	KindCanceled     Kind = "canceled"
	KindValidation   Kind = "validation"
)

// Error is the structured error type used throughout the bindings
type Error struct {
	Phase  Phase
	Kind   Kind
	Symbol string
	Detail string
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Symbol != "" {
		b.WriteString(" at ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// NotLoaded reports a failed or absent library load
func NotLoaded(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindNotLoaded,
		Detail: detail,
		Cause:  cause,
	}
}

// NotResolved reports an optional entry point missing from the symbol table
func NotResolved(symbol string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNotResolved,
		Symbol: symbol,
		Detail: "entry point not resolved",
	}
}

// NilRuntime reports an operation attempted without a live runtime handle
func NilRuntime(operation string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNilRuntime,
		Detail: fmt.Sprintf("%s requires a runtime handle", operation),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Rejected reports an immediate, library-produced rejection of a call. The
// message payload is opaque to the bindings and passed through verbatim.
func Rejected(function, message string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindRejected,
		Detail: fmt.Sprintf("%s: %s", function, message),
	}
}

// CallFailed reports a failure delivered through the error callback
func CallFailed(function string, code int32, message string) *Error {
	return &Error{
		Phase:  PhaseCallback,
		Kind:   KindCallFailed,
		Detail: fmt.Sprintf("%s: code %d: %s", function, code, message),
	}
}

// Canceled reports a call abandoned by the caller's context
func Canceled(function string, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindCanceled,
		Detail: function,
		Cause:  cause,
	}
}

// Validation wraps a configuration validation failure
func Validation(cause error) *Error {
	return &Error{
		Phase: PhaseConfig,
		Kind:  KindValidation,
		Cause: cause,
	}
}
