// Package svnerr translates native svn_error_t chains into structured
// Go errors and defines the bridge's own failure vocabulary.
//
// Every failure is either a domain error (the native library reported
// it; the numeric code and full cause chain survive translation) or a
// bridge error (pool/handle misuse, allocation failure, cancellation, a
// panic captured at the FFI boundary). Callers match programmatically
// with errors.Is against the exported sentinels or by inspecting Code.
package svnerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind separates native-library failures from bridge-internal ones.
type Kind uint8

const (
	KindBridge Kind = iota
	KindDomain
)

func (k Kind) String() string {
	if k == KindBridge {
		return "bridge"
	}
	return "domain"
}

// Error is one link of a translated error chain, outermost first.
type Error struct {
	Kind    Kind
	Code    int32
	Message string
	Cause   *Error
}

// Entry is a flattened (code, message) pair of a chain.
type Entry struct {
	Code    int32
	Message string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(e.Kind.String())
	b.WriteString("] ")
	fmt.Fprintf(&b, "E%06d", e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the next inner cause.
func (e *Error) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *Error by kind and code, so errors.Is works
// against the package sentinels anywhere in a chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Chain flattens the cause chain, outermost first. Never empty.
func (e *Error) Chain() []Entry {
	var out []Entry
	for n := e; n != nil; n = n.Cause {
		out = append(out, Entry{Code: n.Code, Message: n.Message})
	}
	return out
}

// New builds a single-link error.
func New(kind Kind, code int32, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Bridgef builds a bridge error with a formatted message.
func Bridgef(code int32, format string, args ...any) *Error {
	return &Error{Kind: KindBridge, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is matching.
var (
	ErrCancelled       = &Error{Kind: KindBridge, Code: CodeCancelled, Message: "operation cancelled"}
	ErrUseAfterRelease = &Error{Kind: KindBridge, Code: CodeUseAfterRelease, Message: "use after pool release"}
	ErrAliased         = &Error{Kind: KindBridge, Code: CodeAliased, Message: "exclusive handle aliased"}
	ErrPoolClosed      = &Error{Kind: KindBridge, Code: CodePoolClosed, Message: "pool already closed"}
	ErrAllocFailed     = &Error{Kind: KindBridge, Code: CodeAllocFailed, Message: "native allocation failed"}
)

// IsCode reports whether any link of err's chain carries code.
func IsCode(err error, code int32) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	for n := se; n != nil; n = n.Cause {
		if n.Code == code {
			return true
		}
	}
	return false
}

// Cancel returns the error a callback reports to abort the surrounding
// native operation.
func Cancel() *Error { return ErrCancelled }

// UseAfterRelease builds a bridge error for an access through a dead
// pool, with detail about what was accessed.
func UseAfterRelease(what string) *Error {
	return Bridgef(CodeUseAfterRelease, "use after pool release: %s", what)
}

// AllocationFailed reports a failed native pool allocation. Allocation
// failure is fatal to the operation scope; it is never swallowed.
func AllocationFailed(status int32) *Error {
	return Bridgef(CodeAllocFailed, "apr pool allocation failed with status %d", status)
}

// Panicked wraps a panic value recovered at the FFI boundary.
func Panicked(v any) *Error {
	return Bridgef(CodePanic, "callback panicked: %v", v)
}
