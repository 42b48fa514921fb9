package obs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes an error returned by this package.
type Kind string

const (
	KindTextDecode         Kind = "text_decode"         // native string is not valid UTF-8
	KindNulByte            Kind = "nul_byte"            // host string contains an embedded NUL
	KindJSON               Kind = "json"                // structured data round trip failed
	KindEngineCode         Kind = "engine_code"         // opaque native status code
	KindNullPointer        Kind = "null_pointer"        // native create/query returned no object
	KindModuleNotFound     Kind = "module_not_found"    // module absent after load
	KindWrongState         Kind = "wrong_state"         // operation not legal in the engine state
	KindInitFailed         Kind = "init_failed"         // obs_startup reported failure
	KindUnsupported        Kind = "unsupported"         // value or platform not supported
	KindOutOfRange         Kind = "out_of_range"        // number does not fit the native setter
	KindLibraryUnavailable Kind = "library_unavailable" // libobs could not be loaded
)

// Error is the structured error type used throughout the package.
type Error struct {
	Cause error
	Kind  Kind
	Op    string // native operation or engine call that failed
	Name  string // module, key or object name involved, if any
	Code  int    // native status code for KindEngineCode
	State State  // engine state for KindWrongState
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("obs: ")
	b.WriteString(string(e.Kind))
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	switch e.Kind {
	case KindEngineCode:
		fmt.Fprintf(&b, ": code %d (%s)", e.Code, videoStatusText(e.Code))
	case KindWrongState:
		fmt.Fprintf(&b, ": engine is %s", e.State)
	}

	if e.Name != "" {
		b.WriteString(": ")
		b.WriteString(e.Name)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrTextDecode         = &Error{Kind: KindTextDecode}
	ErrNulByte            = &Error{Kind: KindNulByte}
	ErrJSON               = &Error{Kind: KindJSON}
	ErrEngineCode         = &Error{Kind: KindEngineCode}
	ErrNullPointer        = &Error{Kind: KindNullPointer}
	ErrModuleNotFound     = &Error{Kind: KindModuleNotFound}
	ErrWrongState         = &Error{Kind: KindWrongState}
	ErrInitFailed         = &Error{Kind: KindInitFailed}
	ErrUnsupported        = &Error{Kind: KindUnsupported}
	ErrOutOfRange         = &Error{Kind: KindOutOfRange}
	ErrLibraryUnavailable = &Error{Kind: KindLibraryUnavailable}
)

func nullPointer(op string) *Error {
	return &Error{Kind: KindNullPointer, Op: op}
}

func engineCode(op string, code int) *Error {
	return &Error{Kind: KindEngineCode, Op: op, Code: code}
}

func wrongState(op string, have State) *Error {
	return &Error{Kind: KindWrongState, Op: op, State: have}
}

func nulByte(op, name string) *Error {
	return &Error{Kind: KindNulByte, Op: op, Name: name}
}

func unsupported(op, detail string) *Error {
	return &Error{Kind: KindUnsupported, Op: op, Name: detail}
}

// EngineCode extracts the native status code from err.
func EngineCode(err error) (int, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindEngineCode {
		return 0, false
	}
	return e.Code, true
}
