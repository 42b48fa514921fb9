package obs

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// nullToken is what accessors report for a NULL native string.
const nullToken = "null"

// cString converts s to a NUL-terminated byte string for the native ABI.
// The returned pointer stays valid as long as the caller keeps it reachable.
func cString(op, s string) (*byte, error) {
	p, err := bytePtrFromString(s)
	if err != nil {
		return nil, nulByte(op, strconv.Quote(s))
	}
	return p, nil
}

// cStringOrNil is cString with "" mapped to a NULL argument.
func cStringOrNil(op, s string) (*byte, error) {
	if s == "" {
		return nil, nil
	}
	return cString(op, s)
}

// goString copies a native NUL-terminated string into a Go string.
func goString(op string, ptr uintptr) (string, error) {
	if ptr == 0 {
		return "", nullPointer(op)
	}
	s := bytePtrToString(ptr)
	if !utf8.ValidString(s) {
		return "", &Error{Kind: KindTextDecode, Op: op}
	}
	return s, nil
}

// goStringOr is the accessor flavour of goString: it never fails.
// NULL becomes nullToken and invalid UTF-8 is replaced.
func goStringOr(ptr uintptr) string {
	if ptr == 0 {
		return nullToken
	}
	return strings.ToValidUTF8(bytePtrToString(ptr), string(utf8.RuneError))
}
