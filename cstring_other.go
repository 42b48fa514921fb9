//go:build !unix && !windows

package obs

import (
	"errors"
	"strings"
	"unsafe"
)

func bytePtrFromString(s string) (*byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, errors.New("string contains NUL byte")
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0], nil
}

func bytePtrToString(ptr uintptr) string {
	p := unsafe.Pointer(ptr)
	var n uintptr
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}
