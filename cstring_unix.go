//go:build unix

package obs

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

func bytePtrFromString(s string) (*byte, error) {
	return unix.BytePtrFromString(s)
}

func bytePtrToString(ptr uintptr) string {
	return unix.BytePtrToString((*byte)(unsafe.Pointer(ptr)))
}
