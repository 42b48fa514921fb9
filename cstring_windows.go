//go:build windows

package obs

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func bytePtrFromString(s string) (*byte, error) {
	return windows.BytePtrFromString(s)
}

func bytePtrToString(ptr uintptr) string {
	return windows.BytePtrToString((*byte)(unsafe.Pointer(ptr)))
}
