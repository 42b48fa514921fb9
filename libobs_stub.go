//go:build !darwin && !linux && !windows

package obs

import (
	"fmt"
	"runtime"
)

func loadLibOBS() error {
	return fmt.Errorf("libobs is not supported on %s", runtime.GOOS)
}

// IsAvailable reports whether libobs could be loaded.
func IsAvailable() bool { return false }

// LibraryPath returns the path libobs was loaded from, or "".
func LibraryPath() string { return "" }

// libobs is never constructed here; NewEngine fails before using it.
type libobs struct{ nativeAPI }
