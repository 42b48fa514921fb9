//go:build darwin

package obs

// gsWindow matches struct gs_window on macOS: an NSView pointer.
type gsWindow struct {
	View uintptr
}

func (s WindowSurface) native() gsWindow {
	return gsWindow{View: s.Handle}
}
