//go:build windows

package obs

// gsWindow matches struct gs_window on Windows: an HWND.
type gsWindow struct {
	HWND uintptr
}

func (s WindowSurface) native() gsWindow {
	return gsWindow{HWND: s.Handle}
}
