//go:build linux

package obs

// gsWindow matches struct gs_window on Linux: an X11 window id and the
// owning Display*.
type gsWindow struct {
	ID      uint32
	Display uintptr
}

func (s WindowSurface) native() gsWindow {
	return gsWindow{ID: uint32(s.Handle), Display: s.Display}
}
