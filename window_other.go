//go:build !darwin && !linux && !windows

package obs

type gsWindow struct {
	Handle uintptr
}

func (s WindowSurface) native() gsWindow {
	return gsWindow{Handle: s.Handle}
}
