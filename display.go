package obs

// ColorFormat mirrors enum gs_color_format.
type ColorFormat int32

const (
	ColorFormatUnknown ColorFormat = iota
	ColorFormatA8
	ColorFormatR8
	ColorFormatRGBA
	ColorFormatBGRX
	ColorFormatBGRA
	ColorFormatR10G10B10A2
	ColorFormatRGBA16
	ColorFormatR16
	ColorFormatRGBA16F
	ColorFormatRGBA32F
)

// ZStencilFormat mirrors enum gs_zstencil_format.
type ZStencilFormat int32

const (
	ZStencilNone ZStencilFormat = iota
	ZStencilZ16
	ZStencilZ24S8
	ZStencilZ32F
	ZStencilZ32FS8X24
)

// WindowSurface identifies the host window a display renders into.
// Handle is the NSView* on macOS, the X11 window id on Linux and the HWND
// on Windows. Display is the X11 Display* and is ignored elsewhere.
type WindowSurface struct {
	Handle  uintptr
	Display uintptr
}

// DisplayInfo describes a display surface (struct gs_init_data).
type DisplayInfo struct {
	Window      WindowSurface
	Width       uint32
	Height      uint32
	Backbuffers uint32
	Format      ColorFormat
	ZStencil    ZStencilFormat
	Adapter     uint32
}

// NewDisplayInfo returns an RGBA display description for window.
func NewDisplayInfo(window WindowSurface, width, height uint32) DisplayInfo {
	return DisplayInfo{
		Window: window,
		Width:  width,
		Height: height,
		Format: ColorFormatRGBA,
	}
}

func (i DisplayInfo) WithColorFormat(f ColorFormat) DisplayInfo {
	i.Format = f
	return i
}

func (i DisplayInfo) WithZStencilFormat(f ZStencilFormat) DisplayInfo {
	i.ZStencil = f
	return i
}

func (i DisplayInfo) native() gsInitData {
	return gsInitData{
		Window:         i.Window.native(),
		CX:             i.Width,
		CY:             i.Height,
		NumBackbuffers: i.Backbuffers,
		Format:         int32(i.Format),
		ZSFormat:       int32(i.ZStencil),
		Adapter:        i.Adapter,
	}
}

// Display is a handle to a native display surface (obs_display_t).
// libobs does not reference-count displays: clones share one Go-side
// count and the surface is destroyed with the last Release.
type Display struct {
	ref
	size *[2]uint32 // shared by clones
}

func newDisplay(api nativeAPI, ptr uintptr, width, height uint32) *Display {
	r, ok := claim(api, displayKind, "obs_display_create", ptr)
	if !ok {
		return nil
	}
	return &Display{ref: r, size: &[2]uint32{width, height}}
}

func (d *Display) Clone() *Display {
	return &Display{ref: d.clone(), size: d.size}
}

// Release drops this reference; the last one destroys the surface.
func (d *Display) Release() {
	if d != nil {
		d.release()
	}
}

// Resize changes the surface size in place, e.g. when the host window
// is resized.
func (d *Display) Resize(width, height uint32) {
	d.api.displayResize(d.raw(), width, height)
	d.size[0], d.size[1] = width, height
}

// Size returns the last size set through Engine.CreateDisplay or Resize.
func (d *Display) Size() (width, height uint32) {
	return d.size[0], d.size[1]
}

// SetBackgroundColor sets the clear color (0xAABBGGRR).
func (d *Display) SetBackgroundColor(color uint32) {
	d.api.displaySetBackgroundColor(d.raw(), color)
}

func (d *Display) SetEnabled(enabled bool) {
	d.api.displaySetEnabled(d.raw(), enabled)
}
