package obs

import (
	"fmt"
	"sync"
)

// VideoFormat is the pixel format of the output pipeline (enum video_format).
type VideoFormat uint8

const (
	VideoFormatUnknown VideoFormat = iota
	VideoFormatNone
	VideoFormatI420 // planar 4:2:0
	VideoFormatNV12 // two-plane 4:2:0
	VideoFormatYVYU
	VideoFormatYUY2
	VideoFormatUYVY
	VideoFormatRGBA
	VideoFormatBGRA
	VideoFormatBGRX
	VideoFormatY800
	VideoFormatI444
	VideoFormatBGR3
	VideoFormatI422
	VideoFormatI40A
	VideoFormatI42A
	VideoFormatYUVA
	VideoFormatAYUV
	VideoFormatI010 // not yet mapped
	VideoFormatP010 // not yet mapped
	VideoFormatI210 // not yet mapped
	VideoFormatI412 // not yet mapped
	VideoFormatYA2L // not yet mapped
	videoFormatCount
)

// videoFormatMeta describes how a format reaches obs_video_info.
type videoFormatMeta struct {
	Name      string
	Code      uint32
	Supported bool
}

// Static table indexed by VideoFormat.
var videoFormatInfo = [videoFormatCount]videoFormatMeta{
	VideoFormatUnknown: {"unknown", 0xFFFFFFFF, true},
	VideoFormatNone:    {"none", 0, true},
	VideoFormatI420:    {"I420", 1, true},
	VideoFormatNV12:    {"NV12", 2, true},
	VideoFormatYVYU:    {"YVYU", 3, true},
	VideoFormatYUY2:    {"YUY2", 4, true},
	VideoFormatUYVY:    {"UYVY", 5, true},
	VideoFormatRGBA:    {"RGBA", 6, true},
	VideoFormatBGRA:    {"BGRA", 7, true},
	VideoFormatBGRX:    {"BGRX", 8, true},
	VideoFormatY800:    {"Y800", 9, true},
	VideoFormatI444:    {"I444", 10, true},
	VideoFormatBGR3:    {"BGR3", 11, true},
	VideoFormatI422:    {"I422", 12, true},
	VideoFormatI40A:    {"I40A", 13, true},
	VideoFormatI42A:    {"I42A", 14, true},
	VideoFormatYUVA:    {"YUVA", 15, true},
	VideoFormatAYUV:    {"AYUV", 16, true},
	VideoFormatI010:    {"I010", 0, false},
	VideoFormatP010:    {"P010", 0, false},
	VideoFormatI210:    {"I210", 0, false},
	VideoFormatI412:    {"I412", 0, false},
	VideoFormatYA2L:    {"YA2L", 0, false},
}

func (f VideoFormat) String() string {
	if f >= videoFormatCount {
		return "invalid"
	}
	return videoFormatInfo[f].Name
}

// Supported reports whether f can be handed to ResetVideo.
func (f VideoFormat) Supported() bool {
	return f < videoFormatCount && videoFormatInfo[f].Supported
}

func (f VideoFormat) code() (uint32, error) {
	if !f.Supported() {
		return 0, unsupported("video_format", f.String())
	}
	return videoFormatInfo[f].Code, nil
}

// ParseVideoFormat looks a format up by name (case sensitive, e.g. "NV12").
func ParseVideoFormat(name string) (VideoFormat, bool) {
	for f := VideoFormat(0); f < videoFormatCount; f++ {
		if videoFormatInfo[f].Name == name {
			return f, true
		}
	}
	return VideoFormatUnknown, false
}

// GraphicsBackend selects the libobs graphics module.
type GraphicsBackend uint8

const (
	BackendDefault GraphicsBackend = iota // platform default
	BackendOpenGL
	BackendD3D11
	backendCount
)

func (b GraphicsBackend) String() string {
	switch b {
	case BackendDefault:
		return "default"
	case BackendOpenGL:
		return "opengl"
	case BackendD3D11:
		return "d3d11"
	default:
		return "unknown"
	}
}

// Colorspace mirrors enum video_colorspace.
type Colorspace uint32

const (
	ColorspaceDefault Colorspace = iota
	Colorspace601
	Colorspace709
	ColorspaceSRGB
	Colorspace2100PQ
	Colorspace2100HLG
)

// VideoRange mirrors enum video_range_type.
type VideoRange uint32

const (
	RangeDefault VideoRange = iota
	RangePartial
	RangeFull
)

// ScaleType mirrors enum obs_scale_type.
type ScaleType uint32

const (
	ScaleDisable ScaleType = iota
	ScalePoint
	ScaleBicubic
	ScaleBilinear
	ScaleLanczos
	ScaleArea
)

// VideoConfig is a plain description of the video pipeline handed to
// Engine.ResetVideo. Build it with NewVideoConfig and the With methods;
// each method returns a modified copy.
type VideoConfig struct {
	Backend       GraphicsBackend
	FPSNum        uint32
	FPSDen        uint32
	BaseWidth     uint32
	BaseHeight    uint32
	OutputWidth   uint32
	OutputHeight  uint32
	Format        VideoFormat
	Adapter       uint32
	GPUConversion bool
	Colorspace    Colorspace
	Range         VideoRange
	ScaleType     ScaleType
}

// NewVideoConfig returns an empty config. Every size and rate must be set
// before use; libobs rejects zero values with OBS_VIDEO_INVALID_PARAM.
func NewVideoConfig() VideoConfig {
	return VideoConfig{Format: VideoFormatNone}
}

func (c VideoConfig) WithGraphicsBackend(b GraphicsBackend) VideoConfig {
	c.Backend = b
	return c
}

func (c VideoConfig) WithFPS(num, den uint32) VideoConfig {
	c.FPSNum, c.FPSDen = num, den
	return c
}

func (c VideoConfig) WithBaseSize(width, height uint32) VideoConfig {
	c.BaseWidth, c.BaseHeight = width, height
	return c
}

func (c VideoConfig) WithOutputSize(width, height uint32) VideoConfig {
	c.OutputWidth, c.OutputHeight = width, height
	return c
}

func (c VideoConfig) WithOutputFormat(f VideoFormat) VideoConfig {
	c.Format = f
	return c
}

func (c VideoConfig) WithAdapter(index uint32) VideoConfig {
	c.Adapter = index
	return c
}

func (c VideoConfig) WithGPUConversion(enabled bool) VideoConfig {
	c.GPUConversion = enabled
	return c
}

func (c VideoConfig) WithColorspace(cs Colorspace) VideoConfig {
	c.Colorspace = cs
	return c
}

func (c VideoConfig) WithRange(r VideoRange) VideoConfig {
	c.Range = r
	return c
}

func (c VideoConfig) WithScaleType(s ScaleType) VideoConfig {
	c.ScaleType = s
	return c
}

// String renders the config the way it is logged.
func (c VideoConfig) String() string {
	return fmt.Sprintf("%s %dx%d->%dx%d @%d/%d %s",
		c.Backend, c.BaseWidth, c.BaseHeight, c.OutputWidth, c.OutputHeight,
		c.FPSNum, c.FPSDen, c.Format)
}

// build lowers the config to obs_video_info for platform p.
func (c VideoConfig) build(p Platform) (videoInfo, error) {
	module, err := p.backendLibrary(c.Backend)
	if err != nil {
		return videoInfo{}, err
	}
	name, err := internBackendName(module)
	if err != nil {
		return videoInfo{}, err
	}
	format, err := c.Format.code()
	if err != nil {
		return videoInfo{}, err
	}
	return videoInfo{
		GraphicsModule: name,
		FPSNum:         c.FPSNum,
		FPSDen:         c.FPSDen,
		BaseWidth:      c.BaseWidth,
		BaseHeight:     c.BaseHeight,
		OutputWidth:    c.OutputWidth,
		OutputHeight:   c.OutputHeight,
		OutputFormat:   format,
		Adapter:        c.Adapter,
		GPUConversion:  c.GPUConversion,
		Colorspace:     uint32(c.Colorspace),
		Range:          uint32(c.Range),
		ScaleType:      uint32(c.ScaleType),
	}, nil
}

// libobs keeps the graphics_module pointer after obs_reset_video returns,
// so backend names live for the whole process.
var (
	backendNamesMu sync.Mutex
	backendNames   = map[string]*byte{}
)

func internBackendName(module string) (*byte, error) {
	backendNamesMu.Lock()
	defer backendNamesMu.Unlock()

	if p, ok := backendNames[module]; ok {
		return p, nil
	}
	p, err := cString("graphics_module", module)
	if err != nil {
		return nil, err
	}
	backendNames[module] = p
	return p, nil
}
