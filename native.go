package obs

// MaxChannels is the size of the libobs output-source table (MAX_CHANNELS).
const MaxChannels = 64

// obs_reset_video status codes from obs.h.
const (
	videoSuccess         = 0
	videoFail            = -1
	videoNotSupported    = -2
	videoInvalidParam    = -3
	videoCurrentlyActive = -4
	videoModuleNotFound  = -5
)

func videoStatusText(code int) string {
	switch code {
	case videoSuccess:
		return "success"
	case videoFail:
		return "generic failure"
	case videoNotSupported:
		return "adapter lacks capabilities"
	case videoInvalidParam:
		return "invalid parameter"
	case videoCurrentlyActive:
		return "video is currently active"
	case videoModuleNotFound:
		return "graphics module not found"
	default:
		return "unknown"
	}
}

// videoInfo matches struct obs_video_info.
// Field order and widths must not change.
type videoInfo struct {
	GraphicsModule *byte
	FPSNum         uint32
	FPSDen         uint32
	BaseWidth      uint32
	BaseHeight     uint32
	OutputWidth    uint32
	OutputHeight   uint32
	OutputFormat   uint32 // enum video_format
	Adapter        uint32
	GPUConversion  bool
	Colorspace     uint32 // enum video_colorspace
	Range          uint32 // enum video_range_type
	ScaleType      uint32 // enum obs_scale_type
}

// gsInitData matches struct gs_init_data. gsWindow is per platform.
type gsInitData struct {
	Window         gsWindow
	CX             uint32
	CY             uint32
	NumBackbuffers uint32
	Format         int32 // enum gs_color_format
	ZSFormat       int32 // enum gs_zstencil_format
	Adapter        uint32
}

// nativeAPI is the slice of the libobs C ABI this package drives.
//
// Pointers to native objects travel as uintptr and are never dereferenced
// on the Go side. Strings go in as NUL-terminated *byte and come back as
// uintptr to a native buffer owned by libobs.
//
// Reference behaviour of each call is recorded in the ownership table
// (handle.go), not here.
type nativeAPI interface {
	versionString() uintptr
	initialized() bool
	startup(locale, moduleConfigPath *byte) bool
	shutdown()

	addDataPath(path *byte)
	addModulePath(bin, data *byte)
	addSafeModule(name *byte)
	loadAllModules()
	postLoadModules()
	getModule(name *byte) uintptr
	moduleName(module uintptr) uintptr
	moduleFileName(module uintptr) uintptr

	resetVideo(ovi *videoInfo) int32

	sceneCreate(name *byte) uintptr
	sceneGetRef(scene uintptr) uintptr
	sceneRelease(scene uintptr)
	sceneGetSource(scene uintptr) uintptr
	sceneAdd(scene, source uintptr) uintptr
	sceneFindSource(scene uintptr, name *byte) uintptr

	sceneitemAddref(item uintptr)
	sceneitemRelease(item uintptr)
	sceneitemGetSource(item uintptr) uintptr
	sceneitemGetID(item uintptr) int64
	sceneitemVisible(item uintptr) bool
	sceneitemSetVisible(item uintptr, visible bool) bool

	sourceCreate(id, name *byte, settings, hotkeys uintptr) uintptr
	sourceGetRef(source uintptr) uintptr
	sourceRelease(source uintptr)
	sourceGetName(source uintptr) uintptr
	sourceGetID(source uintptr) uintptr
	sourceGetSettings(source uintptr) uintptr
	sourceUpdate(source, settings uintptr)

	setOutputSource(channel uint32, source uintptr)
	getOutputSource(channel uint32) uintptr

	dataCreate() uintptr
	dataCreateFromJSON(json *byte) uintptr
	dataAddref(data uintptr)
	dataRelease(data uintptr)
	dataGetJSON(data uintptr) uintptr
	dataSetString(data uintptr, key, value *byte)
	dataSetInt(data uintptr, key *byte, value int64)
	dataSetBool(data uintptr, key *byte, value bool)
	dataGetString(data uintptr, key *byte) uintptr
	dataGetInt(data uintptr, key *byte) int64
	dataGetBool(data uintptr, key *byte) bool
	dataHasUserValue(data uintptr, key *byte) bool

	displayCreate(info *gsInitData, background uint32) uintptr
	displayDestroy(display uintptr)
	displayResize(display uintptr, cx, cy uint32)
	displaySetBackgroundColor(display uintptr, color uint32)
	displaySetEnabled(display uintptr, enabled bool)
}
