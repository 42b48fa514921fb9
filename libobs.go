//go:build darwin || linux || windows

// libobs bindings via purego.
//
// libobs is opened at runtime, so no headers or cgo toolchain are needed.
// Library locations checked (in order):
//   - OBS_LIB_PATH environment variable (full path to the library)
//   - OBS_SDK_LIB_PATH environment variable (directory)
//   - next to the executable, ../lib and ../Frameworks
//   - the platform's install locations (see Platforms)

package obs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	libOBSOnce    sync.Once
	libOBSHandle  uintptr
	libOBSPath    string
	libOBSInitErr error
	libOBSLoaded  bool
)

// libobs function pointers
var (
	obsGetVersionString func() uintptr
	obsInitialized      func() bool
	obsStartup          func(locale, moduleConfigPath *byte, store uintptr) bool
	obsShutdown         func()

	obsAddDataPath     func(path *byte)
	obsAddModulePath   func(bin, data *byte)
	obsAddSafeModule   func(name *byte) // optional, libobs >= 30.2
	obsLoadAllModules  func()
	obsPostLoadModules func()
	obsGetModule       func(name *byte) uintptr
	obsGetModuleName   func(module uintptr) uintptr
	obsGetModuleFile   func(module uintptr) uintptr

	obsResetVideo func(ovi *videoInfo) int32

	obsSceneCreate     func(name *byte) uintptr
	obsSceneGetRef     func(scene uintptr) uintptr
	obsSceneRelease    func(scene uintptr)
	obsSceneGetSource  func(scene uintptr) uintptr
	obsSceneAdd        func(scene, source uintptr) uintptr
	obsSceneFindSource func(scene uintptr, name *byte) uintptr

	obsSceneitemAddref     func(item uintptr)
	obsSceneitemRelease    func(item uintptr)
	obsSceneitemGetSource  func(item uintptr) uintptr
	obsSceneitemGetID      func(item uintptr) int64
	obsSceneitemVisible    func(item uintptr) bool
	obsSceneitemSetVisible func(item uintptr, visible bool) bool

	obsSourceCreate      func(id, name *byte, settings, hotkeys uintptr) uintptr
	obsSourceGetRef      func(source uintptr) uintptr
	obsSourceRelease     func(source uintptr)
	obsSourceGetName     func(source uintptr) uintptr
	obsSourceGetID       func(source uintptr) uintptr
	obsSourceGetSettings func(source uintptr) uintptr
	obsSourceUpdate      func(source, settings uintptr)

	obsSetOutputSource func(channel uint32, source uintptr)
	obsGetOutputSource func(channel uint32) uintptr

	obsDataCreate         func() uintptr
	obsDataCreateFromJSON func(json *byte) uintptr
	obsDataAddref         func(data uintptr)
	obsDataRelease        func(data uintptr)
	obsDataGetJSON        func(data uintptr) uintptr
	obsDataSetString      func(data uintptr, key, value *byte)
	obsDataSetInt         func(data uintptr, key *byte, value int64)
	obsDataSetBool        func(data uintptr, key *byte, value bool)
	obsDataGetString      func(data uintptr, key *byte) uintptr
	obsDataGetInt         func(data uintptr, key *byte) int64
	obsDataGetBool        func(data uintptr, key *byte) bool
	obsDataHasUserValue   func(data uintptr, key *byte) bool

	obsDisplayCreate             func(info *gsInitData, background uint32) uintptr
	obsDisplayDestroy            func(display uintptr)
	obsDisplayResize             func(display uintptr, cx, cy uint32)
	obsDisplaySetBackgroundColor func(display uintptr, color uint32)
	obsDisplaySetEnabled         func(display uintptr, enabled bool)
)

type libOBSSymbol struct {
	fn       any
	name     string
	optional bool
}

var libOBSSymbols = []libOBSSymbol{
	{&obsGetVersionString, "obs_get_version_string", false},
	{&obsInitialized, "obs_initialized", false},
	{&obsStartup, "obs_startup", false},
	{&obsShutdown, "obs_shutdown", false},

	{&obsAddDataPath, "obs_add_data_path", false},
	{&obsAddModulePath, "obs_add_module_path", false},
	{&obsAddSafeModule, "obs_add_safe_module", true},
	{&obsLoadAllModules, "obs_load_all_modules", false},
	{&obsPostLoadModules, "obs_post_load_modules", false},
	{&obsGetModule, "obs_get_module", false},
	{&obsGetModuleName, "obs_get_module_name", false},
	{&obsGetModuleFile, "obs_get_module_file_name", false},

	{&obsResetVideo, "obs_reset_video", false},

	{&obsSceneCreate, "obs_scene_create", false},
	{&obsSceneGetRef, "obs_scene_get_ref", false},
	{&obsSceneRelease, "obs_scene_release", false},
	{&obsSceneGetSource, "obs_scene_get_source", false},
	{&obsSceneAdd, "obs_scene_add", false},
	{&obsSceneFindSource, "obs_scene_find_source", false},

	{&obsSceneitemAddref, "obs_sceneitem_addref", false},
	{&obsSceneitemRelease, "obs_sceneitem_release", false},
	{&obsSceneitemGetSource, "obs_sceneitem_get_source", false},
	{&obsSceneitemGetID, "obs_sceneitem_get_id", false},
	{&obsSceneitemVisible, "obs_sceneitem_visible", false},
	{&obsSceneitemSetVisible, "obs_sceneitem_set_visible", false},

	{&obsSourceCreate, "obs_source_create", false},
	{&obsSourceGetRef, "obs_source_get_ref", false},
	{&obsSourceRelease, "obs_source_release", false},
	{&obsSourceGetName, "obs_source_get_name", false},
	{&obsSourceGetID, "obs_source_get_id", false},
	{&obsSourceGetSettings, "obs_source_get_settings", false},
	{&obsSourceUpdate, "obs_source_update", false},

	{&obsSetOutputSource, "obs_set_output_source", false},
	{&obsGetOutputSource, "obs_get_output_source", false},

	{&obsDataCreate, "obs_data_create", false},
	{&obsDataCreateFromJSON, "obs_data_create_from_json", false},
	{&obsDataAddref, "obs_data_addref", false},
	{&obsDataRelease, "obs_data_release", false},
	{&obsDataGetJSON, "obs_data_get_json", false},
	{&obsDataSetString, "obs_data_set_string", false},
	{&obsDataSetInt, "obs_data_set_int", false},
	{&obsDataSetBool, "obs_data_set_bool", false},
	{&obsDataGetString, "obs_data_get_string", false},
	{&obsDataGetInt, "obs_data_get_int", false},
	{&obsDataGetBool, "obs_data_get_bool", false},
	{&obsDataHasUserValue, "obs_data_has_user_value", false},

	{&obsDisplayCreate, "obs_display_create", false},
	{&obsDisplayDestroy, "obs_display_destroy", false},
	{&obsDisplayResize, "obs_display_resize", false},
	{&obsDisplaySetBackgroundColor, "obs_display_set_background_color", false},
	{&obsDisplaySetEnabled, "obs_display_set_enabled", false},
}

// loadLibOBS loads libobs once per process.
func loadLibOBS() error {
	libOBSOnce.Do(func() {
		libOBSInitErr = loadLibOBSLib()
		if libOBSInitErr == nil {
			libOBSLoaded = true
		}
	})
	return libOBSInitErr
}

func loadLibOBSLib() error {
	paths := getLibOBSPaths(CurrentPlatform())

	var lastErr error
	for _, path := range paths {
		handle, err := openLibrary(path)
		if err != nil {
			lastErr = err
			continue
		}
		if err := loadLibOBSSymbols(handle); err != nil {
			closeLibrary(handle)
			lastErr = err
			continue
		}
		libOBSHandle = handle
		libOBSPath = path
		Logger().Sugar().Debugf("libobs loaded from %s", path)
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("failed to load libobs: %w", lastErr)
	}
	return errors.New("libobs not found in any standard location")
}

func getLibOBSPaths(p Platform) []string {
	var paths []string

	if envPath := os.Getenv("OBS_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}
	if p.LibraryName == "" {
		return paths
	}
	if envPath := os.Getenv("OBS_SDK_LIB_PATH"); envPath != "" {
		paths = append(paths, filepath.Join(envPath, p.LibraryName))
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, p.LibraryName),
			filepath.Join(exeDir, "..", "lib", p.LibraryName),
			filepath.Join(exeDir, "..", "Frameworks", p.LibraryName),
		)
	}

	return append(paths, p.LibraryPaths...)
}

// loadLibOBSSymbols resolves every symbol before touching the package
// function pointers, so a half-matching library leaves them untouched.
func loadLibOBSSymbols(handle uintptr) error {
	addrs := make([]uintptr, len(libOBSSymbols))
	for i, sym := range libOBSSymbols {
		addr, err := lookupSymbol(handle, sym.name)
		if err != nil || addr == 0 {
			if sym.optional {
				continue
			}
			return fmt.Errorf("libobs symbol %s: %w", sym.name, err)
		}
		addrs[i] = addr
	}
	for i, sym := range libOBSSymbols {
		if addrs[i] != 0 {
			purego.RegisterFunc(sym.fn, addrs[i])
		}
	}
	return nil
}

// IsAvailable reports whether libobs could be loaded.
func IsAvailable() bool {
	if err := loadLibOBS(); err != nil {
		return false
	}
	return libOBSLoaded
}

// LibraryPath returns the path libobs was loaded from, or "".
func LibraryPath() string {
	if !IsAvailable() {
		return ""
	}
	return libOBSPath
}

// libobs implements nativeAPI on top of the loaded library.
type libobs struct{}

func (libobs) versionString() uintptr { return obsGetVersionString() }
func (libobs) initialized() bool      { return obsInitialized() }
func (libobs) shutdown()              { obsShutdown() }

func (libobs) startup(locale, moduleConfigPath *byte) bool {
	return obsStartup(locale, moduleConfigPath, 0)
}

func (libobs) addDataPath(path *byte)        { obsAddDataPath(path) }
func (libobs) addModulePath(bin, data *byte) { obsAddModulePath(bin, data) }
func (libobs) loadAllModules()               { obsLoadAllModules() }
func (libobs) postLoadModules()              { obsPostLoadModules() }

func (libobs) addSafeModule(name *byte) {
	// Older libobs loads every module it finds; nothing to register.
	if obsAddSafeModule != nil {
		obsAddSafeModule(name)
	}
}

func (libobs) getModule(name *byte) uintptr          { return obsGetModule(name) }
func (libobs) moduleName(module uintptr) uintptr     { return obsGetModuleName(module) }
func (libobs) moduleFileName(module uintptr) uintptr { return obsGetModuleFile(module) }

func (libobs) resetVideo(ovi *videoInfo) int32 { return obsResetVideo(ovi) }

func (libobs) sceneCreate(name *byte) uintptr         { return obsSceneCreate(name) }
func (libobs) sceneGetRef(scene uintptr) uintptr      { return obsSceneGetRef(scene) }
func (libobs) sceneRelease(scene uintptr)             { obsSceneRelease(scene) }
func (libobs) sceneGetSource(scene uintptr) uintptr   { return obsSceneGetSource(scene) }
func (libobs) sceneAdd(scene, source uintptr) uintptr { return obsSceneAdd(scene, source) }

func (libobs) sceneFindSource(scene uintptr, name *byte) uintptr {
	return obsSceneFindSource(scene, name)
}

func (libobs) sceneitemAddref(item uintptr)            { obsSceneitemAddref(item) }
func (libobs) sceneitemRelease(item uintptr)           { obsSceneitemRelease(item) }
func (libobs) sceneitemGetSource(item uintptr) uintptr { return obsSceneitemGetSource(item) }
func (libobs) sceneitemGetID(item uintptr) int64       { return obsSceneitemGetID(item) }
func (libobs) sceneitemVisible(item uintptr) bool      { return obsSceneitemVisible(item) }

func (libobs) sceneitemSetVisible(item uintptr, visible bool) bool {
	return obsSceneitemSetVisible(item, visible)
}

func (libobs) sourceCreate(id, name *byte, settings, hotkeys uintptr) uintptr {
	return obsSourceCreate(id, name, settings, hotkeys)
}

func (libobs) sourceGetRef(source uintptr) uintptr      { return obsSourceGetRef(source) }
func (libobs) sourceRelease(source uintptr)             { obsSourceRelease(source) }
func (libobs) sourceGetName(source uintptr) uintptr     { return obsSourceGetName(source) }
func (libobs) sourceGetID(source uintptr) uintptr       { return obsSourceGetID(source) }
func (libobs) sourceGetSettings(source uintptr) uintptr { return obsSourceGetSettings(source) }
func (libobs) sourceUpdate(source, settings uintptr)    { obsSourceUpdate(source, settings) }

func (libobs) setOutputSource(channel uint32, source uintptr) { obsSetOutputSource(channel, source) }
func (libobs) getOutputSource(channel uint32) uintptr         { return obsGetOutputSource(channel) }

func (libobs) dataCreate() uintptr                   { return obsDataCreate() }
func (libobs) dataCreateFromJSON(json *byte) uintptr { return obsDataCreateFromJSON(json) }
func (libobs) dataAddref(data uintptr)               { obsDataAddref(data) }
func (libobs) dataRelease(data uintptr)              { obsDataRelease(data) }
func (libobs) dataGetJSON(data uintptr) uintptr      { return obsDataGetJSON(data) }

func (libobs) dataSetString(data uintptr, key, value *byte) {
	obsDataSetString(data, key, value)
}

func (libobs) dataSetInt(data uintptr, key *byte, value int64) { obsDataSetInt(data, key, value) }
func (libobs) dataSetBool(data uintptr, key *byte, value bool) { obsDataSetBool(data, key, value) }
func (libobs) dataGetString(data uintptr, key *byte) uintptr   { return obsDataGetString(data, key) }
func (libobs) dataGetInt(data uintptr, key *byte) int64        { return obsDataGetInt(data, key) }
func (libobs) dataGetBool(data uintptr, key *byte) bool        { return obsDataGetBool(data, key) }

func (libobs) dataHasUserValue(data uintptr, key *byte) bool {
	return obsDataHasUserValue(data, key)
}

func (libobs) displayCreate(info *gsInitData, background uint32) uintptr {
	return obsDisplayCreate(info, background)
}

func (libobs) displayDestroy(display uintptr) { obsDisplayDestroy(display) }

func (libobs) displayResize(display uintptr, cx, cy uint32) {
	obsDisplayResize(display, cx, cy)
}

func (libobs) displaySetBackgroundColor(display uintptr, color uint32) {
	obsDisplaySetBackgroundColor(display, color)
}

func (libobs) displaySetEnabled(display uintptr, enabled bool) {
	obsDisplaySetEnabled(display, enabled)
}
