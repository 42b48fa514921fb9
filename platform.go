package obs

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// ModuleLayout is one plugin directory convention, relative to an
// installation prefix. DataDir (and on macOS BinDir) carries the %module%
// placeholder libobs substitutes per loaded module.
type ModuleLayout struct {
	Name    string
	BinDir  string
	DataDir string
}

// ModulePath is a resolved (binary, data) pair for obs_add_module_path.
type ModulePath struct {
	Bin  string
	Data string
}

// ModulePlaceholder is substituted by libobs with each module's name.
const ModulePlaceholder = "%module%"

var (
	bundleLayout  = ModuleLayout{"bundle", "PlugIns/%module%.plugin/Contents/MacOS", "PlugIns/%module%.plugin/Contents/Resources"}
	flatLayout    = ModuleLayout{"flat", "obs-plugins/64bit", "data/obs-plugins/%module%"}
	installLayout = ModuleLayout{"install", "lib/obs-plugins", "share/obs/obs-plugins/%module%"}
)

// Platform is the data-only strategy record for one target OS.
type Platform struct {
	GOOS           string
	LibraryName    string   // libobs file name, joined onto OBS_SDK_LIB_PATH
	LibraryPaths   []string // system locations tried after the overrides
	DefaultPrefix  string   // typical installation prefix
	DefaultBackend GraphicsBackend
	Backends       [backendCount]string // graphics_module per backend, "" = unsupported
	ModuleLayouts  []ModuleLayout
}

// Platforms is the closed table of supported targets, keyed by GOOS.
var Platforms = map[string]Platform{
	"darwin": {
		GOOS:        "darwin",
		LibraryName: "libobs.framework/libobs",
		LibraryPaths: []string{
			"/Applications/OBS.app/Contents/Frameworks/libobs.framework/libobs",
			"/Applications/OBS.app/Contents/Frameworks/libobs.framework/Versions/A/libobs",
			"libobs.framework/libobs",
		},
		DefaultPrefix:  "/Applications/OBS.app/Contents",
		DefaultBackend: BackendOpenGL,
		Backends: [backendCount]string{
			BackendOpenGL: "libobs-opengl.dylib",
		},
		ModuleLayouts: []ModuleLayout{bundleLayout},
	},
	"linux": {
		GOOS:        "linux",
		LibraryName: "libobs.so.0",
		LibraryPaths: []string{
			"libobs.so.0",
			"libobs.so",
			"/usr/lib/libobs.so.0",
			"/usr/lib/x86_64-linux-gnu/libobs.so.0",
			"/usr/lib64/libobs.so.0",
			"/usr/local/lib/libobs.so.0",
		},
		DefaultPrefix:  "/usr",
		DefaultBackend: BackendOpenGL,
		Backends: [backendCount]string{
			BackendOpenGL: "libobs-opengl",
		},
		ModuleLayouts: []ModuleLayout{installLayout, flatLayout},
	},
	"windows": {
		GOOS:        "windows",
		LibraryName: "obs.dll",
		LibraryPaths: []string{
			"obs.dll",
			"C:/Program Files/obs-studio/bin/64bit/obs.dll",
		},
		DefaultPrefix:  "C:/Program Files/obs-studio",
		DefaultBackend: BackendD3D11,
		Backends: [backendCount]string{
			BackendOpenGL: "libobs-opengl",
			BackendD3D11:  "libobs-d3d11",
		},
		ModuleLayouts: []ModuleLayout{flatLayout},
	},
}

var (
	currentPlatform     Platform
	currentPlatformOnce sync.Once
)

// CurrentPlatform returns the table entry for runtime.GOOS. Unknown
// targets get an entry with no library, backends or layouts.
func CurrentPlatform() Platform {
	currentPlatformOnce.Do(func() {
		p, ok := Platforms[runtime.GOOS]
		if !ok {
			p = Platform{GOOS: runtime.GOOS}
		}
		currentPlatform = p
	})
	return currentPlatform
}

// backendLibrary maps b to the graphics_module string for this platform.
func (p Platform) backendLibrary(b GraphicsBackend) (string, error) {
	if b == BackendDefault {
		b = p.DefaultBackend
	}
	if b >= backendCount || p.Backends[b] == "" {
		return "", unsupported("graphics_module", b.String()+" on "+p.GOOS)
	}
	return p.Backends[b], nil
}

// ResolveModulePaths expands prefix and joins it with every module layout
// of p, in table order. It does not touch the filesystem.
func ResolveModulePaths(p Platform, prefix, home string) []ModulePath {
	root := filepath.ToSlash(ExpandHome(prefix, home))

	paths := make([]ModulePath, 0, len(p.ModuleLayouts))
	for _, l := range p.ModuleLayouts {
		paths = append(paths, ModulePath{
			Bin:  path.Join(root, l.BinDir),
			Data: path.Join(root, l.DataDir),
		})
	}
	return paths
}

// ExpandHome replaces a leading "~" and any "$HOME" / "${HOME}" token
// with home. An empty home leaves prefix untouched.
func ExpandHome(prefix, home string) string {
	if home == "" {
		return prefix
	}
	switch {
	case prefix == "~":
		prefix = home
	case strings.HasPrefix(prefix, "~/"):
		prefix = home + prefix[1:]
	}
	prefix = strings.ReplaceAll(prefix, "${HOME}", home)
	return strings.ReplaceAll(prefix, "$HOME", home)
}
