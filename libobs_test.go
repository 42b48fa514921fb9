//go:build darwin || linux || windows

package obs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLibOBSPaths(t *testing.T) {
	t.Setenv("OBS_LIB_PATH", "/custom/libobs.so.30")
	t.Setenv("OBS_SDK_LIB_PATH", "/sdk/lib")

	p := Platforms["linux"]
	paths := getLibOBSPaths(p)
	require.GreaterOrEqual(t, len(paths), 2+len(p.LibraryPaths))
	assert.Equal(t, "/custom/libobs.so.30", paths[0])
	assert.Equal(t, filepath.Join("/sdk/lib", "libobs.so.0"), paths[1])
	assert.Equal(t, p.LibraryPaths, paths[len(paths)-len(p.LibraryPaths):])
}

func TestGetLibOBSPaths_UnknownPlatform(t *testing.T) {
	t.Setenv("OBS_LIB_PATH", "")
	t.Setenv("OBS_SDK_LIB_PATH", "/sdk/lib")
	assert.Empty(t, getLibOBSPaths(Platform{GOOS: "plan9"}))
}

func TestSymbolTableIsComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, sym := range libOBSSymbols {
		assert.False(t, seen[sym.name], "duplicate symbol %s", sym.name)
		seen[sym.name] = true
		assert.NotNil(t, sym.fn)
	}
	assert.True(t, seen["obs_add_safe_module"])
}

// TestLibOBS_Version runs against a real libobs when one is installed.
// It only touches calls that are valid before obs_startup.
func TestLibOBS_Version(t *testing.T) {
	if !IsAvailable() {
		t.Skip("libobs not available")
	}
	t.Logf("libobs loaded from %s", LibraryPath())

	e, err := NewEngine()
	require.NoError(t, err)

	v, err := e.Version()
	require.NoError(t, err)
	assert.NotEmpty(t, v)
	t.Logf("libobs %s, ready=%v", v, e.Ready())
}
