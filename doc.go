// Package obs is a reference-counted handle layer and lifecycle state
// machine over libobs, the OBS Studio media engine.
//
// Key pieces include:
//   - Engine: startup, module loading, video reset, scenes, sources,
//     output channels and displays, gated by a lifecycle State
//   - Source, Scene, SceneItem, Module, Data and Display handles, each one
//     strong reference to a native object
//   - VideoConfig and the VideoFormat table for obs_reset_video
//   - Fields/Scalar for flat settings objects
//   - Platforms, the per-OS table of library names, graphics modules and
//     plugin layouts
//
// # Lifecycle
//
//	Uninitialized --Init--> Started --ResetVideo--> VideoConfigured
//	      ^                                              |
//	      +------------------- Shutdown -----------------+
//
// Calls made in the wrong state return an error of kind KindWrongState.
//
// # References
//
// Every handle owns exactly one native reference. Clone takes another,
// Release gives it back; Release is idempotent and safe on nil. Native
// accessors that do not grant a reference are compensated in one place,
// so a handle returned by this package is always owned by the caller.
//
// # Native Library
//
// libobs is loaded at runtime with purego (no cgo). Set OBS_LIB_PATH to
// the library file or OBS_SDK_LIB_PATH to its directory to override the
// platform defaults.
//
// # Threads
//
// libobs is single threaded by contract. Keep an Engine and its handles on
// one goroutine locked with runtime.LockOSThread.
package obs
