package obs

// Reference ownership of the native calls that produce or consume objects.
//
// grants: true when the returned pointer already carries a reference for
// the caller, false when the accessor only lends it and the wrapper has to
// acquire one before handing out a handle.
var grants = map[string]bool{
	"obs_scene_create":          true,
	"obs_scene_get_source":      false,
	"obs_scene_add":             false,
	"obs_scene_find_source":     false,
	"obs_sceneitem_get_source":  false,
	"obs_source_create":         true,
	"obs_source_get_settings":   true,
	"obs_get_output_source":     true,
	"obs_data_create":           true,
	"obs_data_create_from_json": true,
	"obs_get_module":            true,
	"obs_display_create":        true,
}

// adopts: true when the call keeps the argument without acquiring its own
// reference and releases it later (obs_scene_add releases the source at
// item teardown). The wrapper lends such calls a fresh reference.
var adopts = map[string]bool{
	"obs_scene_add":         true,
	"obs_set_output_source": false,
	"obs_source_update":     false,
	"obs_source_create":     false,
}

// refKind binds a handle kind to its native reference primitives.
// A nil acquire means libobs does not count references for the kind; the
// count is then kept on the Go side and release runs for the last one.
type refKind struct {
	name    string
	acquire func(api nativeAPI, ptr uintptr) uintptr
	release func(api nativeAPI, ptr uintptr)
}

var (
	sourceKind = &refKind{
		name:    "Source",
		acquire: func(api nativeAPI, ptr uintptr) uintptr { return api.sourceGetRef(ptr) },
		release: func(api nativeAPI, ptr uintptr) { api.sourceRelease(ptr) },
	}
	sceneKind = &refKind{
		name:    "Scene",
		acquire: func(api nativeAPI, ptr uintptr) uintptr { return api.sceneGetRef(ptr) },
		release: func(api nativeAPI, ptr uintptr) { api.sceneRelease(ptr) },
	}
	sceneItemKind = &refKind{
		name: "SceneItem",
		acquire: func(api nativeAPI, ptr uintptr) uintptr {
			api.sceneitemAddref(ptr)
			return ptr
		},
		release: func(api nativeAPI, ptr uintptr) { api.sceneitemRelease(ptr) },
	}
	dataKind = &refKind{
		name: "Data",
		acquire: func(api nativeAPI, ptr uintptr) uintptr {
			api.dataAddref(ptr)
			return ptr
		},
		release: func(api nativeAPI, ptr uintptr) { api.dataRelease(ptr) },
	}
	// Modules stay loaded until obs_shutdown.
	moduleKind  = &refKind{name: "Module"}
	displayKind = &refKind{
		name:    "Display",
		release: func(api nativeAPI, ptr uintptr) { api.displayDestroy(ptr) },
	}
)

// ref is one strong reference to a native object. It is embedded by every
// handle type. The zero ptr marks a released reference.
type ref struct {
	api   nativeAPI
	kind  *refKind
	ptr   uintptr
	local *int32 // shared Go-side count for kinds without native refcounts
}

// claim wraps ptr, just returned by the native call fn, as a new strong
// reference. It is the only place that compensates for accessors that do
// not grant a reference. A zero ptr yields ok == false.
func claim(api nativeAPI, kind *refKind, fn string, ptr uintptr) (r ref, ok bool) {
	if ptr == 0 {
		return ref{}, false
	}
	granted, known := grants[fn]
	if !known {
		panic("obs: no ownership entry for " + fn)
	}

	if kind.acquire == nil {
		n := int32(1)
		return ref{api: api, kind: kind, ptr: ptr, local: &n}, true
	}
	if !granted {
		ptr = kind.acquire(api, ptr)
		if ptr == 0 {
			return ref{}, false
		}
	}
	return ref{api: api, kind: kind, ptr: ptr}, true
}

// raw returns the native pointer. Using a released handle is a
// programming error.
func (r *ref) raw() uintptr {
	if r.ptr == 0 {
		panic("obs: use of released " + r.kind.name)
	}
	return r.ptr
}

// clone acquires another reference to the same object.
func (r *ref) clone() ref {
	ptr := r.raw()
	if r.kind.acquire == nil {
		*r.local++
		return ref{api: r.api, kind: r.kind, ptr: ptr, local: r.local}
	}
	p := r.kind.acquire(r.api, ptr)
	if p == 0 {
		panic("obs: " + r.kind.name + " reached zero references while held")
	}
	return ref{api: r.api, kind: r.kind, ptr: p}
}

// release drops the reference. Later calls are no-ops.
func (r *ref) release() {
	if r.ptr == 0 {
		return
	}
	ptr := r.ptr
	r.ptr = 0

	if r.kind.acquire == nil {
		*r.local--
		if *r.local == 0 && r.kind.release != nil {
			r.kind.release(r.api, ptr)
		}
		return
	}
	r.kind.release(r.api, ptr)
}

// lend prepares r as an argument of the native call fn. For calls that
// adopt their argument a fresh reference is handed over; undo gives it
// back when the call produced nothing.
func (r *ref) lend(fn string) (ptr uintptr, undo func()) {
	if !adopts[fn] {
		return r.raw(), func() {}
	}
	donated := r.clone()
	return donated.ptr, donated.release
}

// Released reports whether Release has been called on this handle value.
func (r *ref) Released() bool {
	return r.ptr == 0
}

// same reports whether both refs point at the same live native object.
func (r *ref) same(o *ref) bool {
	return r.ptr != 0 && r.ptr == o.ptr
}
