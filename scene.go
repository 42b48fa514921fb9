package obs

import "fmt"

// Scene is a strong reference to a native scene (obs_scene_t).
// A scene shares its reference count with its underlying source.
type Scene struct {
	ref
}

func newScene(api nativeAPI, fn string, ptr uintptr) *Scene {
	r, ok := claim(api, sceneKind, fn, ptr)
	if !ok {
		return nil
	}
	return &Scene{r}
}

// Clone returns an independent reference to the same scene.
func (s *Scene) Clone() *Scene {
	return &Scene{s.clone()}
}

// Release drops this reference. It is safe on nil and on released handles.
func (s *Scene) Release() {
	if s != nil {
		s.release()
	}
}

// Name returns the scene name, or "null".
func (s *Scene) Name() string {
	// The scene reference keeps its source alive for the duration of the call.
	return goStringOr(s.api.sourceGetName(s.api.sceneGetSource(s.raw())))
}

// AsSource returns a new reference to the scene's source, suitable for
// output channels or for nesting the scene in another scene.
func (s *Scene) AsSource() *Source {
	src := newSource(s.api, "obs_scene_get_source", s.api.sceneGetSource(s.raw()))
	if src == nil {
		panic("obs: scene without source")
	}
	return src
}

// AddSource places src in the scene and returns the new item. The item
// holds its own reference; src stays owned by the caller.
func (s *Scene) AddSource(src *Source) (*SceneItem, error) {
	if src == nil {
		return nil, nullPointer("scene_add")
	}
	arg, undo := src.lend("obs_scene_add")
	item := newSceneItem(s.api, "obs_scene_add", s.api.sceneAdd(s.raw(), arg))
	if item == nil {
		undo()
		return nil, nullPointer("scene_add")
	}
	return item, nil
}

// FindSource returns the first item whose source is called name, or nil.
func (s *Scene) FindSource(name string) (*SceneItem, error) {
	cname, err := cString("scene_find_source", name)
	if err != nil {
		return nil, err
	}
	return newSceneItem(s.api, "obs_scene_find_source", s.api.sceneFindSource(s.raw(), cname)), nil
}

func (s *Scene) String() string {
	if s == nil || s.Released() {
		return "Scene(<released>)"
	}
	return fmt.Sprintf("Scene(%q)", s.Name())
}

// SceneItem is a strong reference to the placement of one source in one
// scene (obs_sceneitem_t). It is independent of the source's own
// references.
type SceneItem struct {
	ref
}

func newSceneItem(api nativeAPI, fn string, ptr uintptr) *SceneItem {
	r, ok := claim(api, sceneItemKind, fn, ptr)
	if !ok {
		return nil
	}
	return &SceneItem{r}
}

// Clone returns an independent reference to the same item.
func (i *SceneItem) Clone() *SceneItem {
	return &SceneItem{i.clone()}
}

// Release drops this reference. It is safe on nil and on released handles.
func (i *SceneItem) Release() {
	if i != nil {
		i.release()
	}
}

// ID returns the item id, unique within its scene.
func (i *SceneItem) ID() int64 {
	return i.api.sceneitemGetID(i.raw())
}

// Name returns the name of the placed source, or "null".
func (i *SceneItem) Name() string {
	return goStringOr(i.api.sourceGetName(i.api.sceneitemGetSource(i.raw())))
}

// Source returns a new reference to the placed source.
func (i *SceneItem) Source() *Source {
	return newSource(i.api, "obs_sceneitem_get_source", i.api.sceneitemGetSource(i.raw()))
}

func (i *SceneItem) Visible() bool {
	return i.api.sceneitemVisible(i.raw())
}

// SetVisible shows or hides the item. It reports whether the state changed.
func (i *SceneItem) SetVisible(visible bool) bool {
	return i.api.sceneitemSetVisible(i.raw(), visible)
}
