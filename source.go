package obs

import "fmt"

// Source is a strong reference to a native source (obs_source_t).
//
// A Source is confined to the goroutine that owns its Engine. Release it
// when done; Clone for an independent owner.
type Source struct {
	ref
}

func newSource(api nativeAPI, fn string, ptr uintptr) *Source {
	r, ok := claim(api, sourceKind, fn, ptr)
	if !ok {
		return nil
	}
	return &Source{r}
}

// Clone returns an independent reference to the same source.
func (s *Source) Clone() *Source {
	return &Source{s.clone()}
}

// Release drops this reference. It is safe on nil and on released handles.
func (s *Source) Release() {
	if s != nil {
		s.release()
	}
}

// Name returns the instance name, or "null".
func (s *Source) Name() string {
	return goStringOr(s.api.sourceGetName(s.raw()))
}

// ID returns the source type id (e.g. "color_source"), or "null".
func (s *Source) ID() string {
	return goStringOr(s.api.sourceGetID(s.raw()))
}

// Same reports whether s and o refer to the same native source.
func (s *Source) Same(o *Source) bool {
	if s == nil || o == nil {
		return false
	}
	return s.same(&o.ref)
}

// Settings returns a new reference to the source's settings object.
func (s *Source) Settings() (*Data, error) {
	d := newData(s.api, "obs_source_get_settings", s.api.sourceGetSettings(s.raw()))
	if d == nil {
		return nil, nullPointer("source_get_settings")
	}
	return d, nil
}

// Update applies settings to the source. The source does not keep the
// caller's reference. A nil settings is ignored.
func (s *Source) Update(settings *Data) {
	if settings == nil {
		return
	}
	ptr, _ := settings.lend("obs_source_update")
	s.api.sourceUpdate(s.raw(), ptr)
}

func (s *Source) String() string {
	if s == nil || s.Released() {
		return "Source(<released>)"
	}
	return fmt.Sprintf("Source(%q, %s)", s.Name(), s.ID())
}
