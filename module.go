package obs

import "fmt"

// Module is a handle to a loaded plugin module (obs_module_t).
// libobs keeps modules loaded until shutdown; Clone and Release only track
// the Go-side owners.
type Module struct {
	ref
}

func newModule(api nativeAPI, fn string, ptr uintptr) *Module {
	r, ok := claim(api, moduleKind, fn, ptr)
	if !ok {
		return nil
	}
	return &Module{r}
}

func (m *Module) Clone() *Module {
	return &Module{m.clone()}
}

func (m *Module) Release() {
	if m != nil {
		m.release()
	}
}

// Name returns the module's display name, or "null" when the module
// does not declare one.
func (m *Module) Name() string {
	return goStringOr(m.api.moduleName(m.raw()))
}

// FileName returns the module's binary name without extension, which is
// also the name LoadModules takes.
func (m *Module) FileName() string {
	return goStringOr(m.api.moduleFileName(m.raw()))
}

// ID is FileName.
func (m *Module) ID() string {
	return m.FileName()
}

func (m *Module) String() string {
	if m == nil || m.Released() {
		return "Module(<released>)"
	}
	return fmt.Sprintf("Module(%q, %s)", m.Name(), m.FileName())
}
