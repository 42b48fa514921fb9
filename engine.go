package obs

import (
	"os"

	"go.uber.org/zap"
)

// State is the engine lifecycle state.
type State uint8

const (
	StateUninitialized   State = iota // before obs_startup or after Shutdown
	StateStarted                      // modules and scenes may be used
	StateVideoConfigured              // sources, channels and displays may be used
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarted:
		return "started"
	case StateVideoConfigured:
		return "video-configured"
	default:
		return "unknown"
	}
}

// Engine is the facade over the process-wide libobs instance.
//
// libobs is single threaded by contract: an Engine and every handle it
// produces must stay on one goroutine, preferably one locked to its OS
// thread with runtime.LockOSThread. Nothing here is safe for concurrent
// use.
type Engine struct {
	api      nativeAPI
	platform Platform
	home     string
	log      *zap.Logger

	state  State
	scenes []*Scene
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The package logger is the default.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPlatform overrides the platform table entry (graphics backends and
// module layouts) used by the engine.
func WithPlatform(p Platform) Option {
	return func(e *Engine) {
		e.platform = p
	}
}

// WithHomeDir sets the directory "~" and "$HOME" expand to in module
// prefixes. The user's home directory is the default.
func WithHomeDir(dir string) Option {
	return func(e *Engine) {
		e.home = dir
	}
}

// NewEngine loads libobs and returns an engine bound to it.
func NewEngine(opts ...Option) (*Engine, error) {
	if err := loadLibOBS(); err != nil {
		return nil, &Error{Kind: KindLibraryUnavailable, Op: "load_libobs", Cause: err}
	}
	return newEngine(libobs{}, opts...), nil
}

func newEngine(api nativeAPI, opts ...Option) *Engine {
	e := &Engine{
		api:      api,
		platform: CurrentPlatform(),
		log:      Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.home == "" {
		if home, err := os.UserHomeDir(); err == nil {
			e.home = home
		}
	}
	if api.initialized() {
		// Started by someone else; video state is unknown.
		e.state = StateStarted
	}
	return e
}

// Version returns the libobs version string. It is valid in any state.
func (e *Engine) Version() (string, error) {
	return goString("obs_get_version_string", e.api.versionString())
}

// Ready reports whether libobs is initialized. It is never cached.
func (e *Engine) Ready() bool {
	return e.api.initialized()
}

// State returns the lifecycle state, derived from Ready.
func (e *Engine) State() State {
	if !e.Ready() {
		return StateUninitialized
	}
	return e.state
}

func (e *Engine) require(op string, min State) error {
	if st := e.State(); st < min {
		return wrongState(op, st)
	}
	return nil
}

// Init starts libobs with locale (e.g. "en-US").
func (e *Engine) Init(locale string) error {
	return e.InitWithConfig(locale, "")
}

// InitWithConfig starts libobs with locale and a module configuration
// directory ("" for none). Check Ready first: starting twice fails.
func (e *Engine) InitWithConfig(locale, moduleConfigPath string) error {
	if e.Ready() {
		return &Error{Kind: KindInitFailed, Op: "obs_startup", Name: "already initialized"}
	}
	cLocale, err := cString("obs_startup", locale)
	if err != nil {
		return &Error{Kind: KindInitFailed, Op: "obs_startup", Name: "locale", Cause: err}
	}
	cPath, err := cStringOrNil("obs_startup", moduleConfigPath)
	if err != nil {
		return &Error{Kind: KindInitFailed, Op: "obs_startup", Name: "module config path", Cause: err}
	}

	if !e.api.startup(cLocale, cPath) {
		return &Error{Kind: KindInitFailed, Op: "obs_startup", Name: locale}
	}
	e.state = StateStarted
	e.log.Info("obs started",
		zap.String("locale", locale),
		zap.String("module_config_path", moduleConfigPath))
	return nil
}

// AddDataPath registers an extra libobs data directory.
func (e *Engine) AddDataPath(path string) error {
	cPath, err := cString("obs_add_data_path", path)
	if err != nil {
		return err
	}
	e.api.addDataPath(cPath)
	e.log.Debug("data path added", zap.String("path", path))
	return nil
}

// AddModulePath registers one binary/data directory pair for plugins.
func (e *Engine) AddModulePath(bin, data string) error {
	if err := e.require("add_module_path", StateStarted); err != nil {
		return err
	}
	cBin, err := cString("obs_add_module_path", bin)
	if err != nil {
		return err
	}
	cData, err := cString("obs_add_module_path", data)
	if err != nil {
		return err
	}
	e.api.addModulePath(cBin, cData)
	e.log.Debug("module path added", zap.String("bin", bin), zap.String("data", data))
	return nil
}

// AddDefaultModulePath registers the plugin directories of an OBS
// installation rooted at prefix, following the platform's layouts.
func (e *Engine) AddDefaultModulePath(prefix string) error {
	if err := e.require("add_default_module_path", StateStarted); err != nil {
		return err
	}
	for _, p := range ResolveModulePaths(e.platform, prefix, e.home) {
		if err := e.AddModulePath(p.Bin, p.Data); err != nil {
			return err
		}
	}
	return nil
}

// LoadModules allows the named modules, runs one libobs load and post-load
// pass for the whole batch and returns the modules in input order.
// Modules loaded before a failure stay loaded.
func (e *Engine) LoadModules(names ...string) ([]*Module, error) {
	if err := e.require("load_modules", StateStarted); err != nil {
		return nil, err
	}
	cNames := make([]*byte, len(names))
	for i, name := range names {
		p, err := cString("obs_add_safe_module", name)
		if err != nil {
			return nil, err
		}
		cNames[i] = p
	}

	for _, p := range cNames {
		e.api.addSafeModule(p)
	}
	e.api.loadAllModules()
	e.api.postLoadModules()

	modules := make([]*Module, 0, len(names))
	for i, name := range names {
		m := newModule(e.api, "obs_get_module", e.api.getModule(cNames[i]))
		if m == nil {
			for _, loaded := range modules {
				loaded.Release()
			}
			return nil, &Error{Kind: KindModuleNotFound, Op: "obs_get_module", Name: name}
		}
		modules = append(modules, m)
	}
	e.log.Info("modules loaded", zap.Strings("modules", names))
	return modules, nil
}

// Module looks up an already loaded module by file name.
func (e *Engine) Module(name string) (*Module, error) {
	if err := e.require("module", StateStarted); err != nil {
		return nil, err
	}
	cName, err := cString("obs_get_module", name)
	if err != nil {
		return nil, err
	}
	m := newModule(e.api, "obs_get_module", e.api.getModule(cName))
	if m == nil {
		return nil, &Error{Kind: KindModuleNotFound, Op: "obs_get_module", Name: name}
	}
	return m, nil
}

// ResetVideo (re)configures the video pipeline. libobs refuses while any
// output is active; that and every other native failure come back as
// KindEngineCode.
func (e *Engine) ResetVideo(cfg VideoConfig) error {
	if err := e.require("reset_video", StateStarted); err != nil {
		return err
	}
	ovi, err := cfg.build(e.platform)
	if err != nil {
		return err
	}
	if code := e.api.resetVideo(&ovi); code != videoSuccess {
		return engineCode("obs_reset_video", int(code))
	}
	e.state = StateVideoConfigured
	e.log.Info("video reset", zap.Stringer("video", cfg))
	return nil
}

// CreateScene creates a scene. The engine keeps its own reference for
// bookkeeping; the returned handle is owned by the caller.
func (e *Engine) CreateScene(name string) (*Scene, error) {
	if err := e.require("create_scene", StateStarted); err != nil {
		return nil, err
	}
	cName, err := cString("obs_scene_create", name)
	if err != nil {
		return nil, err
	}
	s := newScene(e.api, "obs_scene_create", e.api.sceneCreate(cName))
	if s == nil {
		return nil, nullPointer("create_scene")
	}
	e.scenes = append(e.scenes, s.Clone())
	e.log.Debug("scene created", zap.String("name", name))
	return s, nil
}

// Scenes returns new references to the scenes this engine created.
func (e *Engine) Scenes() []*Scene {
	out := make([]*Scene, 0, len(e.scenes))
	for _, s := range e.scenes {
		out = append(out, s.Clone())
	}
	return out
}

// Scene returns a new reference to the first created scene called name,
// or nil.
func (e *Engine) Scene(name string) *Scene {
	for _, s := range e.scenes {
		if s.Name() == name {
			return s.Clone()
		}
	}
	return nil
}

// CreateSource creates a source of type typeID (e.g. "color_source")
// configured by settings, which may be nil. libobs does not say why
// creation failed; an unknown type and every other failure surface as
// KindNullPointer.
func (e *Engine) CreateSource(name, typeID string, settings *Data) (*Source, error) {
	if err := e.require("create_source", StateVideoConfigured); err != nil {
		return nil, err
	}
	cID, err := cString("obs_source_create", typeID)
	if err != nil {
		return nil, err
	}
	cName, err := cString("obs_source_create", name)
	if err != nil {
		return nil, err
	}
	var cSettings uintptr
	if settings != nil {
		cSettings, _ = settings.lend("obs_source_create")
	}

	src := newSource(e.api, "obs_source_create", e.api.sourceCreate(cID, cName, cSettings, 0))
	if src == nil {
		return nil, nullPointer("create_source")
	}
	e.log.Debug("source created", zap.String("name", name), zap.String("type", typeID))
	return src, nil
}

// SetChannelSource routes src to an output channel; nil clears it. libobs
// releases the previous occupant and takes its own reference to src.
// Channels at or past MaxChannels are ignored.
func (e *Engine) SetChannelSource(channel uint32, src *Source) error {
	if err := e.require("set_channel_source", StateVideoConfigured); err != nil {
		return err
	}
	if channel >= MaxChannels {
		e.log.Debug("channel out of range ignored", zap.Uint32("channel", channel))
		return nil
	}
	var ptr uintptr
	if src != nil {
		ptr, _ = src.lend("obs_set_output_source")
	}
	e.api.setOutputSource(channel, ptr)
	return nil
}

// ChannelSource returns a new reference to the source routed to channel,
// or nil when the channel is empty or out of range.
func (e *Engine) ChannelSource(channel uint32) (*Source, error) {
	if err := e.require("channel_source", StateVideoConfigured); err != nil {
		return nil, err
	}
	if channel >= MaxChannels {
		return nil, nil
	}
	return newSource(e.api, "obs_get_output_source", e.api.getOutputSource(channel)), nil
}

// CreateDisplay creates a display surface bound to a host window, cleared
// with background (0xAABBGGRR).
func (e *Engine) CreateDisplay(info DisplayInfo, background uint32) (*Display, error) {
	if err := e.require("create_display", StateVideoConfigured); err != nil {
		return nil, err
	}
	gs := info.native()
	d := newDisplay(e.api, e.api.displayCreate(&gs, background), info.Width, info.Height)
	if d == nil {
		return nil, nullPointer("create_display")
	}
	return d, nil
}

// Shutdown releases the engine's scene references, clears every output
// channel and shuts libobs down. Handles still held by callers must be
// released before calling it.
func (e *Engine) Shutdown() error {
	if err := e.require("shutdown", StateStarted); err != nil {
		return err
	}
	names := make([]string, 0, len(e.scenes))
	for _, s := range e.scenes {
		names = append(names, s.Name())
		s.Release()
	}
	e.scenes = nil

	for ch := uint32(0); ch < MaxChannels; ch++ {
		e.api.setOutputSource(ch, 0)
	}
	e.api.shutdown()
	e.state = StateUninitialized
	e.log.Info("obs shut down", zap.Strings("scenes", names))
	return nil
}
