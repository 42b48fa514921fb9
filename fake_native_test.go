package obs

import (
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap/zaptest"
)

// fakeOBS is an in-memory libobs. It follows the reference rules of the
// real library closely enough to catch over- and under-release: every
// release below zero is a test error and every use of a freed object is
// fatal.
type fakeOBS struct {
	t    testing.TB
	next uintptr
	strs [][]byte // keeps returned C strings reachable

	ready       bool
	failStartup bool
	locale      string
	configPath  string
	version     string

	dataPaths      []string
	modulePaths    []ModulePath
	available      map[string]string // module file name -> display name
	safe           []string
	loaded         map[string]uintptr
	modules        map[uintptr]*fakeModule
	loadPasses     int
	postLoadPasses int

	video        videoInfo
	videoResets  int
	videoCode    int32
	outputActive bool

	sourceTypes map[string]bool
	sources     map[uintptr]*fakeSource
	scenes      map[uintptr]*fakeScene
	items       map[uintptr]*fakeItem
	itemID      int64
	failAdd     bool
	data        map[uintptr]*fakeData
	nullJSON    bool
	displays    map[uintptr]*fakeDisplay
	failDisplay bool
	channels    [MaxChannels]uintptr
}

type fakeModule struct {
	name string
	file string
}

type fakeSource struct {
	refs     int
	name     string
	id       string
	settings uintptr
	scene    uintptr // set for the source backing a scene
	dead     bool
}

type fakeScene struct {
	source uintptr
	items  []uintptr
}

type fakeItem struct {
	refs    int
	scene   uintptr
	source  uintptr
	id      int64
	visible bool
	dead    bool
}

type fakeData struct {
	refs int
	doc  string
	json []byte
	dead bool
}

type fakeDisplay struct {
	info      gsInitData
	color     uint32
	enabled   bool
	destroyed int
}

var _ nativeAPI = (*fakeOBS)(nil)

func newFakeOBS(t testing.TB) *fakeOBS {
	return &fakeOBS{
		t:       t,
		version: "30.1.2",
		available: map[string]string{
			"obs-ffmpeg":     "FFmpeg Output",
			"image-source":   "Image Source",
			"text-freetype2": "",
		},
		loaded:  map[string]uintptr{},
		modules: map[uintptr]*fakeModule{},
		sourceTypes: map[string]bool{
			"color_source":    true,
			"image_source":    true,
			"text_ft2_source": true,
		},
		sources:  map[uintptr]*fakeSource{},
		scenes:   map[uintptr]*fakeScene{},
		items:    map[uintptr]*fakeItem{},
		data:     map[uintptr]*fakeData{},
		displays: map[uintptr]*fakeDisplay{},
	}
}

// newTestEngine returns an engine over a fresh fake, using the linux
// platform entry regardless of the host.
func newTestEngine(t *testing.T) (*Engine, *fakeOBS) {
	t.Helper()
	f := newFakeOBS(t)
	e := newEngine(f,
		WithPlatform(Platforms["linux"]),
		WithHomeDir("/home/obs"),
		WithLogger(zaptest.NewLogger(t)),
	)
	return e, f
}

func startedEngine(t *testing.T) (*Engine, *fakeOBS) {
	t.Helper()
	e, f := newTestEngine(t)
	require.NoError(t, e.Init("en-US"))
	return e, f
}

func videoEngine(t *testing.T) (*Engine, *fakeOBS) {
	t.Helper()
	e, f := startedEngine(t)
	require.NoError(t, e.ResetVideo(testVideoConfig()))
	return e, f
}

func testVideoConfig() VideoConfig {
	return NewVideoConfig().
		WithFPS(30000, 1000).
		WithBaseSize(1920, 1080).
		WithOutputSize(1920, 1080).
		WithOutputFormat(VideoFormatI420)
}

func (f *fakeOBS) alloc() uintptr {
	f.next += 0x10
	return 0x1000 + f.next
}

func (f *fakeOBS) cstr(s string) uintptr {
	b := append([]byte(s), 0)
	f.strs = append(f.strs, b)
	return uintptr(unsafe.Pointer(&b[0]))
}

func gostr(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

// =============================================================================
// Lifecycle
// =============================================================================

func (f *fakeOBS) versionString() uintptr { return f.cstr(f.version) }
func (f *fakeOBS) initialized() bool      { return f.ready }

func (f *fakeOBS) startup(locale, moduleConfigPath *byte) bool {
	if f.failStartup || f.ready {
		return false
	}
	f.ready = true
	f.locale = gostr(locale)
	f.configPath = gostr(moduleConfigPath)
	return true
}

func (f *fakeOBS) shutdown() {
	f.ready = false
	f.loaded = map[string]uintptr{}
	f.safe = nil
}

// =============================================================================
// Modules
// =============================================================================

func (f *fakeOBS) addDataPath(path *byte) {
	f.dataPaths = append(f.dataPaths, gostr(path))
}

func (f *fakeOBS) addModulePath(bin, data *byte) {
	f.modulePaths = append(f.modulePaths, ModulePath{Bin: gostr(bin), Data: gostr(data)})
}

func (f *fakeOBS) addSafeModule(name *byte) {
	f.safe = append(f.safe, gostr(name))
}

func (f *fakeOBS) loadAllModules() {
	f.loadPasses++
	for file, name := range f.available {
		if _, ok := f.loaded[file]; ok {
			continue
		}
		if len(f.safe) > 0 && !slices.Contains(f.safe, file) {
			continue
		}
		p := f.alloc()
		f.modules[p] = &fakeModule{name: name, file: file}
		f.loaded[file] = p
	}
}

func (f *fakeOBS) postLoadModules() { f.postLoadPasses++ }

func (f *fakeOBS) getModule(name *byte) uintptr { return f.loaded[gostr(name)] }

func (f *fakeOBS) moduleName(module uintptr) uintptr {
	if m := f.modules[module]; m.name != "" {
		return f.cstr(m.name)
	}
	return 0
}

func (f *fakeOBS) moduleFileName(module uintptr) uintptr {
	return f.cstr(f.modules[module].file)
}

// =============================================================================
// Video
// =============================================================================

func (f *fakeOBS) resetVideo(ovi *videoInfo) int32 {
	if f.outputActive {
		return videoCurrentlyActive
	}
	if f.videoCode != videoSuccess {
		return f.videoCode
	}
	f.video = *ovi
	f.videoResets++
	return videoSuccess
}

// =============================================================================
// Sources and scenes
// =============================================================================

func (f *fakeOBS) newSource(name, id string) uintptr {
	p := f.alloc()
	f.sources[p] = &fakeSource{refs: 1, name: name, id: id, settings: f.newData("{}")}
	return p
}

func (f *fakeOBS) sourceOf(p uintptr) *fakeSource {
	s, ok := f.sources[p]
	if !ok || s.dead {
		f.t.Fatalf("source %#x used after free", p)
	}
	return s
}

func (f *fakeOBS) sourceCreate(id, name *byte, settings, hotkeys uintptr) uintptr {
	typeID := gostr(id)
	if !f.sourceTypes[typeID] {
		return 0
	}
	p := f.newSource(gostr(name), typeID)
	if settings != 0 {
		f.data[f.sources[p].settings].doc = f.dataOf(settings).doc
	}
	return p
}

func (f *fakeOBS) sourceGetRef(source uintptr) uintptr {
	s := f.sourceOf(source)
	if s.refs == 0 {
		return 0
	}
	s.refs++
	return source
}

func (f *fakeOBS) sourceRelease(source uintptr) {
	s := f.sourceOf(source)
	if s.refs <= 0 {
		f.t.Errorf("source %q released below zero", s.name)
		return
	}
	s.refs--
	if s.refs > 0 {
		return
	}
	s.dead = true
	f.dataRelease(s.settings)
	if s.scene != 0 {
		sc := f.scenes[s.scene]
		items := sc.items
		sc.items = nil
		for _, it := range items {
			f.sceneitemRelease(it)
		}
	}
}

func (f *fakeOBS) sourceGetName(source uintptr) uintptr { return f.cstr(f.sourceOf(source).name) }
func (f *fakeOBS) sourceGetID(source uintptr) uintptr   { return f.cstr(f.sourceOf(source).id) }

func (f *fakeOBS) sourceGetSettings(source uintptr) uintptr {
	s := f.sourceOf(source)
	f.dataAddref(s.settings)
	return s.settings
}

func (f *fakeOBS) sourceUpdate(source, settings uintptr) {
	dst := f.dataOf(f.sourceOf(source).settings)
	gjson.Parse(f.dataOf(settings).doc).ForEach(func(key, value gjson.Result) bool {
		dst.doc, _ = sjson.SetRaw(dst.doc, escapeKey(key.Str), value.Raw)
		return true
	})
}

func (f *fakeOBS) sceneOf(p uintptr) *fakeScene {
	sc, ok := f.scenes[p]
	if !ok || f.sources[sc.source].dead {
		f.t.Fatalf("scene %#x used after free", p)
	}
	return sc
}

func (f *fakeOBS) sceneCreate(name *byte) uintptr {
	src := f.newSource(gostr(name), "scene")
	p := f.alloc()
	f.scenes[p] = &fakeScene{source: src}
	f.sources[src].scene = p
	return p
}

func (f *fakeOBS) sceneGetRef(scene uintptr) uintptr {
	if f.sourceGetRef(f.sceneOf(scene).source) == 0 {
		return 0
	}
	return scene
}

func (f *fakeOBS) sceneRelease(scene uintptr)           { f.sourceRelease(f.sceneOf(scene).source) }
func (f *fakeOBS) sceneGetSource(scene uintptr) uintptr { return f.sceneOf(scene).source }

// sceneAdd keeps the caller's source reference; the item gives it back at
// teardown.
func (f *fakeOBS) sceneAdd(scene, source uintptr) uintptr {
	sc := f.sceneOf(scene)
	f.sourceOf(source)
	if f.failAdd {
		return 0
	}
	p := f.alloc()
	f.itemID++
	f.items[p] = &fakeItem{refs: 1, scene: scene, source: source, id: f.itemID, visible: true}
	sc.items = append(sc.items, p)
	return p
}

func (f *fakeOBS) sceneFindSource(scene uintptr, name *byte) uintptr {
	n := gostr(name)
	for _, it := range f.sceneOf(scene).items {
		if f.sources[f.items[it].source].name == n {
			return it
		}
	}
	return 0
}

func (f *fakeOBS) itemOf(p uintptr) *fakeItem {
	it, ok := f.items[p]
	if !ok || it.dead {
		f.t.Fatalf("scene item %#x used after free", p)
	}
	return it
}

func (f *fakeOBS) sceneitemAddref(item uintptr) { f.itemOf(item).refs++ }

func (f *fakeOBS) sceneitemRelease(item uintptr) {
	it := f.itemOf(item)
	if it.refs <= 0 {
		f.t.Errorf("scene item %d released below zero", it.id)
		return
	}
	it.refs--
	if it.refs == 0 {
		it.dead = true
		f.sourceRelease(it.source)
	}
}

func (f *fakeOBS) sceneitemGetSource(item uintptr) uintptr { return f.itemOf(item).source }
func (f *fakeOBS) sceneitemGetID(item uintptr) int64       { return f.itemOf(item).id }
func (f *fakeOBS) sceneitemVisible(item uintptr) bool      { return f.itemOf(item).visible }

func (f *fakeOBS) sceneitemSetVisible(item uintptr, visible bool) bool {
	it := f.itemOf(item)
	if it.visible == visible {
		return false
	}
	it.visible = visible
	return true
}

// =============================================================================
// Output channels
// =============================================================================

func (f *fakeOBS) setOutputSource(channel uint32, source uintptr) {
	if channel >= MaxChannels {
		f.t.Errorf("channel %d reached libobs", channel)
		return
	}
	if source != 0 {
		f.sourceGetRef(source)
	}
	old := f.channels[channel]
	f.channels[channel] = source
	if old != 0 {
		f.sourceRelease(old)
	}
}

func (f *fakeOBS) getOutputSource(channel uint32) uintptr {
	if channel >= MaxChannels {
		f.t.Errorf("channel %d reached libobs", channel)
		return 0
	}
	if p := f.channels[channel]; p != 0 {
		return f.sourceGetRef(p)
	}
	return 0
}

// =============================================================================
// Settings data
// =============================================================================

func (f *fakeOBS) newData(doc string) uintptr {
	p := f.alloc()
	f.data[p] = &fakeData{refs: 1, doc: doc}
	return p
}

func (f *fakeOBS) dataOf(p uintptr) *fakeData {
	d, ok := f.data[p]
	if !ok || d.dead {
		f.t.Fatalf("data %#x used after free", p)
	}
	return d
}

func (f *fakeOBS) dataCreate() uintptr { return f.newData("{}") }

func (f *fakeOBS) dataCreateFromJSON(json *byte) uintptr {
	doc := gostr(json)
	if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
		return 0
	}
	return f.newData(doc)
}

func (f *fakeOBS) dataAddref(data uintptr) { f.dataOf(data).refs++ }

func (f *fakeOBS) dataRelease(data uintptr) {
	d := f.dataOf(data)
	if d.refs <= 0 {
		f.t.Errorf("data %#x released below zero", data)
		return
	}
	d.refs--
	if d.refs == 0 {
		d.dead = true
	}
}

func (f *fakeOBS) dataGetJSON(data uintptr) uintptr {
	d := f.dataOf(data)
	if f.nullJSON {
		return 0
	}
	d.json = append([]byte(d.doc), 0)
	return uintptr(unsafe.Pointer(&d.json[0]))
}

func (f *fakeOBS) dataSetString(data uintptr, key, value *byte) {
	d := f.dataOf(data)
	d.doc, _ = sjson.Set(d.doc, escapeKey(gostr(key)), gostr(value))
}

func (f *fakeOBS) dataSetInt(data uintptr, key *byte, value int64) {
	d := f.dataOf(data)
	d.doc, _ = sjson.Set(d.doc, escapeKey(gostr(key)), value)
}

func (f *fakeOBS) dataSetBool(data uintptr, key *byte, value bool) {
	d := f.dataOf(data)
	d.doc, _ = sjson.Set(d.doc, escapeKey(gostr(key)), value)
}

func (f *fakeOBS) lookup(data uintptr, key *byte) gjson.Result {
	return gjson.Get(f.dataOf(data).doc, escapeKey(gostr(key)))
}

func (f *fakeOBS) dataGetString(data uintptr, key *byte) uintptr {
	return f.cstr(f.lookup(data, key).String())
}

func (f *fakeOBS) dataGetInt(data uintptr, key *byte) int64 { return f.lookup(data, key).Int() }
func (f *fakeOBS) dataGetBool(data uintptr, key *byte) bool { return f.lookup(data, key).Bool() }

func (f *fakeOBS) dataHasUserValue(data uintptr, key *byte) bool {
	return f.lookup(data, key).Exists()
}

// =============================================================================
// Displays
// =============================================================================

func (f *fakeOBS) displayCreate(info *gsInitData, background uint32) uintptr {
	if f.failDisplay {
		return 0
	}
	p := f.alloc()
	f.displays[p] = &fakeDisplay{info: *info, color: background, enabled: true}
	return p
}

func (f *fakeOBS) displayOf(p uintptr) *fakeDisplay {
	d, ok := f.displays[p]
	if !ok || d.destroyed > 0 {
		f.t.Fatalf("display %#x used after destroy", p)
	}
	return d
}

func (f *fakeOBS) displayDestroy(display uintptr) {
	f.displayOf(display).destroyed++
}

func (f *fakeOBS) displayResize(display uintptr, cx, cy uint32) {
	d := f.displayOf(display)
	d.info.CX, d.info.CY = cx, cy
}

func (f *fakeOBS) displaySetBackgroundColor(display uintptr, color uint32) {
	f.displayOf(display).color = color
}

func (f *fakeOBS) displaySetEnabled(display uintptr, enabled bool) {
	f.displayOf(display).enabled = enabled
}

// =============================================================================
// Inspection
// =============================================================================

// refs returns the native count of the source behind p (a source or
// scene pointer).
func (f *fakeOBS) refs(p uintptr) int {
	if sc, ok := f.scenes[p]; ok {
		p = sc.source
	}
	return f.sources[p].refs
}

// liveSources lists the names of sources still referenced, scenes
// included.
func (f *fakeOBS) liveSources() []string {
	var names []string
	for _, s := range f.sources {
		if !s.dead {
			names = append(names, s.name)
		}
	}
	slices.Sort(names)
	return names
}

func (f *fakeOBS) liveData() int {
	n := 0
	for _, d := range f.data {
		if !d.dead {
			n++
		}
	}
	return n
}

func (f *fakeOBS) sourceNamed(name string) *fakeSource {
	for _, s := range f.sources {
		if s.name == name && !s.dead {
			return s
		}
	}
	f.t.Fatalf("no live source %q", name)
	return nil
}
