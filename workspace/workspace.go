package workspace

import "fmt"

// OptionOverride is a single command-line `-D name=value` override,
// applied and type-checked by the option system (interp/options.go)
// after option() declarations run.
type OptionOverride struct {
	Subproject string // empty for the main project
	Name       string
	Value      string
}

// SourceBuffer records one evaluated source file's text alongside its
// name. The backend's regenerate edge lists the names; Text holds the
// file's full contents as read.
type SourceBuffer struct {
	Filename string
	Text     string
}

// Workspace is the single top-level object of an evaluation: the value
// arena, the string pool, the global scope, the ordered project list,
// option overrides, source buffers, and the "current project" cursor.
// Exactly one Workspace exists per invocation.
type Workspace struct {
	Store   *Store
	Strings *StringArena
	Global  *Scope

	Projects        []*Project
	OptionOverrides []OptionOverride
	Sources         []SourceBuffer
	CurProject      int

	// SourceRoot and BuildRoot are absolute paths set once at setup time.
	// Argv0 is recorded so the backend can emit the REGENERATE_BUILD and
	// CUSTOM_COMMAND capture-wrapper command lines.
	SourceRoot string
	BuildRoot  string
	Argv0      string

	// Binaries is the host_machine.binaries dict content (§4.A "machine"
	// kind): tool name ("ar", "c") -> discovered path.
	Binaries map[string]string
}

// New builds a Workspace with the global scope pre-populated the way
// workspace_init does in the C original: a "meson"-equivalent handle and
// a "host_machine"-equivalent handle are bound in the global scope
// before any project exists.
func New() *Workspace {
	w := &Workspace{
		Store:    NewStore(),
		Strings:  NewStringArena(),
		Global:   NewScope(),
		Binaries: map[string]string{"c": "cc", "ar": "ar"},
	}
	mesonHandle := w.Store.Alloc(KindMeson)
	w.Global.Set("meson", mesonHandle)
	machineHandle := w.Store.Alloc(KindMachine)
	w.Global.Set("host_machine", machineHandle)
	return w
}

// MakeProject appends a new Project (the main project when len(Projects)
// == 0, a subproject thereafter) and makes it the current project if it
// is the first one. subprojectName == "" with hasSubprojectName == false
// denotes the main project.
func (w *Workspace) MakeProject(subprojectName string, hasSubprojectName bool, sourceDir, buildDir string) *Project {
	p := &Project{
		SubprojectName:    subprojectName,
		HasSubprojectName: hasSubprojectName,
		SourceDir:         sourceDir,
		BuildDir:          buildDir,
		Scope:             NewScope(),
	}
	p.Opts = w.Store.NewDict()
	p.Targets = w.Store.NewArray()
	p.Tests = w.Store.NewArray()
	p.Compilers = w.Store.NewDict()
	p.DefaultArgs = w.Store.NewArray()
	w.Projects = append(w.Projects, p)
	return p
}

// CurrentProject returns the project currently being evaluated.
func (w *Workspace) CurrentProject() *Project {
	return w.Projects[w.CurProject]
}

// Lookup resolves an identifier through the current project's scope
// then the workspace global scope, matching get_obj_id's resolution
// order in workspace.c.
func (w *Workspace) Lookup(name string) (Handle, bool) {
	if h, ok := w.CurrentProject().Scope.Get(name); ok {
		return h, true
	}
	if h, ok := w.Global.Get(name); ok {
		return h, true
	}
	return NullHandle, false
}

// Assign binds name to h in the current project's scope. Assignment
// always writes to the current project's scope, never the global one.
func (w *Workspace) Assign(name string, h Handle) {
	w.CurrentProject().Scope.Set(name, h)
}

// AddSource records a fully-read source file so the backend's
// REGENERATE_BUILD edge can depend on every file that contributed to
// the build.
func (w *Workspace) AddSource(filename, text string) {
	w.Sources = append(w.Sources, SourceBuffer{Filename: filename, Text: text})
}

// NewString is shorthand for w.Store.Alloc(KindString) followed by
// setting its Str field from the interned bytes of s.
func (w *Workspace) NewString(s string) Handle {
	h := w.Store.Alloc(KindString)
	w.Store.Get(h).Str = w.Strings.InternString(s)
	return h
}

// NewFile is the file-kind analog of NewString; path must already be
// absolute and normalized.
func (w *Workspace) NewFile(path string) Handle {
	h := w.Store.Alloc(KindFile)
	w.Store.Get(h).Str = w.Strings.InternString(path)
	return h
}

// NewBool allocates a KindBool value.
func (w *Workspace) NewBool(b bool) Handle {
	h := w.Store.Alloc(KindBool)
	w.Store.Get(h).Bool = b
	return h
}

// NewNumber allocates a KindNumber value.
func (w *Workspace) NewNumber(n int64) Handle {
	h := w.Store.Alloc(KindNumber)
	w.Store.Get(h).Number = n
	return h
}

// ObjString returns the Go string content of a KindString or KindFile
// value at h. It panics (an internal-error condition -- see
// diagnostic.Internal) if h is not one of those kinds.
func (w *Workspace) ObjString(h Handle) string {
	v := w.Store.Get(h)
	if v.Kind != KindString && v.Kind != KindFile {
		panic(fmt.Sprintf("ObjString: handle %d has kind %s, not string/file", h, v.Kind))
	}
	return w.Strings.String(v.Str)
}

// StringSplit implements string_split(bytes, separators) -> array_handle.
// Each byte of sep is treated as an independent delimiter (so "a,b;c"
// splits the same way on ",;"); consecutive separators produce empty
// fragments, matching wk_str_split's boundary behavior.
func (w *Workspace) StringSplit(s, sep string) Handle {
	arr := w.Store.NewArray()
	start := 0
	for i := 0; i < len(s); i++ {
		if containsByte(sep, s[i]) {
			w.Store.ArrayPush(arr, w.NewString(s[start:i]))
			start = i + 1
		}
	}
	w.Store.ArrayPush(arr, w.NewString(s[start:]))
	return arr
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

// StringStrip implements string_strip, returning the stripped Go string
// rather than a handle: strips
// only leading/trailing ' ' and '\n', matching wk_str_push_stripped
// exactly -- the strip() method's semantics.
func (w *Workspace) StringStrip(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\n') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\n') {
		end--
	}
	return s[start:end]
}
