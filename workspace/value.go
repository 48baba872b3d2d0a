package workspace

// TargetType distinguishes the two build_target shapes.
type TargetType int

const (
	TargetExecutable TargetType = iota
	TargetStaticLibrary
)

func (t TargetType) String() string {
	if t == TargetStaticLibrary {
		return "static_library"
	}
	return "executable"
}

// FeatureState is the tri-state of a feature_option value (§3).
type FeatureState int

const (
	FeatureAuto FeatureState = iota
	FeatureEnabled
	FeatureDisabled
)

func (s FeatureState) String() string {
	switch s {
	case FeatureEnabled:
		return "enabled"
	case FeatureDisabled:
		return "disabled"
	default:
		return "auto"
	}
}

// CompilerType enumerates the compiler families the backend knows rule
// templates for. SPEC_FULL §1–3/Non-goals: only the C family is modeled,
// matching the single entry visible in original_source's compilers table.
type CompilerType int

const (
	CompilerC CompilerType = iota
)

// BuildTarget is the payload for KindBuildTarget.
type BuildTarget struct {
	Name              string
	BuildName         string
	BuildDir          string
	CWD               string
	Type              TargetType
	Sources           Handle // array of file/build_target/custom_target handles
	IncludeDirs       Handle // array of file handles (directories)
	CArgs             Handle // array of string handles
	Deps              Handle // array of dependency handles
	LinkWith          Handle // array of build_target/string handles
}

// CustomTarget is the payload for KindCustomTarget.
type CustomTarget struct {
	Name    string
	Input   Handle // array of file handles
	Output  Handle // array of file handles
	Cmd     Handle // the command program (string or external_program, coerced)
	Args    Handle // array of string/file handles
	Capture bool
}

// Dependency is the payload for KindDependency.
type Dependency struct {
	Name               string
	Version            string
	IncludeDirectories Handle // array of file handles
	LinkWith           Handle // array of build_target/string handles
	Found              bool
}

// ExternalProgram is the payload for KindExternalProgram.
type ExternalProgram struct {
	Name     string
	FullPath string
	Found    bool
}

// Compiler is the payload for KindCompiler.
type Compiler struct {
	Name string
	Type CompilerType
}

// Subproject is the payload for KindSubproject, returned by
// subproject(). ProjectIndex indexes Workspace.Projects and is only
// meaningful when Found is true.
type Subproject struct {
	ProjectIndex int
	Found        bool
}

// Module is the payload for KindModule, returned by import(). Name
// selects which builtin module's methods apply (currently only "fs").
type Module struct {
	Name string
}

// Test is the payload for KindTest.
type Test struct {
	Name        string
	Exe         Handle
	Args        Handle // array of string/file handles
	Env         Handle // environment handle, or NullHandle
	ShouldFail  bool
}

// OptionDescriptor is the payload for KindOptionDescriptor (§4.H).
type OptionDescriptor struct {
	Name    string
	Type    string // string, integer, boolean, combo, feature, array
	Default Handle
	Choices []string
}

// Value is the tagged union every Handle resolves to. Exactly one payload
// field is meaningful for a given Kind; this mirrors the C original's
// `struct obj` union but as plain fields, which is the idiomatic Go
// rendering of a small closed tag set (see DESIGN.md).
type Value struct {
	Kind Kind

	Bool   bool
	Number int64
	Str    StringHandle // KindString, KindFile

	Array []Handle // KindArray, insertion order, duplicates allowed
	Dict  *Dict    // KindDict

	Target       *BuildTarget
	CustomTarget *CustomTarget
	Dependency   *Dependency
	ExternalProg *ExternalProgram
	Compiler     *Compiler
	Feature      FeatureState
	Test         *Test
	OptionDesc   *OptionDescriptor
	Environment  []string // KindEnvironment, "KEY=VALUE" entries in order
	Subproject   *Subproject
	Module       *Module
}

// DictEntry is one insertion-ordered key/value pair of a Dict.
type DictEntry struct {
	Key   string
	Value Handle
}

// Dict is an insertion-ordered string-keyed map: iteration order is
// insertion order, and keys are compared by bytes. Keys are stored as
// plain Go strings (themselves immutable byte runs), which gives byte
// comparison for free without routing every key through the string
// arena.
type Dict struct {
	entries []DictEntry
	index   map[string]int
}

// NewDict returns an empty, ready-to-use Dict.
func NewDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// Get returns the handle bound to key, if any.
func (d *Dict) Get(key string) (Handle, bool) {
	if i, ok := d.index[key]; ok {
		return d.entries[i].Value, true
	}
	return NullHandle, false
}

// Set binds key to value, preserving the original insertion position on
// overwrite and appending on first insertion.
func (d *Dict) Set(key string, value Handle) {
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, DictEntry{Key: key, Value: value})
}

// Len reports the number of entries.
func (d *Dict) Len() int { return len(d.entries) }

// Entries returns the entries in insertion order. Callers must not
// mutate the returned slice.
func (d *Dict) Entries() []DictEntry { return d.entries }

// Clone returns a shallow copy with its own entries slice and index, so
// setting a key on the copy leaves d unchanged.
func (d *Dict) Clone() *Dict {
	c := NewDict()
	for _, e := range d.entries {
		c.Set(e.Key, e.Value)
	}
	return c
}
