package workspace

// Project holds everything a single DSL project contributes to the
// workspace: an optional subproject name, source/build directories, a
// private scope, per-project declared options, the targets and tests
// it has registered, its language->compiler map, and its default
// compile arguments. Projects are append-only during evaluation --
// make_project (Workspace.MakeProject) is the only writer of the
// Projects slice.
type Project struct {
	// SubprojectName is empty for the main project. HasSubprojectName
	// distinguishes "no name" from "named the empty string", which the
	// DSL cannot actually produce but which keeps the zero value honest.
	SubprojectName    string
	HasSubprojectName bool

	// SourceDir ("cwd" in the C original) and BuildDir are both absolute,
	// normalized paths -- never stored relative.
	SourceDir string
	BuildDir  string

	Scope *Scope

	// Opts, Targets, Tests, Compilers, DefaultArgs are all container
	// handles (dict/array/array/dict/array respectively).
	Opts        Handle
	Targets     Handle
	Tests       Handle
	Compilers   Handle
	DefaultArgs Handle

	// DeclaredName is the name argument passed to project(), used to
	// enforce that each project's identifier is unique in the workspace.
	DeclaredName string
}
