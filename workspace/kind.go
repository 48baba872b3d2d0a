package workspace

// Kind discriminates the tagged union stored at each Handle. Dispatch on
// Kind replaces virtual methods: comparison, stringification and
// iteration are all switches over Kind in the packages that consume the
// store, not polymorphic methods on Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindFile
	KindArray
	KindDict
	KindBuildTarget
	KindCustomTarget
	KindDependency
	KindExternalProgram
	KindCompiler
	KindFeatureOption
	KindMachine
	KindMeson
	KindTest
	KindOptionDescriptor
	// KindEnvironment is a supplemental kind (SPEC_FULL §1–3): an ordered
	// list of "KEY=VALUE" strings produced by environment() and read by
	// test(env: ...).
	KindEnvironment
	// KindSubproject is the return value of subproject(): a handle onto
	// a nested project's index in Workspace.Projects, consumed only by
	// get_variable()/found().
	KindSubproject
	// KindModule is the return value of import(): a named builtin
	// module (currently only "fs") whose methods are dispatched the same
	// way as any other kind.
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFile:
		return "file"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindBuildTarget:
		return "build_target"
	case KindCustomTarget:
		return "custom_target"
	case KindDependency:
		return "dependency"
	case KindExternalProgram:
		return "external_program"
	case KindCompiler:
		return "compiler"
	case KindFeatureOption:
		return "feature_option"
	case KindMachine:
		return "machine"
	case KindMeson:
		return "meson"
	case KindTest:
		return "test"
	case KindOptionDescriptor:
		return "option_descriptor"
	case KindEnvironment:
		return "environment"
	case KindSubproject:
		return "subproject"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}
