package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/workspace"
)

func run(t *testing.T, src string) (*Interpreter, *diagnostic.Error) {
	t.Helper()
	ws := workspace.New()
	ws.SourceRoot = "/src"
	ws.BuildRoot = "/build"
	ws.MakeProject("", false, "/src", "/build")
	i := New(ws, diagnostic.NewSink())
	prog, perr := lang.Parse("t.muon", src)
	require.Nil(t, perr)
	return i, i.Run(prog)
}

func TestAssignmentAndArithmetic(t *testing.T) {
	i, err := run(t, "x = 1 + 2 * 3\n")
	require.Nil(t, err)
	h, ok := i.WS.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(7), i.WS.Store.Get(h).Number)
}

func TestPlusEqOnArray(t *testing.T) {
	i, err := run(t, "x = ['a']\nx += ['b', 'c']\n")
	require.Nil(t, err)
	h, _ := i.WS.Lookup("x")
	strs, serr := i.WS.ArrayStrings(h)
	require.Nil(t, serr)
	assert.Equal(t, []string{"a", "b", "c"}, strs)
}

func TestStringInterpolationAndMethods(t *testing.T) {
	i, err := run(t, "name = 'lib'\nx = '@name@.so'.to_upper()\n")
	require.Nil(t, err)
	h, _ := i.WS.Lookup("x")
	assert.Equal(t, "LIB.SO", i.WS.ObjString(h))
}

func TestIfElifElse(t *testing.T) {
	i, err := run(t, "a = 2\nif a == 1\n  x = 'one'\nelif a == 2\n  x = 'two'\nelse\n  x = 'other'\nendif\n")
	require.Nil(t, err)
	h, _ := i.WS.Lookup("x")
	assert.Equal(t, "two", i.WS.ObjString(h))
}

func TestForeachOverArrayWithBreakAndContinue(t *testing.T) {
	i, err := run(t, `
total = 0
foreach v in [1, 2, 3, 4, 5]
  if v == 2
    continue
  endif
  if v == 4
    break
  endif
  total = total + v
endforeach
`)
	require.Nil(t, err)
	h, _ := i.WS.Lookup("total")
	assert.Equal(t, int64(4), i.WS.Store.Get(h).Number)
}

func TestForeachOverDict(t *testing.T) {
	i, err := run(t, `
d = {'a': 1, 'b': 2}
keys = []
foreach k, v in d
  keys += [k]
endforeach
`)
	require.Nil(t, err)
	h, _ := i.WS.Lookup("keys")
	strs, _ := i.WS.ArrayStrings(h)
	assert.Equal(t, []string{"a", "b"}, strs)
}

func TestProjectAndExecutable(t *testing.T) {
	i, err := run(t, `
files_list = files('main.c', 'util.c')
exe = executable('demo', files_list)
`)
	require.Nil(t, err)
	h, ok := i.WS.Lookup("exe")
	require.True(t, ok)
	v := i.WS.Store.Get(h)
	require.Equal(t, workspace.KindBuildTarget, v.Kind)
	assert.Equal(t, "demo", v.Target.Name)
	assert.Equal(t, 2, len(i.WS.Store.Get(v.Target.Sources).Array))
}

func TestUndefinedIdentifierIsNameError(t *testing.T) {
	_, err := run(t, "x = y\n")
	require.NotNil(t, err)
	assert.Equal(t, diagnostic.KindName, err.Kind)
}

func TestDivisionByZeroIsValueError(t *testing.T) {
	_, err := run(t, "x = 1 / 0\n")
	require.NotNil(t, err)
	assert.Equal(t, diagnostic.KindValue, err.Kind)
}

func TestErrorBuiltinStopsEvaluation(t *testing.T) {
	i, err := run(t, "x = 1\nerror('boom')\nx = 2\n")
	require.NotNil(t, err)
	assert.Equal(t, diagnostic.KindValue, err.Kind)
	h, _ := i.WS.Lookup("x")
	assert.Equal(t, int64(1), i.WS.Store.Get(h).Number)
}

func TestVersionCompare(t *testing.T) {
	i, err := run(t, `
a = '1.2.3'.version_compare('>=1.2')
b = '1.2.3'.version_compare('<1.2.3')
c = '1.2.3'.version_compare('!=1.2.3')
d = '1.2.3'.version_compare('1.2.3')
`)
	require.Nil(t, err)
	for name, want := range map[string]bool{"a": true, "b": false, "c": false, "d": true} {
		h, ok := i.WS.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, want, i.WS.Store.Get(h).Bool, name)
	}
}

func TestFindProgramConstructsExternalProgram(t *testing.T) {
	i, err := run(t, `p = find_program('sh', required: false)`)
	require.Nil(t, err)
	h, ok := i.WS.Lookup("p")
	require.True(t, ok)
	v := i.WS.Store.Get(h)
	require.Equal(t, workspace.KindExternalProgram, v.Kind)
	require.NotNil(t, v.ExternalProg)
	assert.Equal(t, "sh", v.ExternalProg.Name)
}

func TestFindProgramNotRequiredMissing(t *testing.T) {
	i, err := run(t, `p = find_program('no-such-muon-test-program-xyz', required: false)`)
	require.Nil(t, err)
	h, _ := i.WS.Lookup("p")
	v := i.WS.Store.Get(h)
	require.Equal(t, workspace.KindExternalProgram, v.Kind)
	assert.False(t, v.ExternalProg.Found)
}

func TestDeclareDependency(t *testing.T) {
	i, err := run(t, `
inc = include_directories('inc')
d = declare_dependency(include_directories: inc, version: '1.0')
`)
	require.Nil(t, err)
	h, ok := i.WS.Lookup("d")
	require.True(t, ok)
	v := i.WS.Store.Get(h)
	require.Equal(t, workspace.KindDependency, v.Kind)
	require.NotNil(t, v.Dependency)
	assert.True(t, v.Dependency.Found)
	assert.Equal(t, "1.0", v.Dependency.Version)
}

func TestAddProjectArgumentsPopulatesDefaultArgs(t *testing.T) {
	i, err := run(t, `add_project_arguments('-DFOO', language: 'c')`)
	require.Nil(t, err)
	proj := i.WS.CurrentProject()
	strs, serr := i.WS.ArrayStrings(proj.DefaultArgs)
	require.Nil(t, serr)
	assert.Equal(t, []string{"-DFOO"}, strs)
}

func TestImportUnknownModuleErrors(t *testing.T) {
	_, err := run(t, `m = import('python3')`)
	require.NotNil(t, err)
}

func TestApplyOptionsWithOverride(t *testing.T) {
	ws := workspace.New()
	ws.MakeProject("", false, "/src", "/build")
	ws.OptionOverrides = []workspace.OptionOverride{{Name: "opt_level", Value: "2"}}

	decls, perr := ParseOptions("meson_options.txt", "option('opt_level', type: 'integer', value: 0)\n")
	require.Nil(t, perr)
	oerr := ApplyOptions(ws, decls, "")
	require.Nil(t, oerr)

	h, ok := ws.Store.Get(ws.CurrentProject().Opts).Dict.Get("opt_level")
	require.True(t, ok)
	assert.Equal(t, int64(2), ws.Store.Get(h).Number)
}
