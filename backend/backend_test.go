package backend

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rofl0r/muon/workspace"
)

func newTestWorkspace() *workspace.Workspace {
	ws := workspace.New()
	ws.SourceRoot = "/src"
	ws.BuildRoot = "/build"
	ws.Argv0 = "/usr/bin/muon"
	proj := ws.MakeProject("", false, "/src", "/build")
	proj.DeclaredName = "demo"
	ws.CurProject = 0

	srcArr := ws.Store.NewArray(ws.NewFile("/src/main.c"))
	th := ws.Store.Alloc(workspace.KindBuildTarget)
	ws.Store.Get(th).Target = &workspace.BuildTarget{
		Name:      "demo",
		BuildName: "demo",
		BuildDir:  "/build",
		CWD:       "/src",
		Type:      workspace.TargetExecutable,
		Sources:   srcArr,
	}
	ws.Store.ArrayPush(proj.Targets, th)
	return ws
}

func TestWriteNinjaProducesCompileAndLinkEdges(t *testing.T) {
	ws := newTestWorkspace()
	var buf bytes.Buffer
	require.NoError(t, WriteNinja(&buf, ws))
	out := buf.String()
	assert.Contains(t, out, "rule c_COMPILER")
	assert.Contains(t, out, "c_COMPILER /src/main.c")
	assert.Contains(t, out, "c_LINKER")
	assert.True(t, strings.Contains(out, "/build/demo"))
}

func TestWriteNinjaEmitsRequiredVersion(t *testing.T) {
	ws := newTestWorkspace()
	var buf bytes.Buffer
	require.NoError(t, WriteNinja(&buf, ws))
	assert.True(t, strings.HasPrefix(buf.String(), "ninja_required_version = 1.7.1\n"))
}

func TestWriteNinjaDerivesCompileFlagsFromOptions(t *testing.T) {
	ws := newTestWorkspace()
	opts := ws.Store.Get(ws.Projects[0].Opts).Dict
	opts.Set("buildtype", ws.NewString("debugoptimized"))
	opts.Set("warning_level", ws.NewString("2"))
	opts.Set("c_std", ws.NewString("c11"))

	var buf bytes.Buffer
	require.NoError(t, WriteNinja(&buf, ws))
	out := buf.String()
	assert.Contains(t, out, "ARGS = -std=c11 -g -Og -Wall -Wextra -I/src")
}

func TestWriteNinjaExcludesHeadersFromCompileAndAddsOrderOnlyDep(t *testing.T) {
	ws := newTestWorkspace()
	target := ws.Store.Get(ws.Store.Get(ws.Projects[0].Targets).Array[0]).Target
	ws.Store.ArrayPush(target.Sources, ws.NewFile("/src/demo.h"))

	var buf bytes.Buffer
	require.NoError(t, WriteNinja(&buf, ws))
	out := buf.String()
	assert.NotContains(t, out, "c_COMPILER /src/demo.h")
	assert.Contains(t, out, "-I/src")
	assert.Contains(t, out, "|| /src/demo.h")
}

func TestWriteNinjaStaticLibraryUsesCsrD(t *testing.T) {
	ws := newTestWorkspace()
	target := ws.Store.Get(ws.Store.Get(ws.Projects[0].Targets).Array[0]).Target
	target.Type = workspace.TargetStaticLibrary

	var buf bytes.Buffer
	require.NoError(t, WriteNinja(&buf, ws))
	assert.Contains(t, buf.String(), "LINK_ARGS = csrD")
}

func TestWriteNinjaExecutableWrapsLinkGroup(t *testing.T) {
	ws := newTestWorkspace()
	proj := ws.Projects[0]
	target := ws.Store.Get(ws.Store.Get(proj.Targets).Array[0]).Target

	libArr := ws.Store.NewArray()
	libH := ws.Store.Alloc(workspace.KindBuildTarget)
	ws.Store.Get(libH).Target = &workspace.BuildTarget{
		Name: "mylib", BuildName: "libmylib.a", BuildDir: "/build", Type: workspace.TargetStaticLibrary,
	}
	ws.Store.ArrayPush(libArr, libH)
	target.LinkWith = libArr

	var buf bytes.Buffer
	require.NoError(t, WriteNinja(&buf, ws))
	out := buf.String()
	assert.Contains(t, out, "-Wl,--as-needed -Wl,--no-undefined -Wl,--start-group /build/libmylib.a -Wl,--end-group")
	assert.Contains(t, out, "| /build/libmylib.a")
}

func TestWriteSetupRecordRoundTrip(t *testing.T) {
	ws := newTestWorkspace()
	ws.Store.Get(ws.Projects[0].Opts).Dict.Set("opt_level", ws.NewNumber(2))

	var buf bytes.Buffer
	require.NoError(t, WriteSetupRecord(&buf, ws))

	rec, err := ReadSetupRecord(&buf)
	require.NoError(t, err)
	assert.Equal(t, "/build", rec.BuildRoot)
	assert.Equal(t, "/src", rec.SourceRoot)
	assert.Equal(t, "2", rec.Options["."]["opt_level"])
}

func TestWriteTestManifestEmpty(t *testing.T) {
	ws := newTestWorkspace()
	var buf bytes.Buffer
	require.NoError(t, WriteTestManifest(&buf, ws))
	assert.NotEmpty(t, buf.Bytes())
}

func TestCaptureWrapperArgs(t *testing.T) {
	got := CaptureWrapperArgs("/usr/bin/muon", "/build/out.txt", []string{"gen", "--flag"})
	assert.Equal(t, []string{"/usr/bin/muon", "internal", "exe", "-c", "/build/out.txt", "--", "gen", "--flag"}, got)
}
