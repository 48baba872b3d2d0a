package muon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rofl0r/muon/diagnostic"
)

func TestEvalAndWriteEndToEnd(t *testing.T) {
	srcDir := t.TempDir()
	buildDir := filepath.Join(t.TempDir(), "build")

	build := "project('demo')\nsrcs = files('main.c')\nexe = executable('demo', srcs)\ntest('runs', exe)\n"
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, BuildFileName), []byte(build), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "main.c"), []byte("int main(void){return 0;}\n"), 0o644))

	sink := diagnostic.NewSink()
	ws, err := Eval(srcDir, buildDir, nil, sink)
	require.Nil(t, err)
	require.Len(t, ws.Projects, 1)

	require.NoError(t, Write(ws, buildDir))

	assert.FileExists(t, filepath.Join(buildDir, "build.ninja"))
	assert.FileExists(t, filepath.Join(buildDir, "muon-private", "setup.toml"))
	assert.FileExists(t, filepath.Join(buildDir, "muon-private", "tests"))

	ninjaText, rerr := os.ReadFile(filepath.Join(buildDir, "build.ninja"))
	require.NoError(t, rerr)
	assert.Contains(t, string(ninjaText), "c_LINKER")
}

func TestEvalReportsParseErrorWithPosition(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, BuildFileName), []byte("x = )\n"), 0o644))

	sink := diagnostic.NewSink()
	_, err := Eval(srcDir, filepath.Join(t.TempDir(), "build"), nil, sink)
	require.NotNil(t, err)
	assert.Equal(t, 1, err.Position.Line)
}
