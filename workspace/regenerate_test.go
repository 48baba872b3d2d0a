package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegenerateRestoresRootsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setup.toml")
	content := "build_root = \"/build\"\nsource_root = \"/src\"\n\n[options.\".\"]\nopt_level = \"2\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ws, err := Regenerate(path)
	require.NoError(t, err)
	assert.Equal(t, "/build", ws.BuildRoot)
	assert.Equal(t, "/src", ws.SourceRoot)
	require.Len(t, ws.OptionOverrides, 1)
	assert.Equal(t, OptionOverride{Subproject: "", Name: "opt_level", Value: "2"}, ws.OptionOverrides[0])
}
