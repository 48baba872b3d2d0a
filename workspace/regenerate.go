package workspace

import (
	"os"

	"github.com/BurntSushi/toml"
)

// setupRecord mirrors backend.SetupRecord's shape without importing
// backend (which imports workspace): the setup record is a TOML
// document by contract, not a Go type shared across the package
// boundary.
type setupRecord struct {
	BuildRoot  string                       `toml:"build_root"`
	SourceRoot string                       `toml:"source_root"`
	Options    map[string]map[string]string `toml:"options"`
}

// Regenerate reads the TOML setup record at setupRecordPath and
// returns a fresh Workspace with SourceRoot, BuildRoot and every
// recorded option value restored as an OptionOverride, ready for a
// caller to re-run evaluation without the original -D flags.
func Regenerate(setupRecordPath string) (*Workspace, error) {
	f, err := os.Open(setupRecordPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rec setupRecord
	if _, err := toml.NewDecoder(f).Decode(&rec); err != nil {
		return nil, err
	}

	ws := New()
	ws.SourceRoot = rec.SourceRoot
	ws.BuildRoot = rec.BuildRoot
	for subproj, opts := range rec.Options {
		name := subproj
		if name == "." {
			name = ""
		}
		for k, v := range opts {
			ws.OptionOverrides = append(ws.OptionOverrides, OptionOverride{Subproject: name, Name: k, Value: v})
		}
	}
	return ws, nil
}
