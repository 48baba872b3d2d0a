package backend

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/rofl0r/muon/workspace"
)

// SetupRecord holds what a regenerate needs to re-evaluate a build
// directory without the original command line: build root, source
// root, and per-subproject option values. Serialized with
// github.com/BurntSushi/toml rather than a hand-rolled pseudo-call text.
type SetupRecord struct {
	BuildRoot  string                       `toml:"build_root"`
	SourceRoot string                       `toml:"source_root"`
	Options    map[string]map[string]string `toml:"options"`
}

// optionsAsString renders an option dict's handles down to their
// display string, which is all a regenerate-time record needs: option
// values get re-type-checked against their declarations on read, not
// trusted as typed data from the record itself.
func optionsAsString(ws *workspace.Workspace, optsDict workspace.Handle) map[string]string {
	d := ws.Store.Get(optsDict).Dict
	out := make(map[string]string, d.Len())
	for _, e := range d.Entries() {
		out[e.Key] = displayValue(ws, e.Value)
	}
	return out
}

func displayValue(ws *workspace.Workspace, h workspace.Handle) string {
	v := ws.Store.Get(h)
	switch v.Kind {
	case workspace.KindString, workspace.KindFile:
		return ws.ObjString(h)
	case workspace.KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case workspace.KindNumber:
		return itoa64(v.Number)
	case workspace.KindFeatureOption:
		return v.Feature.String()
	case workspace.KindArray:
		parts := make([]string, 0, len(v.Array))
		for _, e := range v.Array {
			parts = append(parts, displayValue(ws, e))
		}
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += ","
			}
			out += p
		}
		return out
	default:
		return ""
	}
}

func itoa64(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// WriteSetupRecord builds a SetupRecord from ws and TOML-encodes it
// to w.
func WriteSetupRecord(w io.Writer, ws *workspace.Workspace) error {
	rec := SetupRecord{
		BuildRoot:  ws.BuildRoot,
		SourceRoot: ws.SourceRoot,
		Options:    make(map[string]map[string]string, len(ws.Projects)),
	}
	for _, proj := range ws.Projects {
		key := proj.SubprojectName
		if !proj.HasSubprojectName {
			key = "."
		}
		rec.Options[key] = optionsAsString(ws, proj.Opts)
	}
	return toml.NewEncoder(w).Encode(rec)
}

// ReadSetupRecord is WriteSetupRecord's inverse, used by
// workspace.Regenerate (§6) to recover the build/source roots and
// prior option values without re-running project() discovery.
func ReadSetupRecord(r io.Reader) (SetupRecord, error) {
	var rec SetupRecord
	_, err := toml.NewDecoder(r).Decode(&rec)
	return rec, err
}
