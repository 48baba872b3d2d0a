package diagnostic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCaretAlignsUnderColumn(t *testing.T) {
	var buf bytes.Buffer
	err := Name(Position{File: "build.muon", Line: 2, Col: 5}, "undefined identifier 'foo'")
	Render(&buf, err, "project('x')\nfoo + 1\n")
	out := buf.String()
	assert.Contains(t, out, "build.muon:2:5: name error: undefined identifier 'foo'")
	assert.Contains(t, out, "  2 | foo + 1")
	lines := splitLines(out)
	assert.Equal(t, "          ^", lines[2])
}

func TestSinkFanOutAndCatchAll(t *testing.T) {
	sink := NewSink()
	var warn, all bytes.Buffer
	sink.AddWriter(&warn, "warning")
	sink.AddWriter(&all, "")

	sink.Write("warning", "careful\n")
	sink.Write("error", "boom\n")

	assert.Equal(t, "careful\n", warn.String())
	assert.Equal(t, "careful\nboom\n", all.String())
}

func TestInternalErrorCarriesStack(t *testing.T) {
	err := Internal(Position{File: "f", Line: 1, Col: 1}, "invariant violated")
	assert.NotNil(t, err.Internal)
	assert.NotEmpty(t, err.Internal.ErrorStack())
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}
