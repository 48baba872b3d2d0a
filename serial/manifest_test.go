package serial

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	tests := []TestRecord{
		{Name: "t1", Exe: "/build/t1", Args: []string{"-v", "--fast"}, Env: []string{"FOO=bar"}},
		{Name: "t2", Exe: "/build/t2", ShouldFail: true},
		{Name: "t3", Exe: "/build/t3", Args: nil, Env: nil},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, tests))

	got, err := ReadManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, tests, got)
}

func TestEmptyManifestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, nil))
	got, err := ReadManifest(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestShouldFailFlagSurvivesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, []TestRecord{{Name: "x", Exe: "y", ShouldFail: true}}))
	got, err := ReadManifest(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ShouldFail)
}
