package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArenaInternRoundTrip(t *testing.T) {
	a := NewStringArena()
	h := a.InternString("hello")
	assert.Equal(t, "hello", a.String(h))
	assert.Equal(t, byte(0), a.buf[a.spans[h].offset+a.spans[h].length])
}

func TestStringArenaInternDedups(t *testing.T) {
	a := NewStringArena()
	h1 := a.InternString("same")
	h2 := a.InternString("same")
	assert.Equal(t, h1, h2)
}

func TestStringArenaAppendRelocates(t *testing.T) {
	a := NewStringArena()
	h := a.InternString("foo")
	other := a.InternString("bar")
	a.AppendString(h, "baz")
	assert.Equal(t, "foobaz", a.String(h))
	assert.Equal(t, "bar", a.String(other), "appending to one handle must not disturb another")
}

func TestHandleStability(t *testing.T) {
	s := NewStore()
	h := s.Alloc(KindBool)
	s.Get(h).Bool = true
	s.Alloc(KindString)
	s.Alloc(KindArray)
	assert.Equal(t, KindBool, s.Get(h).Kind)
	assert.True(t, s.Get(h).Bool)
}

func TestLookupOrderProjectThenGlobal(t *testing.T) {
	w := New()
	w.MakeProject("", false, "/src", "/build")
	w.Global.Set("x", w.NewNumber(1))

	h, ok := w.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(1), w.Store.Get(h).Number)

	w.Assign("x", w.NewNumber(2))
	h, ok = w.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, int64(2), w.Store.Get(h).Number, "project scope shadows global")
}

func TestLookupMissingReportsNotFound(t *testing.T) {
	w := New()
	w.MakeProject("", false, "/src", "/build")
	_, ok := w.Lookup("nope")
	assert.False(t, ok)
}

func TestDictInsertionOrderPreservedOnOverwrite(t *testing.T) {
	d := NewDict()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("a", 3)
	entries := d.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, Handle(3), entries[0].Value)
	assert.Equal(t, "b", entries[1].Key)
}

func TestStringSplitBoundaryBehaviors(t *testing.T) {
	w := New()
	w.MakeProject("", false, "/src", "/build")

	arr := w.StringSplit("", " ")
	got, err := w.ArrayStrings(arr)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got)

	arr = w.StringSplit(" ", " ")
	got, err = w.ArrayStrings(arr)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, got)

	arr = w.StringSplit("a b  c", " ")
	got, err = w.ArrayStrings(arr)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, got)
}

func TestStringStripOnlySpaceAndNewline(t *testing.T) {
	w := New()
	w.MakeProject("", false, "/src", "/build")
	assert.Equal(t, "x", w.StringStrip("  x  \n"))
	assert.Equal(t, "x\ty", w.StringStrip("\nx\ty"), "tabs are not stripped, only space and newline")
}

func TestJoinIsSplitInverseWhenNoElementContainsSep(t *testing.T) {
	w := New()
	w.MakeProject("", false, "/src", "/build")
	arr := w.StringSplit("a:b:c", ":")
	joined, err := w.JoinStrings(arr, ":")
	require.NoError(t, err)
	assert.Equal(t, "a:b:c", joined)
}

func TestFlattenArrayHandlesNesting(t *testing.T) {
	w := New()
	w.MakeProject("", false, "/src", "/build")
	inner := w.Store.NewArray(w.NewString("a"), w.NewString("b"))
	outer := w.Store.NewArray(inner, w.NewString("c"))
	got, err := w.ArrayStrings(outer)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
