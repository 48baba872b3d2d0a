package workspace

import "fmt"

// FlattenArray walks arr recursively, flattening nested arrays into a
// single ordered list of non-array handles. Meson-family DSLs accept
// arbitrarily nested array literals anywhere a flat list is expected
// (e.g. files([['a.c'], 'b.c'])); this is the one place that nesting is
// resolved.
func (w *Workspace) FlattenArray(arr Handle) []Handle {
	var out []Handle
	var walk func(Handle)
	walk = func(h Handle) {
		v := w.Store.Get(h)
		if v.Kind == KindArray {
			for _, e := range v.Array {
				walk(e)
			}
			return
		}
		out = append(out, h)
	}
	walk(arr)
	return out
}

// ArrayStrings coerces every (possibly nested) element of arr to its
// string/file content. It is the plain, non-diagnostic building block
// the coercion layer (interp/coerce.go) wraps with source-span errors.
func (w *Workspace) ArrayStrings(arr Handle) ([]string, error) {
	flat := w.FlattenArray(arr)
	out := make([]string, 0, len(flat))
	for _, h := range flat {
		v := w.Store.Get(h)
		if v.Kind != KindString && v.Kind != KindFile {
			return nil, fmt.Errorf("expected string or file, got %s", v.Kind)
		}
		out = append(out, w.Strings.String(v.Str))
	}
	return out, nil
}

// JoinStrings concatenates the (possibly nested) string/file elements of
// arr with sep between them, for the array side of the join() builtin.
func (w *Workspace) JoinStrings(arr Handle, sep string) (string, error) {
	parts, err := w.ArrayStrings(arr)
	if err != nil {
		return "", err
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out, nil
}
