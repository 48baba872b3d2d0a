package workspace

// stringSpan locates a byte run within a StringArena's backing buffer.
type stringSpan struct {
	offset, length int
}

// StringArena is the append-only byte pool backing every interned
// string. Spec.md §3/§4.A: a string value holds an offset into this
// arena; the byte at (offset+length) is always NUL; strings are never
// shortened; appending may relocate a string's bytes to the arena tail,
// in which case the StringHandle's recorded span is updated in place
// (the handle number itself never changes -- only what it points at).
type StringArena struct {
	buf     []byte
	spans   []stringSpan
	dedup   map[string]StringHandle
}

// NewStringArena returns an arena with handle 0 reserved for "absent".
func NewStringArena() *StringArena {
	a := &StringArena{
		spans: make([]stringSpan, 1, 64),
		dedup: make(map[string]StringHandle),
	}
	return a
}

// Intern appends bytes to the arena (deduplicating identical content)
// and returns a handle whose bytes equal b, NUL-terminated.
func (a *StringArena) Intern(b []byte) StringHandle {
	if h, ok := a.dedup[string(b)]; ok {
		return h
	}
	return a.push(b)
}

// InternString is the string-argument convenience form of Intern.
func (a *StringArena) InternString(s string) StringHandle {
	if h, ok := a.dedup[s]; ok {
		return h
	}
	return a.push([]byte(s))
}

func (a *StringArena) push(b []byte) StringHandle {
	offset := len(a.buf)
	a.buf = append(a.buf, b...)
	a.buf = append(a.buf, 0)
	h := StringHandle(len(a.spans))
	a.spans = append(a.spans, stringSpan{offset: offset, length: len(b)})
	a.dedup[string(b)] = h
	return h
}

// Bytes returns the byte content (without the trailing NUL) referenced
// by h. The returned slice aliases the arena buffer and is only valid
// until the next Append call on any handle.
func (a *StringArena) Bytes(h StringHandle) []byte {
	if h == NullString {
		return nil
	}
	sp := a.spans[h]
	return a.buf[sp.offset : sp.offset+sp.length]
}

// String is the string-returning convenience form of Bytes.
func (a *StringArena) String(h StringHandle) string {
	if h == NullString {
		return ""
	}
	return string(a.Bytes(h))
}

// Append grows the string at h by b, relocating its bytes to the arena
// tail. The handle number is unchanged; only the span it resolves to
// moves. Callers holding a raw []byte from a prior Bytes/String call on
// this or any other handle must not rely on it after an Append.
func (a *StringArena) Append(h StringHandle, b []byte) StringHandle {
	cur := a.Bytes(h)
	if a.dedup[string(cur)] == h {
		delete(a.dedup, string(cur))
	}
	offset := len(a.buf)
	a.buf = append(a.buf, cur...)
	a.buf = append(a.buf, b...)
	a.buf = append(a.buf, 0)
	a.spans[h] = stringSpan{offset: offset, length: len(cur) + len(b)}
	return h
}

// AppendString is the string-argument convenience form of Append.
func (a *StringArena) AppendString(h StringHandle, s string) StringHandle {
	return a.Append(h, []byte(s))
}
