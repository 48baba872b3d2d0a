// Package workspace implements the arena-backed value store described in
// §3/§4.A of the build-configuration engine: every DSL value is addressed
// by a stable, non-zero integer handle, containers store handles rather
// than inline values (so target <-> dependency cycles are free), and
// string bytes live in a separate append-only arena. Handle is a plain
// int and nothing in this package takes a lock: a Workspace and its
// Store are not safe for concurrent use.
package workspace

// Handle identifies a Value in a Store's arena. The zero Handle is
// reserved for "null" and is always allocated first by NewStore.
type Handle int

// NullHandle is never returned by Store.Alloc; it denotes the absence of
// a value wherever a Handle field may legitimately be unset.
const NullHandle Handle = 0

// StringHandle identifies a byte run in a StringArena. The zero value
// denotes an absent string (as opposed to an interned empty string,
// which gets a real non-zero handle).
type StringHandle int

// NullString is the reserved "absent" string handle.
const NullString StringHandle = 0
