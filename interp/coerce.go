package interp

import (
	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/workspace"
)

// The coercion layer: builtins and methods declare the shape they want
// (a string, a string list, a bool, a number) and call into here rather
// than switching on workspace.Kind themselves. Every function here that
// can fail produces a diagnostic.Error with the call's position,
// not a generic Go error, so a bad argument always renders with a caret.

// CoerceString requires h to already be a string or file; arg is the
// argument's 1-based position or name for the error message.
func (i *Interpreter) CoerceString(pos lang.Position, arg string, h workspace.Handle) (string, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	if v.Kind != workspace.KindString && v.Kind != workspace.KindFile {
		return "", diagnostic.Type(pos, "argument %s: expected string, got %s", arg, v.Kind)
	}
	return i.WS.ObjString(h), nil
}

// CoerceBool requires h to be a bool.
func (i *Interpreter) CoerceBool(pos lang.Position, arg string, h workspace.Handle) (bool, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	if v.Kind != workspace.KindBool {
		return false, diagnostic.Type(pos, "argument %s: expected bool, got %s", arg, v.Kind)
	}
	return v.Bool, nil
}

// CoerceNumber requires h to be a number.
func (i *Interpreter) CoerceNumber(pos lang.Position, arg string, h workspace.Handle) (int64, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	if v.Kind != workspace.KindNumber {
		return 0, diagnostic.Type(pos, "argument %s: expected number, got %s", arg, v.Kind)
	}
	return v.Number, nil
}

// CoerceStringList flattens nested arrays (and accepts a single bare
// string/file) into a []string -- a scalar is treated as a one-element
// list at any list-shaped call boundary.
func (i *Interpreter) CoerceStringList(pos lang.Position, arg string, h workspace.Handle) ([]string, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	if v.Kind == workspace.KindString || v.Kind == workspace.KindFile {
		return []string{i.WS.ObjString(h)}, nil
	}
	if v.Kind != workspace.KindArray {
		return nil, diagnostic.Type(pos, "argument %s: expected string or array of strings, got %s", arg, v.Kind)
	}
	out, serr := i.WS.ArrayStrings(h)
	if serr != nil {
		return nil, diagnostic.Type(pos, "argument %s: %s", arg, serr)
	}
	return out, nil
}

// CoerceHandleList flattens nested arrays (and accepts a single bare
// handle) into a flat []workspace.Handle without touching Kind at all;
// callers that need one specific Kind (build_target, dependency, ...)
// check it themselves after this returns.
func (i *Interpreter) CoerceHandleList(h workspace.Handle) []workspace.Handle {
	v := i.WS.Store.Get(h)
	if v.Kind != workspace.KindArray {
		return []workspace.Handle{h}
	}
	return i.WS.FlattenArray(h)
}

// RequireKind checks h's Kind against want and renders a type error
// naming both the expected and actual kind.
func (i *Interpreter) RequireKind(pos lang.Position, arg string, h workspace.Handle, want workspace.Kind) *diagnostic.Error {
	v := i.WS.Store.Get(h)
	if v.Kind != want {
		return diagnostic.Type(pos, "argument %s: expected %s, got %s", arg, want, v.Kind)
	}
	return nil
}
