package interp

import (
	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/workspace"
)

// EvaluatedArgs is a call's arguments after every expression has been
// evaluated to a Handle, in source order. This is what builtins' and
// methods' argument-shape checking operates over.
type EvaluatedArgs struct {
	Positional []workspace.Handle
	Keyword    map[string]workspace.Handle
}

// Arity fails with an Arity error unless the call has between min and
// max positional arguments (max < 0 means unbounded).
func (a *EvaluatedArgs) Arity(pos lang.Position, name string, min, max int) *diagnostic.Error {
	n := len(a.Positional)
	if n < min || (max >= 0 && n > max) {
		if min == max {
			return diagnostic.Arity(pos, "%s() takes exactly %d argument(s), got %d", name, min, n)
		}
		return diagnostic.Arity(pos, "%s() takes between %d and %d arguments, got %d", name, min, max, n)
	}
	return nil
}

// Kw returns the handle bound to the keyword argument name, and whether
// it was supplied at all.
func (a *EvaluatedArgs) Kw(name string) (workspace.Handle, bool) {
	h, ok := a.Keyword[name]
	return h, ok
}

// BuiltinFunc is a top-level function's implementation: project(),
// executable(), files(), message(), and so on.
type BuiltinFunc func(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error)

// MethodFunc is one Kind's method implementation, e.g. string.strip().
type MethodFunc func(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error)

func (i *Interpreter) evalArguments(args *lang.Arguments) (*EvaluatedArgs, *diagnostic.Error) {
	out := &EvaluatedArgs{Keyword: make(map[string]workspace.Handle)}
	for _, e := range args.Positional {
		h, err := i.Eval(e)
		if err != nil {
			return nil, err
		}
		out.Positional = append(out.Positional, h)
	}
	for _, name := range args.KeywordNames {
		h, err := i.Eval(args.Keyword[name])
		if err != nil {
			return nil, err
		}
		out.Keyword[name] = h
	}
	return out, nil
}

func (i *Interpreter) evalFuncCall(e *lang.FuncCall) (workspace.Handle, *diagnostic.Error) {
	fn, ok := i.builtins[e.Name]
	if !ok {
		return workspace.NullHandle, diagnostic.Name(e.Pos(), "undefined function %q", e.Name)
	}
	args, err := i.evalArguments(e.Args)
	if err != nil {
		return workspace.NullHandle, err
	}
	return fn(i, e.Pos(), args)
}

func (i *Interpreter) evalMethodCall(e *lang.MethodCall) (workspace.Handle, *diagnostic.Error) {
	recv, err := i.Eval(e.Receiver)
	if err != nil {
		return workspace.NullHandle, err
	}
	args, err := i.evalArguments(e.Args)
	if err != nil {
		return workspace.NullHandle, err
	}
	kind := i.WS.Store.Get(recv).Kind
	table, ok := i.methods[kind]
	if !ok {
		return workspace.NullHandle, diagnostic.Type(e.Pos(), "%s has no methods", kind)
	}
	fn, ok := table[e.Name]
	if !ok {
		return workspace.NullHandle, diagnostic.Name(e.Pos(), "%s has no method %q", kind, e.Name)
	}
	return fn(i, e.Pos(), recv, args)
}
