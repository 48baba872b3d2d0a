// Package interp is the tree-walking evaluator: it walks the lang
// package's AST against a workspace.Workspace, dispatching statements
// and expressions through the tables built in builtins.go and
// methods.go, coercing arguments at call boundaries (coerce.go), and
// applying option overrides (options.go).
package interp

import (
	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/workspace"
)

// Interpreter holds everything one evaluation run threads through the
// AST: the workspace being built, a diagnostic sink for message()/
// warning() output, the option declarations project() applies, the
// subproject context, and the builtin and method dispatch tables.
type Interpreter struct {
	WS   *workspace.Workspace
	Sink *diagnostic.Sink

	// OptionDecls holds the main project's option() declarations, parsed
	// from meson_options.txt (if any) before the build source runs.
	// project() applies them to the newly made project's Opts dict the
	// moment it runs, since no project (and hence no Opts dict to
	// populate) exists before then.
	OptionDecls []OptionDecl

	// subprojectName and inSubproject are set for the duration of a
	// subproject() call so the nested muon.build's own project() call
	// registers as a subproject (with an isolated scope and option
	// namespace) instead of a second main project.
	subprojectName string
	inSubproject   bool

	builtins map[string]BuiltinFunc
	methods  map[workspace.Kind]map[string]MethodFunc
}

// New returns an Interpreter over ws, with message()/warning() wired to
// sink; error() returns a value error instead of writing to sink.
func New(ws *workspace.Workspace, sink *diagnostic.Sink) *Interpreter {
	in := &Interpreter{WS: ws, Sink: sink}
	in.builtins = defaultBuiltins()
	in.methods = defaultMethods()
	return in
}

// loopSignal is how Continue/Break unwind out of evalBlock without
// allocating an error on the hot path; evalForeach consumes it, and Run
// discards it, so it is never surfaced to a caller outside this package.
type loopSignal int

const (
	signalNone loopSignal = iota
	signalContinue
	signalBreak
)

// Run evaluates every statement of prog in order against i.WS.
func (i *Interpreter) Run(prog *lang.Program) *diagnostic.Error {
	_, err := i.evalBlock(prog.Statements)
	return err
}

func (i *Interpreter) evalBlock(stmts []lang.Stmt) (loopSignal, *diagnostic.Error) {
	for _, stmt := range stmts {
		sig, err := i.evalStmt(stmt)
		if err != nil {
			return signalNone, err
		}
		if sig != signalNone {
			return sig, nil
		}
	}
	return signalNone, nil
}

func (i *Interpreter) evalStmt(stmt lang.Stmt) (loopSignal, *diagnostic.Error) {
	switch s := stmt.(type) {
	case *lang.ExprStmt:
		_, err := i.Eval(s.X)
		return signalNone, err

	case *lang.Assignment:
		val, err := i.Eval(s.Value)
		if err != nil {
			return signalNone, err
		}
		if s.Op == "+=" {
			cur, ok := i.WS.Lookup(s.Name)
			if !ok {
				return signalNone, diagnostic.Name(s.Pos(), "undefined identifier %q", s.Name)
			}
			combined, err := i.addValues(s.Pos(), cur, val)
			if err != nil {
				return signalNone, err
			}
			val = combined
		}
		i.WS.Assign(s.Name, val)
		return signalNone, nil

	case *lang.If:
		for _, br := range s.Branches {
			cond, err := i.Eval(br.Cond)
			if err != nil {
				return signalNone, err
			}
			truthy, err := i.truthy(br.Cond.Pos(), cond)
			if err != nil {
				return signalNone, err
			}
			if truthy {
				return i.evalBlock(br.Body)
			}
		}
		return i.evalBlock(s.Else)

	case *lang.Foreach:
		return i.evalForeach(s)

	case *lang.Continue:
		return signalContinue, nil

	case *lang.Break:
		return signalBreak, nil
	}
	return signalNone, diagnostic.Internal(stmt.Pos(), "unhandled statement type %T", stmt)
}

func (i *Interpreter) evalForeach(s *lang.Foreach) (loopSignal, *diagnostic.Error) {
	iter, err := i.Eval(s.Iterable)
	if err != nil {
		return signalNone, err
	}
	v := i.WS.Store.Get(iter)

	switch v.Kind {
	case workspace.KindArray:
		if len(s.Vars) != 1 {
			return signalNone, diagnostic.Type(s.Pos(), "foreach over an array takes exactly one loop variable")
		}
		for _, elem := range append([]workspace.Handle(nil), v.Array...) {
			i.WS.Assign(s.Vars[0], elem)
			sig, err := i.evalBlock(s.Body)
			if err != nil {
				return signalNone, err
			}
			if sig == signalBreak {
				break
			}
		}
	case workspace.KindDict:
		if len(s.Vars) != 2 {
			return signalNone, diagnostic.Type(s.Pos(), "foreach over a dict takes exactly two loop variables")
		}
		for _, e := range append([]workspace.DictEntry(nil), v.Dict.Entries()...) {
			i.WS.Assign(s.Vars[0], i.WS.NewString(e.Key))
			i.WS.Assign(s.Vars[1], e.Value)
			sig, err := i.evalBlock(s.Body)
			if err != nil {
				return signalNone, err
			}
			if sig == signalBreak {
				break
			}
		}
	default:
		return signalNone, diagnostic.Type(s.Pos(), "cannot foreach over a %s", v.Kind)
	}
	return signalNone, nil
}

func (i *Interpreter) truthy(pos lang.Position, h workspace.Handle) (bool, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	if v.Kind != workspace.KindBool {
		return false, diagnostic.Type(pos, "expected bool, got %s", v.Kind)
	}
	return v.Bool, nil
}
