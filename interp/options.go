package interp

import (
	"strconv"

	"github.com/imdario/mergo"

	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/workspace"
)

// OptionDecl is one option() declaration read from an options file,
// before any -D override has been applied.
type OptionDecl struct {
	Name    string
	Type    string // "string", "integer", "boolean", "combo", "feature", "array"
	Default interface{}
	Choices []string
}

// ParseOptions reads an options-declaration source buffer (the
// DSL's separate, restricted option() file) and returns the declared
// options in source order. It reuses the full lang lexer/parser since
// option() is a normal function call; only option() is recognized as a
// statement, since this one file has a narrower grammar than a full
// build file.
func ParseOptions(file, src string) ([]OptionDecl, *diagnostic.Error) {
	prog, err := lang.Parse(file, src)
	if err != nil {
		return nil, err
	}
	var decls []OptionDecl
	for _, stmt := range prog.Statements {
		es, ok := stmt.(*lang.ExprStmt)
		if !ok {
			return nil, diagnostic.Parse(stmt.Pos(), "only option() calls are permitted in an options file")
		}
		call, ok := es.X.(*lang.FuncCall)
		if !ok || call.Name != "option" {
			return nil, diagnostic.Parse(stmt.Pos(), "only option() calls are permitted in an options file")
		}
		decl, derr := parseOptionCall(call)
		if derr != nil {
			return nil, derr
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func parseOptionCall(call *lang.FuncCall) (OptionDecl, *diagnostic.Error) {
	if len(call.Args.Positional) != 1 {
		return OptionDecl{}, diagnostic.Arity(call.Pos(), "option() takes exactly one positional argument (the name)")
	}
	nameLit, ok := call.Args.Positional[0].(*lang.StringLit)
	if !ok {
		return OptionDecl{}, diagnostic.Type(call.Args.Positional[0].Pos(), "option() name must be a string literal")
	}

	decl := OptionDecl{Name: nameLit.Value, Type: "string"}
	if typeExpr, ok := call.Args.Keyword["type"]; ok {
		lit, ok := typeExpr.(*lang.StringLit)
		if !ok {
			return OptionDecl{}, diagnostic.Type(typeExpr.Pos(), "option() type: must be a string literal")
		}
		decl.Type = lit.Value
	}

	if valExpr, ok := call.Args.Keyword["value"]; ok {
		v, err := literalToGo(valExpr)
		if err != nil {
			return OptionDecl{}, err
		}
		decl.Default = v
	} else {
		decl.Default = zeroForType(decl.Type)
	}

	if choicesExpr, ok := call.Args.Keyword["choices"]; ok {
		arr, ok := choicesExpr.(*lang.ArrayLit)
		if !ok {
			return OptionDecl{}, diagnostic.Type(choicesExpr.Pos(), "option() choices: must be an array literal")
		}
		for _, el := range arr.Elems {
			lit, ok := el.(*lang.StringLit)
			if !ok {
				return OptionDecl{}, diagnostic.Type(el.Pos(), "option() choices: elements must be string literals")
			}
			decl.Choices = append(decl.Choices, lit.Value)
		}
	}
	return decl, nil
}

func literalToGo(e lang.Expr) (interface{}, *diagnostic.Error) {
	switch lit := e.(type) {
	case *lang.StringLit:
		return lit.Value, nil
	case *lang.IntLit:
		return lit.Value, nil
	case *lang.BoolLit:
		return lit.Value, nil
	case *lang.ArrayLit:
		var out []string
		for _, el := range lit.Elems {
			s, ok := el.(*lang.StringLit)
			if !ok {
				return nil, diagnostic.Type(el.Pos(), "array option default elements must be string literals")
			}
			out = append(out, s.Value)
		}
		return out, nil
	}
	return nil, diagnostic.Type(e.Pos(), "option() default must be a literal")
}

func zeroForType(typ string) interface{} {
	switch typ {
	case "integer":
		return int64(0)
	case "boolean":
		return false
	case "array":
		return []string{}
	default:
		return ""
	}
}

// DefaultOptionDecls returns the built-in options the backend's derived
// compiler-flag layer reads (buildtype/warning_level/c_std/optimization/
// debug), declared before any project- or meson_options.txt-supplied
// option() runs -- matching how the reference implementation seeds its
// option table with its builtin set before reading the project's own
// options file.
func DefaultOptionDecls() []OptionDecl {
	return []OptionDecl{
		{Name: "buildtype", Type: "combo", Default: "debug",
			Choices: []string{"plain", "debug", "debugoptimized", "release", "minsize", "custom"}},
		{Name: "warning_level", Type: "combo", Default: "1", Choices: []string{"0", "1", "2", "3"}},
		{Name: "c_std", Type: "combo", Default: "none", Choices: []string{"none", "c89", "c99", "c11", "c17"}},
		{Name: "optimization", Type: "combo", Default: "0", Choices: []string{"0", "g", "1", "2", "3", "s"}},
		{Name: "debug", Type: "boolean", Default: true},
	}
}

// ApplyOptions builds the current project's Opts dict from decls, then
// layers overrides on top. Overrides are looked up by (subproject,
// name) with subproject == "" matching the main project, and are
// type-checked against each option's declared Type before being
// applied -- an override that doesn't parse as its option's type is a
// Value error.
//
// The default/override layering itself is done with
// github.com/imdario/mergo 's override-merge instead of a hand-rolled
// loop: defaults and the subset of matching overrides are each
// collected into a map[string]interface{}, and mergo.Merge with
// WithOverride produces the final per-option value map in one call.
func ApplyOptions(ws *workspace.Workspace, decls []OptionDecl, subproject string) *diagnostic.Error {
	defaults := make(map[string]interface{}, len(decls))
	byName := make(map[string]OptionDecl, len(decls))
	for _, d := range decls {
		defaults[d.Name] = d.Default
		byName[d.Name] = d
	}

	overrides := make(map[string]interface{})
	for _, o := range ws.OptionOverrides {
		if o.Subproject != subproject {
			continue
		}
		decl, ok := byName[o.Name]
		if !ok {
			continue
		}
		v, err := coerceOverride(decl, o.Value)
		if err != nil {
			return err
		}
		overrides[o.Name] = v
	}

	if err := mergo.Merge(&defaults, overrides, mergo.WithOverride); err != nil {
		return diagnostic.Internal(lang.Position{}, "merging option overrides: %s", err)
	}

	proj := ws.CurrentProject()
	opts := ws.Store.Get(proj.Opts).Dict
	for _, d := range decls {
		opts.Set(d.Name, goValueToHandle(ws, d.Type, defaults[d.Name]))
	}
	return nil
}

func coerceOverride(decl OptionDecl, raw string) (interface{}, *diagnostic.Error) {
	switch decl.Type {
	case "integer":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, diagnostic.Value(lang.Position{}, "option %q expects an integer, got %q", decl.Name, raw)
		}
		return n, nil
	case "boolean":
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, diagnostic.Value(lang.Position{}, "option %q expects true/false, got %q", decl.Name, raw)
		}
	case "combo":
		for _, c := range decl.Choices {
			if c == raw {
				return raw, nil
			}
		}
		return nil, diagnostic.Value(lang.Position{}, "option %q: %q is not one of %v", decl.Name, raw, decl.Choices)
	case "feature":
		switch raw {
		case "auto", "enabled", "disabled":
			return raw, nil
		default:
			return nil, diagnostic.Value(lang.Position{}, "option %q expects auto/enabled/disabled, got %q", decl.Name, raw)
		}
	case "array":
		return splitCommaList(raw), nil
	default:
		return raw, nil
	}
}

func splitCommaList(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func goValueToHandle(ws *workspace.Workspace, typ string, v interface{}) workspace.Handle {
	switch typ {
	case "integer":
		return ws.NewNumber(v.(int64))
	case "boolean":
		return ws.NewBool(v.(bool))
	case "feature":
		h := ws.Store.Alloc(workspace.KindFeatureOption)
		switch v.(string) {
		case "enabled":
			ws.Store.Get(h).Feature = workspace.FeatureEnabled
		case "disabled":
			ws.Store.Get(h).Feature = workspace.FeatureDisabled
		default:
			ws.Store.Get(h).Feature = workspace.FeatureAuto
		}
		return h
	case "array":
		arr := ws.Store.NewArray()
		for _, s := range v.([]string) {
			ws.Store.ArrayPush(arr, ws.NewString(s))
		}
		return arr
	default:
		return ws.NewString(v.(string))
	}
}
