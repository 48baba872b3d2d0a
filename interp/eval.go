package interp

import (
	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/workspace"
)

// Eval evaluates a single expression node to a workspace.Handle.
func (i *Interpreter) Eval(expr lang.Expr) (workspace.Handle, *diagnostic.Error) {
	switch e := expr.(type) {
	case *lang.IntLit:
		return i.WS.NewNumber(e.Value), nil

	case *lang.StringLit:
		return i.WS.NewString(i.interpolate(e.Value)), nil

	case *lang.BoolLit:
		return i.WS.NewBool(e.Value), nil

	case *lang.Ident:
		h, ok := i.WS.Lookup(e.Name)
		if !ok {
			return workspace.NullHandle, diagnostic.Name(e.Pos(), "undefined identifier %q", e.Name)
		}
		return h, nil

	case *lang.ArrayLit:
		arr := i.WS.Store.NewArray()
		for _, el := range e.Elems {
			h, err := i.Eval(el)
			if err != nil {
				return workspace.NullHandle, err
			}
			i.WS.Store.ArrayPush(arr, h)
		}
		return arr, nil

	case *lang.DictLit:
		d := i.WS.Store.NewDict()
		for _, entry := range e.Entries {
			kh, err := i.Eval(entry.Key)
			if err != nil {
				return workspace.NullHandle, err
			}
			key, derr := i.requireString(entry.Key.Pos(), kh)
			if derr != nil {
				return workspace.NullHandle, derr
			}
			vh, err := i.Eval(entry.Value)
			if err != nil {
				return workspace.NullHandle, err
			}
			i.WS.Store.Get(d).Dict.Set(key, vh)
		}
		return d, nil

	case *lang.UnaryExpr:
		return i.evalUnary(e)

	case *lang.BinaryExpr:
		return i.evalBinary(e)

	case *lang.IndexExpr:
		return i.evalIndex(e)

	case *lang.FuncCall:
		return i.evalFuncCall(e)

	case *lang.MethodCall:
		return i.evalMethodCall(e)
	}
	return workspace.NullHandle, diagnostic.Internal(expr.Pos(), "unhandled expression type %T", expr)
}

func (i *Interpreter) requireString(pos lang.Position, h workspace.Handle) (string, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	if v.Kind != workspace.KindString && v.Kind != workspace.KindFile {
		return "", diagnostic.Type(pos, "expected string, got %s", v.Kind)
	}
	return i.WS.ObjString(h), nil
}

func (i *Interpreter) requireNumber(pos lang.Position, h workspace.Handle) (int64, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	if v.Kind != workspace.KindNumber {
		return 0, diagnostic.Type(pos, "expected number, got %s", v.Kind)
	}
	return v.Number, nil
}

// interpolate expands @id@ references inside a string literal's decoded
// text at evaluation time: @id@ is replaced with the string/number
// value bound to id in the current scope chain, left verbatim if id
// does not resolve to a string or number.
func (i *Interpreter) interpolate(s string) string {
	var out []byte
	for idx := 0; idx < len(s); {
		if s[idx] != '@' {
			out = append(out, s[idx])
			idx++
			continue
		}
		end := idx + 1
		for end < len(s) && s[end] != '@' {
			end++
		}
		if end >= len(s) {
			out = append(out, s[idx])
			idx++
			continue
		}
		name := s[idx+1 : end]
		if h, ok := i.WS.Lookup(name); ok {
			v := i.WS.Store.Get(h)
			switch v.Kind {
			case workspace.KindString, workspace.KindFile:
				out = append(out, i.WS.ObjString(h)...)
				idx = end + 1
				continue
			case workspace.KindNumber:
				out = append(out, []byte(intToString(v.Number))...)
				idx = end + 1
				continue
			}
		}
		out = append(out, s[idx:end+1]...)
		idx = end + 1
	}
	return string(out)
}

func intToString(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func (i *Interpreter) evalUnary(e *lang.UnaryExpr) (workspace.Handle, *diagnostic.Error) {
	x, err := i.Eval(e.X)
	if err != nil {
		return workspace.NullHandle, err
	}
	switch e.Op {
	case "not":
		b, terr := i.truthy(e.Pos(), x)
		if terr != nil {
			return workspace.NullHandle, terr
		}
		return i.WS.NewBool(!b), nil
	case "-":
		n, terr := i.requireNumber(e.Pos(), x)
		if terr != nil {
			return workspace.NullHandle, terr
		}
		return i.WS.NewNumber(-n), nil
	}
	return workspace.NullHandle, diagnostic.Internal(e.Pos(), "unhandled unary operator %q", e.Op)
}

func (i *Interpreter) evalIndex(e *lang.IndexExpr) (workspace.Handle, *diagnostic.Error) {
	x, err := i.Eval(e.X)
	if err != nil {
		return workspace.NullHandle, err
	}
	idx, err := i.Eval(e.Index)
	if err != nil {
		return workspace.NullHandle, err
	}
	v := i.WS.Store.Get(x)
	switch v.Kind {
	case workspace.KindArray:
		n, nerr := i.requireNumber(e.Index.Pos(), idx)
		if nerr != nil {
			return workspace.NullHandle, nerr
		}
		pos := n
		if pos < 0 {
			pos += int64(len(v.Array))
		}
		if pos < 0 || pos >= int64(len(v.Array)) {
			return workspace.NullHandle, diagnostic.Value(e.Pos(), "array index %d out of bounds (length %d)", n, len(v.Array))
		}
		return v.Array[pos], nil
	case workspace.KindDict:
		key, serr := i.requireString(e.Index.Pos(), idx)
		if serr != nil {
			return workspace.NullHandle, serr
		}
		h, ok := v.Dict.Get(key)
		if !ok {
			return workspace.NullHandle, diagnostic.Value(e.Pos(), "dict has no key %q", key)
		}
		return h, nil
	}
	return workspace.NullHandle, diagnostic.Type(e.Pos(), "cannot index a %s", v.Kind)
}
