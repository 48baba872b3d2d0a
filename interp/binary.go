package interp

import (
	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/workspace"
)

func (i *Interpreter) evalBinary(e *lang.BinaryExpr) (workspace.Handle, *diagnostic.Error) {
	switch e.Op {
	case "and":
		x, err := i.Eval(e.X)
		if err != nil {
			return workspace.NullHandle, err
		}
		xb, terr := i.truthy(e.X.Pos(), x)
		if terr != nil {
			return workspace.NullHandle, terr
		}
		if !xb {
			return i.WS.NewBool(false), nil
		}
		y, err := i.Eval(e.Y)
		if err != nil {
			return workspace.NullHandle, err
		}
		yb, terr := i.truthy(e.Y.Pos(), y)
		if terr != nil {
			return workspace.NullHandle, terr
		}
		return i.WS.NewBool(yb), nil

	case "or":
		x, err := i.Eval(e.X)
		if err != nil {
			return workspace.NullHandle, err
		}
		xb, terr := i.truthy(e.X.Pos(), x)
		if terr != nil {
			return workspace.NullHandle, terr
		}
		if xb {
			return i.WS.NewBool(true), nil
		}
		y, err := i.Eval(e.Y)
		if err != nil {
			return workspace.NullHandle, err
		}
		yb, terr := i.truthy(e.Y.Pos(), y)
		if terr != nil {
			return workspace.NullHandle, terr
		}
		return i.WS.NewBool(yb), nil
	}

	x, err := i.Eval(e.X)
	if err != nil {
		return workspace.NullHandle, err
	}
	y, err := i.Eval(e.Y)
	if err != nil {
		return workspace.NullHandle, err
	}

	switch e.Op {
	case "+":
		return i.addValues(e.Pos(), x, y)
	case "-", "*", "/", "%":
		return i.arith(e.Pos(), e.Op, x, y)
	case "==":
		eq, eerr := i.equalValues(e.Pos(), x, y)
		if eerr != nil {
			return workspace.NullHandle, eerr
		}
		return i.WS.NewBool(eq), nil
	case "!=":
		eq, eerr := i.equalValues(e.Pos(), x, y)
		if eerr != nil {
			return workspace.NullHandle, eerr
		}
		return i.WS.NewBool(!eq), nil
	case "<", "<=", ">", ">=":
		return i.compareValues(e.Pos(), e.Op, x, y)
	case "in":
		return i.inValues(e.Pos(), x, y)
	}
	return workspace.NullHandle, diagnostic.Internal(e.Pos(), "unhandled binary operator %q", e.Op)
}

// addValues implements the overload of '+': number+number, string+string
// (concatenation), array+anything (append/concat), and dict+dict
// (right-biased key merge, matching object_dict_merge).
func (i *Interpreter) addValues(pos lang.Position, x, y workspace.Handle) (workspace.Handle, *diagnostic.Error) {
	vx := i.WS.Store.Get(x)
	vy := i.WS.Store.Get(y)

	switch vx.Kind {
	case workspace.KindNumber:
		if vy.Kind != workspace.KindNumber {
			return workspace.NullHandle, diagnostic.Type(pos, "cannot add %s to number", vy.Kind)
		}
		return i.WS.NewNumber(vx.Number + vy.Number), nil

	case workspace.KindString:
		if vy.Kind != workspace.KindString && vy.Kind != workspace.KindFile {
			return workspace.NullHandle, diagnostic.Type(pos, "cannot add %s to string", vy.Kind)
		}
		return i.WS.NewString(i.WS.ObjString(x) + i.WS.ObjString(y)), nil

	case workspace.KindArray:
		out := i.WS.Store.NewArray(append([]workspace.Handle(nil), vx.Array...)...)
		if vy.Kind == workspace.KindArray {
			i.WS.Store.ArrayExtend(out, y)
		} else {
			i.WS.Store.ArrayPush(out, y)
		}
		return out, nil

	case workspace.KindDict:
		if vy.Kind != workspace.KindDict {
			return workspace.NullHandle, diagnostic.Type(pos, "cannot add %s to dict", vy.Kind)
		}
		out := i.WS.Store.NewDict()
		od := i.WS.Store.Get(out).Dict
		for _, ent := range vx.Dict.Entries() {
			od.Set(ent.Key, ent.Value)
		}
		for _, ent := range vy.Dict.Entries() {
			od.Set(ent.Key, ent.Value)
		}
		return out, nil
	}
	return workspace.NullHandle, diagnostic.Type(pos, "operator '+' not defined for %s", vx.Kind)
}

func (i *Interpreter) arith(pos lang.Position, op string, x, y workspace.Handle) (workspace.Handle, *diagnostic.Error) {
	a, err := i.requireNumber(pos, x)
	if err != nil {
		return workspace.NullHandle, err
	}
	b, err := i.requireNumber(pos, y)
	if err != nil {
		return workspace.NullHandle, err
	}
	switch op {
	case "-":
		return i.WS.NewNumber(a - b), nil
	case "*":
		return i.WS.NewNumber(a * b), nil
	case "/":
		if b == 0 {
			return workspace.NullHandle, diagnostic.Value(pos, "division by zero")
		}
		return i.WS.NewNumber(a / b), nil
	case "%":
		if b == 0 {
			return workspace.NullHandle, diagnostic.Value(pos, "modulo by zero")
		}
		return i.WS.NewNumber(a % b), nil
	}
	return workspace.NullHandle, diagnostic.Internal(pos, "unhandled arithmetic operator %q", op)
}

func (i *Interpreter) equalValues(pos lang.Position, x, y workspace.Handle) (bool, *diagnostic.Error) {
	vx := i.WS.Store.Get(x)
	vy := i.WS.Store.Get(y)
	if vx.Kind != vy.Kind {
		if (vx.Kind == workspace.KindString || vx.Kind == workspace.KindFile) &&
			(vy.Kind == workspace.KindString || vy.Kind == workspace.KindFile) {
			return i.WS.ObjString(x) == i.WS.ObjString(y), nil
		}
		return false, nil
	}
	switch vx.Kind {
	case workspace.KindBool:
		return vx.Bool == vy.Bool, nil
	case workspace.KindNumber:
		return vx.Number == vy.Number, nil
	case workspace.KindString, workspace.KindFile:
		return i.WS.ObjString(x) == i.WS.ObjString(y), nil
	case workspace.KindArray:
		if len(vx.Array) != len(vy.Array) {
			return false, nil
		}
		for idx := range vx.Array {
			eq, err := i.equalValues(pos, vx.Array[idx], vy.Array[idx])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case workspace.KindNull:
		return true, nil
	}
	return x == y, nil
}

func (i *Interpreter) compareValues(pos lang.Position, op string, x, y workspace.Handle) (workspace.Handle, *diagnostic.Error) {
	vx := i.WS.Store.Get(x)
	vy := i.WS.Store.Get(y)

	cmp := 0
	switch {
	case vx.Kind == workspace.KindNumber && vy.Kind == workspace.KindNumber:
		switch {
		case vx.Number < vy.Number:
			cmp = -1
		case vx.Number > vy.Number:
			cmp = 1
		}
	case (vx.Kind == workspace.KindString || vx.Kind == workspace.KindFile) &&
		(vy.Kind == workspace.KindString || vy.Kind == workspace.KindFile):
		sx, sy := i.WS.ObjString(x), i.WS.ObjString(y)
		switch {
		case sx < sy:
			cmp = -1
		case sx > sy:
			cmp = 1
		}
	default:
		return workspace.NullHandle, diagnostic.Type(pos, "operator %q not defined between %s and %s", op, vx.Kind, vy.Kind)
	}

	var result bool
	switch op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return i.WS.NewBool(result), nil
}

// inValues implements `x in y`: membership in an array by equalValues,
// or key presence in a dict.
func (i *Interpreter) inValues(pos lang.Position, x, y workspace.Handle) (workspace.Handle, *diagnostic.Error) {
	vy := i.WS.Store.Get(y)
	switch vy.Kind {
	case workspace.KindArray:
		for _, elem := range vy.Array {
			eq, err := i.equalValues(pos, x, elem)
			if err != nil {
				return workspace.NullHandle, err
			}
			if eq {
				return i.WS.NewBool(true), nil
			}
		}
		return i.WS.NewBool(false), nil
	case workspace.KindDict:
		key, err := i.requireString(pos, x)
		if err != nil {
			return workspace.NullHandle, err
		}
		_, ok := vy.Dict.Get(key)
		return i.WS.NewBool(ok), nil
	}
	return workspace.NullHandle, diagnostic.Type(pos, "right side of 'in' must be an array or dict, got %s", vy.Kind)
}
