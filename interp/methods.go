package interp

import (
	"strings"

	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/pathutil"
	"github.com/rofl0r/muon/workspace"
)

// defaultMethods is the per-Kind method dispatch table:
// string.strip()/split()/to_upper()/..., array.length()/contains()/...,
// dict.keys()/get()/..., one handler function per operation rather than
// one giant switch.
func defaultMethods() map[workspace.Kind]map[string]MethodFunc {
	return map[workspace.Kind]map[string]MethodFunc{
		workspace.KindString: {
			"strip":           methStrip,
			"split":           methSplit,
			"to_upper":        methToUpper,
			"to_lower":        methToLower,
			"contains":        methStringContains,
			"startswith":      methStartsWith,
			"endswith":        methEndsWith,
			"replace":         methReplace,
			"format":          methFormat,
			"to_int":          methToInt,
			"join":            methStringJoin,
			"underscorify":    methUnderscorify,
			"version_compare": methVersionCompare,
		},
		workspace.KindArray: {
			"length":   methArrayLength,
			"contains": methArrayContains,
			"get":      methArrayGet,
		},
		workspace.KindDict: {
			"keys":    methDictKeys,
			"get":     methDictGet,
			"has_key": methDictHasKey,
		},
		workspace.KindDependency: {
			"found": methDependencyFound,
			"name":  methDependencyName,
		},
		workspace.KindExternalProgram: {
			"found": methExternalProgramFound,
		},
		workspace.KindSubproject: {
			"get_variable": methSubprojectGetVariable,
			"found":        methSubprojectFound,
		},
		workspace.KindModule: {
			"exists": methFsExists,
			"is_dir": methFsIsDir,
			"read":   methFsRead,
		},
	}
}

func methStrip(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.NewString(i.WS.StringStrip(s)), nil
}

func methSplit(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	sep := " "
	if len(args.Positional) > 0 {
		sep, err = i.CoerceString(pos, "1", args.Positional[0])
		if err != nil {
			return workspace.NullHandle, err
		}
	}
	return i.WS.StringSplit(s, sep), nil
}

func methToUpper(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.NewString(strings.ToUpper(s)), nil
}

func methToLower(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.NewString(strings.ToLower(s)), nil
}

func methStringContains(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "contains", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	sub, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.NewBool(strings.Contains(s, sub)), nil
}

func methStartsWith(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "startswith", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	prefix, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.NewBool(strings.HasPrefix(s, prefix)), nil
}

func methEndsWith(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "endswith", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	suffix, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.NewBool(strings.HasSuffix(s, suffix)), nil
}

func methReplace(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "replace", 2, 2); err != nil {
		return workspace.NullHandle, err
	}
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	from, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	to, err := i.CoerceString(pos, "2", args.Positional[1])
	if err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.NewString(strings.ReplaceAll(s, from, to)), nil
}

// methFormat implements format(): @0@, @1@, ... are replaced by the
// stringified positional arguments; a non-string/number positional is a
// type error rather than silently stringified. An unclosed '@', an
// empty key, or a key that is not the index of a positional argument
// is a value error.
func methFormat(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	var out strings.Builder
	for idx := 0; idx < len(s); {
		if s[idx] != '@' {
			out.WriteByte(s[idx])
			idx++
			continue
		}
		end := idx + 1
		for end < len(s) && s[end] != '@' {
			end++
		}
		if end >= len(s) {
			return workspace.NullHandle, diagnostic.Value(pos, "format(): unclosed '@' in %q", s)
		}
		numStr := s[idx+1 : end]
		n, ok := parseUint(numStr)
		if !ok || n >= len(args.Positional) {
			return workspace.NullHandle, diagnostic.Value(pos, "format(): invalid or unknown key @%s@", numStr)
		}
		v := i.WS.Store.Get(args.Positional[n])
		switch v.Kind {
		case workspace.KindString, workspace.KindFile:
			out.WriteString(i.WS.ObjString(args.Positional[n]))
		case workspace.KindNumber:
			out.WriteString(intToString(v.Number))
		default:
			return workspace.NullHandle, diagnostic.Type(pos, "format() argument @%d@ must be a string or number, got %s", n, v.Kind)
		}
		idx = end + 1
	}
	return i.WS.NewString(out.String()), nil
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, ch := range []byte(s) {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		n = n*10 + int(ch-'0')
	}
	return n, true
}

func methToInt(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	n, ok := parseSignedInt(s)
	if !ok {
		return workspace.NullHandle, diagnostic.Value(pos, "cannot convert %q to int", s)
	}
	return i.WS.NewNumber(n), nil
}

func parseSignedInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	idx := 0
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		idx = 1
	}
	if idx >= len(s) {
		return 0, false
	}
	var n int64
	for ; idx < len(s); idx++ {
		if s[idx] < '0' || s[idx] > '9' {
			return 0, false
		}
		n = n*10 + int64(s[idx]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

func methStringJoin(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "join", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	sep, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	joined, jerr := i.WS.JoinStrings(args.Positional[0], sep)
	if jerr != nil {
		return workspace.NullHandle, diagnostic.Type(pos, "%s", jerr)
	}
	return i.WS.NewString(joined), nil
}

func methUnderscorify(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	out := make([]byte, len(s))
	for idx := 0; idx < len(s); idx++ {
		ch := s[idx]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			out[idx] = ch
		} else {
			out[idx] = '_'
		}
	}
	return i.WS.NewString(string(out)), nil
}

// version is a parsed major.minor.patch triple; missing trailing
// components default to 0, matching str_to_version.
type version struct {
	major, minor, patch int64
}

func parseVersion(pos lang.Position, s string) (version, *diagnostic.Error) {
	var v version
	fields := [3]*int64{&v.major, &v.minor, &v.patch}
	n := 0
	start := 0
	for idx := 0; idx <= len(s); idx++ {
		if idx < len(s) && s[idx] != '.' {
			continue
		}
		if n >= 3 {
			return version{}, diagnostic.Value(pos, "invalid version string %q", s)
		}
		num, ok := parseUint(s[start:idx])
		if !ok {
			return version{}, diagnostic.Value(pos, "invalid version string %q", s)
		}
		*fields[n] = int64(num)
		n++
		start = idx + 1
	}
	return v, nil
}

type versionOp struct {
	name string
	cmp  func(cmp int) bool
}

// versionOps is checked in order against the operator-prefix of the
// comparison string; the first matching prefix wins, so each
// two-character operator (">=", "==", "<=") is listed before its
// one-character prefix (">", "=", "<"), which would otherwise match
// first and leave a stray '=' in front of the version text.
var versionOps = []versionOp{
	{">=", func(c int) bool { return c >= 0 }},
	{">", func(c int) bool { return c > 0 }},
	{"==", func(c int) bool { return c == 0 }},
	{"!=", func(c int) bool { return c != 0 }},
	{"<=", func(c int) bool { return c <= 0 }},
	{"<", func(c int) bool { return c < 0 }},
	{"=", func(c int) bool { return c == 0 }},
}

// methVersionCompare implements version_compare(spec): spec is an
// optional comparison operator from {>=,>,==,!=,<=,<,=} (default ==)
// followed by a dotted major.minor.patch version. The receiver and the
// argument are each parsed into a version and compared component by
// component; the first unequal component decides the result under the
// operator, and if all three are equal the operator is satisfied iff
// it admits equality (==, >=, <=), matching string_version_compare.
func methVersionCompare(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "version_compare", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	s, err := i.requireString(pos, recv)
	if err != nil {
		return workspace.NullHandle, err
	}
	spec, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}

	v, verr := parseVersion(pos, s)
	if verr != nil {
		return workspace.NullHandle, verr
	}

	op := versionOps[2] // "==" default
	rest := spec
	for _, candidate := range versionOps {
		if strings.HasPrefix(spec, candidate.name) {
			op = candidate
			rest = spec[len(candidate.name):]
			break
		}
	}

	vArg, verr := parseVersion(pos, rest)
	if verr != nil {
		return workspace.NullHandle, verr
	}

	cmp := 0
	switch {
	case v.major != vArg.major:
		cmp = compareInt64(v.major, vArg.major)
	case v.minor != vArg.minor:
		cmp = compareInt64(v.minor, vArg.minor)
	case v.patch != vArg.patch:
		cmp = compareInt64(v.patch, vArg.patch)
	}
	return i.WS.NewBool(op.cmp(cmp)), nil
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func methArrayLength(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	v := i.WS.Store.Get(recv)
	return i.WS.NewNumber(int64(len(v.Array))), nil
}

func methArrayContains(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "contains", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	v := i.WS.Store.Get(recv)
	for _, elem := range v.Array {
		eq, err := i.equalValues(pos, elem, args.Positional[0])
		if err != nil {
			return workspace.NullHandle, err
		}
		if eq {
			return i.WS.NewBool(true), nil
		}
	}
	return i.WS.NewBool(false), nil
}

func methArrayGet(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "get", 1, 2); err != nil {
		return workspace.NullHandle, err
	}
	v := i.WS.Store.Get(recv)
	n, err := i.CoerceNumber(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	idx := n
	if idx < 0 {
		idx += int64(len(v.Array))
	}
	if idx < 0 || idx >= int64(len(v.Array)) {
		if len(args.Positional) == 2 {
			return args.Positional[1], nil
		}
		return workspace.NullHandle, diagnostic.Value(pos, "array index %d out of bounds (length %d)", n, len(v.Array))
	}
	return v.Array[idx], nil
}

func methDictKeys(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	v := i.WS.Store.Get(recv)
	arr := i.WS.Store.NewArray()
	for _, e := range v.Dict.Entries() {
		i.WS.Store.ArrayPush(arr, i.WS.NewString(e.Key))
	}
	return arr, nil
}

func methDictGet(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "get", 1, 2); err != nil {
		return workspace.NullHandle, err
	}
	key, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	v := i.WS.Store.Get(recv)
	if h, ok := v.Dict.Get(key); ok {
		return h, nil
	}
	if len(args.Positional) == 2 {
		return args.Positional[1], nil
	}
	return workspace.NullHandle, diagnostic.Value(pos, "dict has no key %q", key)
}

func methDictHasKey(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "has_key", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	key, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	v := i.WS.Store.Get(recv)
	_, ok := v.Dict.Get(key)
	return i.WS.NewBool(ok), nil
}

func methDependencyFound(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	v := i.WS.Store.Get(recv)
	return i.WS.NewBool(v.Dependency.Found), nil
}

func methDependencyName(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	v := i.WS.Store.Get(recv)
	return i.WS.NewString(v.Dependency.Name), nil
}

func methExternalProgramFound(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	v := i.WS.Store.Get(recv)
	return i.WS.NewBool(v.ExternalProg.Found), nil
}

// methSubprojectGetVariable looks an identifier up directly in the
// subproject's own project scope (not through i.WS.Lookup, which always
// resolves against the *current* project), matching the isolated-scope
// guarantee subproject() makes.
func methSubprojectGetVariable(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "get_variable", 1, 2); err != nil {
		return workspace.NullHandle, err
	}
	sub := i.WS.Store.Get(recv).Subproject
	if !sub.Found {
		return workspace.NullHandle, diagnostic.Value(pos, "subproject was not found")
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	if h, ok := i.WS.Projects[sub.ProjectIndex].Scope.Get(name); ok {
		return h, nil
	}
	if len(args.Positional) == 2 {
		return args.Positional[1], nil
	}
	return workspace.NullHandle, diagnostic.Name(pos, "undefined identifier %q in subproject", name)
}

func methSubprojectFound(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	return i.WS.NewBool(i.WS.Store.Get(recv).Subproject.Found), nil
}

// methFsExists, methFsIsDir and methFsRead implement the "fs" module's
// subset used by this corpus: path existence, directory-ness, and whole-
// file reads, each resolved relative to the current project's source
// directory like files()'s paths are.
func methFsExists(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "exists", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	p, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	p = pathutil.Absolute(i.WS.CurrentProject().SourceDir, p)
	return i.WS.NewBool(pathutil.FileExists(p) || pathutil.DirExists(p)), nil
}

func methFsIsDir(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "is_dir", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	p, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	p = pathutil.Absolute(i.WS.CurrentProject().SourceDir, p)
	return i.WS.NewBool(pathutil.DirExists(p)), nil
}

func methFsRead(i *Interpreter, pos lang.Position, recv workspace.Handle, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "read", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	p, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	p = pathutil.Absolute(i.WS.CurrentProject().SourceDir, p)
	text, rerr := pathutil.ReadEntireFile(p)
	if rerr != nil {
		return workspace.NullHandle, diagnostic.IO(pos, "reading %s: %s", p, rerr)
	}
	return i.WS.NewString(text), nil
}
