package interp

import (
	"strings"

	"github.com/samber/lo"

	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/pathutil"
	"github.com/rofl0r/muon/workspace"
)

// buildFileName is the DSL source file a subproject() call evaluates,
// duplicated from muon.BuildFileName rather than imported (muon imports
// interp, so the reverse import would cycle).
const buildFileName = "muon.build"

// defaultBuiltins is the top-level function dispatch table: a map from
// name to handler function, looked up once per call rather than a long
// if/else chain.
func defaultBuiltins() map[string]BuiltinFunc {
	return map[string]BuiltinFunc{
		"project":               biProject,
		"executable":            biExecutable,
		"static_library":        biStaticLibrary,
		"files":                 biFiles,
		"include_directories":   biIncludeDirectories,
		"dependency":            biDependency,
		"declare_dependency":    biDeclareDependency,
		"find_program":          biFindProgram,
		"custom_target":         biCustomTarget,
		"configure_file":        biConfigureFile,
		"subproject":            biSubproject,
		"add_project_arguments": biAddProjectArguments,
		"import":                biImport,
		"test":                  biTest,
		"environment":           biEnvironment,
		"message":               biMessage,
		"warning":               biWarning,
		"error":                 biError,
		"get_option":            biGetOption,
		"set_variable":          biSetVariable,
		"get_variable":          biGetVariable,
		"is_variable":           biIsVariable,
		"join_paths":            biJoinPaths,
		"assert":                biAssert,
		"install_data":          biInstallData,
		"install_headers":       biInstallHeaders,
		"install_subdir":        biInstallSubdir,
	}
}

func biProject(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "project", 1, -1); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	for _, p := range i.WS.Projects {
		if p.DeclaredName == name {
			return workspace.NullHandle, diagnostic.Name(pos, "project %q already declared", name)
		}
	}
	srcDir, _ := pathutil.CWD()
	if i.WS.SourceRoot != "" {
		srcDir = i.WS.SourceRoot
	}
	p := i.WS.MakeProject(i.subprojectName, i.inSubproject, srcDir, i.WS.BuildRoot)
	p.DeclaredName = name
	i.WS.CurProject = len(i.WS.Projects) - 1
	if err := ApplyOptions(i.WS, i.OptionDecls, i.subprojectName); err != nil {
		return workspace.NullHandle, err
	}
	return i.WS.Store.Alloc(workspace.KindNull), nil
}

func biExecutable(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	return buildTarget(i, pos, args, workspace.TargetExecutable)
}

func biStaticLibrary(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	return buildTarget(i, pos, args, workspace.TargetStaticLibrary)
}

func buildTarget(i *Interpreter, pos lang.Position, args *EvaluatedArgs, typ workspace.TargetType) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "build target", 1, -1); err != nil {
		return workspace.NullHandle, err
	}
	name, cerr := i.CoerceString(pos, "1", args.Positional[0])
	if cerr != nil {
		return workspace.NullHandle, cerr
	}

	srcArr := i.WS.Store.NewArray()
	for idx, h := range args.Positional[1:] {
		for _, elem := range i.CoerceHandleList(h) {
			v := i.WS.Store.Get(elem)
			if v.Kind != workspace.KindFile && v.Kind != workspace.KindString && v.Kind != workspace.KindBuildTarget && v.Kind != workspace.KindCustomTarget {
				return workspace.NullHandle, diagnostic.Type(pos, "argument %d: sources must be files, strings, or targets, got %s", idx+2, v.Kind)
			}
			i.WS.Store.ArrayPush(srcArr, elem)
		}
	}

	incArr := i.WS.Store.NewArray()
	if h, ok := args.Kw("include_directories"); ok {
		for _, elem := range i.CoerceHandleList(h) {
			i.WS.Store.ArrayPush(incArr, elem)
		}
	}

	cargArr := i.WS.Store.NewArray()
	if h, ok := args.Kw("c_args"); ok {
		strs, serr := i.CoerceStringList(pos, "c_args", h)
		if serr != nil {
			return workspace.NullHandle, serr
		}
		// Duplicate flags (the same -DFOO listed twice in one target's
		// c_args) are harmless to a compiler but noisy in a build.ninja
		// ARGS line, so they're deduped here rather than in the backend
		// writer.
		for _, s := range lo.Uniq(strs) {
			i.WS.Store.ArrayPush(cargArr, i.WS.NewString(s))
		}
	}

	depArr := i.WS.Store.NewArray()
	if h, ok := args.Kw("dependencies"); ok {
		for _, elem := range i.CoerceHandleList(h) {
			if err := i.RequireKind(pos, "dependencies", elem, workspace.KindDependency); err != nil {
				return workspace.NullHandle, err
			}
			i.WS.Store.ArrayPush(depArr, elem)
		}
	}

	linkArr := i.WS.Store.NewArray()
	if h, ok := args.Kw("link_with"); ok {
		for _, elem := range i.CoerceHandleList(h) {
			i.WS.Store.ArrayPush(linkArr, elem)
		}
	}

	proj := i.WS.CurrentProject()
	th := i.WS.Store.Alloc(workspace.KindBuildTarget)
	i.WS.Store.Get(th).Target = &workspace.BuildTarget{
		Name:        name,
		BuildName:   name,
		BuildDir:    proj.BuildDir,
		CWD:         proj.SourceDir,
		Type:        typ,
		Sources:     srcArr,
		IncludeDirs: incArr,
		CArgs:       cargArr,
		Deps:        depArr,
		LinkWith:    linkArr,
	}
	i.WS.Store.ArrayPush(proj.Targets, th)
	return th, nil
}

func biFiles(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	proj := i.WS.CurrentProject()
	arr := i.WS.Store.NewArray()
	for idx, h := range args.Positional {
		strs, err := i.CoerceStringList(pos, itoa(idx+1), h)
		if err != nil {
			return workspace.NullHandle, err
		}
		for _, s := range strs {
			if pathutil.IsAbsolute(s) {
				return workspace.NullHandle, diagnostic.Value(pos, "files() path %q must be relative to the source directory", s)
			}
			i.WS.Store.ArrayPush(arr, i.WS.NewFile(pathutil.Join(proj.SourceDir, s)))
		}
	}
	return arr, nil
}

func biIncludeDirectories(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	proj := i.WS.CurrentProject()
	arr := i.WS.Store.NewArray()
	for idx, h := range args.Positional {
		strs, err := i.CoerceStringList(pos, itoa(idx+1), h)
		if err != nil {
			return workspace.NullHandle, err
		}
		for _, s := range strs {
			i.WS.Store.ArrayPush(arr, i.WS.NewFile(pathutil.Join(proj.SourceDir, s)))
		}
	}
	return arr, nil
}

func biDependency(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "dependency", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	required := true
	if h, ok := args.Kw("required"); ok {
		required, err = i.CoerceBool(pos, "required", h)
		if err != nil {
			return workspace.NullHandle, err
		}
	}

	found := name == "threads" || name == "m"
	if !found && required {
		return workspace.NullHandle, diagnostic.Value(pos, "dependency %q not found", name)
	}

	dh := i.WS.Store.Alloc(workspace.KindDependency)
	i.WS.Store.Get(dh).Dependency = &workspace.Dependency{
		Name:               name,
		IncludeDirectories: i.WS.Store.NewArray(),
		LinkWith:           i.WS.Store.NewArray(),
		Found:              found,
	}
	return dh, nil
}

// biDeclareDependency builds an always-found, unnamed dependency out of
// the caller's own include_directories/link_with/version, the way a
// library's own muon.build hands a ready-to-consume dependency back to
// whoever calls it as a subproject.
func biDeclareDependency(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	incArr := i.WS.Store.NewArray()
	if h, ok := args.Kw("include_directories"); ok {
		for _, elem := range i.CoerceHandleList(h) {
			i.WS.Store.ArrayPush(incArr, elem)
		}
	}

	linkArr := i.WS.Store.NewArray()
	if h, ok := args.Kw("link_with"); ok {
		for _, elem := range i.CoerceHandleList(h) {
			i.WS.Store.ArrayPush(linkArr, elem)
		}
	}

	version := ""
	if h, ok := args.Kw("version"); ok {
		v, err := i.CoerceString(pos, "version", h)
		if err != nil {
			return workspace.NullHandle, err
		}
		version = v
	}

	dh := i.WS.Store.Alloc(workspace.KindDependency)
	i.WS.Store.Get(dh).Dependency = &workspace.Dependency{
		Version:            version,
		IncludeDirectories: incArr,
		LinkWith:           linkArr,
		Found:              true,
	}
	return dh, nil
}

// biFindProgram resolves each candidate name in turn via
// pathutil.FindProgram and returns an external_program for the first
// one found; required defaults to true, matching dependency()'s
// required handling.
func biFindProgram(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "find_program", 1, -1); err != nil {
		return workspace.NullHandle, err
	}
	required := true
	if h, ok := args.Kw("required"); ok {
		var err *diagnostic.Error
		required, err = i.CoerceBool(pos, "required", h)
		if err != nil {
			return workspace.NullHandle, err
		}
	}

	srcDir := i.WS.CurrentProject().SourceDir
	var lastName string
	for idx, h := range args.Positional {
		name, err := i.CoerceString(pos, itoa(idx+1), h)
		if err != nil {
			return workspace.NullHandle, err
		}
		lastName = name
		if full, ok := pathutil.FindProgram(name, srcDir); ok {
			ph := i.WS.Store.Alloc(workspace.KindExternalProgram)
			i.WS.Store.Get(ph).ExternalProg = &workspace.ExternalProgram{Name: name, FullPath: full, Found: true}
			return ph, nil
		}
	}
	if required {
		return workspace.NullHandle, diagnostic.Value(pos, "program %q not found", lastName)
	}
	ph := i.WS.Store.Alloc(workspace.KindExternalProgram)
	i.WS.Store.Get(ph).ExternalProg = &workspace.ExternalProgram{Name: lastName, Found: false}
	return ph, nil
}

func biCustomTarget(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "custom_target", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}

	inH, ok := args.Kw("input")
	if !ok {
		return workspace.NullHandle, diagnostic.Arity(pos, "custom_target() requires input:")
	}
	outH, ok := args.Kw("output")
	if !ok {
		return workspace.NullHandle, diagnostic.Arity(pos, "custom_target() requires output:")
	}
	cmdH, ok := args.Kw("command")
	if !ok {
		return workspace.NullHandle, diagnostic.Arity(pos, "custom_target() requires command:")
	}

	proj := i.WS.CurrentProject()
	inArr := i.WS.Store.NewArray()
	strs, serr := i.CoerceStringList(pos, "input", inH)
	if serr != nil {
		return workspace.NullHandle, serr
	}
	for _, s := range strs {
		i.WS.Store.ArrayPush(inArr, i.WS.NewFile(pathutil.Join(proj.SourceDir, s)))
	}

	outArr := i.WS.Store.NewArray()
	outs, oerr := i.CoerceStringList(pos, "output", outH)
	if oerr != nil {
		return workspace.NullHandle, oerr
	}
	for _, s := range outs {
		if !pathutil.IsBasename(s) {
			return workspace.NullHandle, diagnostic.Value(pos, "custom_target() output %q must not contain a path separator", s)
		}
		i.WS.Store.ArrayPush(outArr, i.WS.NewFile(pathutil.Join(proj.BuildDir, s)))
	}

	cmdArr := i.WS.Store.NewArray()
	cmdElems := i.CoerceHandleList(cmdH)
	if len(cmdElems) == 0 {
		return workspace.NullHandle, diagnostic.Value(pos, "custom_target() command must not be empty")
	}
	for _, elem := range cmdElems {
		i.WS.Store.ArrayPush(cmdArr, elem)
	}

	capture := false
	if h, ok := args.Kw("capture"); ok {
		capture, err = i.CoerceBool(pos, "capture", h)
		if err != nil {
			return workspace.NullHandle, err
		}
	}

	ch := i.WS.Store.Alloc(workspace.KindCustomTarget)
	i.WS.Store.Get(ch).CustomTarget = &workspace.CustomTarget{
		Name:    name,
		Input:   inArr,
		Output:  outArr,
		Cmd:     cmdElems[0],
		Args:    cmdArr,
		Capture: capture,
	}
	i.WS.Store.ArrayPush(proj.Targets, ch)
	return ch, nil
}

// biConfigureFile substitutes @KEY@ tokens in input against
// configuration, then writes the result to output under the current
// project's build directory, returning it as a file handle usable as a
// build_target/custom_target source. Substitution and write happen
// immediately (not deferred to the backend writer), matching
// configure_file's original behavior of producing the file as a direct
// side effect of evaluation.
func biConfigureFile(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	proj := i.WS.CurrentProject()

	inH, ok := args.Kw("input")
	if !ok {
		return workspace.NullHandle, diagnostic.Arity(pos, "configure_file() requires input:")
	}
	outH, ok := args.Kw("output")
	if !ok {
		return workspace.NullHandle, diagnostic.Arity(pos, "configure_file() requires output:")
	}
	inStr, err := i.CoerceString(pos, "input", inH)
	if err != nil {
		return workspace.NullHandle, err
	}
	outStr, err := i.CoerceString(pos, "output", outH)
	if err != nil {
		return workspace.NullHandle, err
	}
	if !pathutil.IsBasename(outStr) {
		return workspace.NullHandle, diagnostic.Value(pos, "configure_file() output %q must not contain a path separator", outStr)
	}

	inPath := pathutil.Absolute(proj.SourceDir, inStr)
	if !pathutil.FileExists(inPath) {
		return workspace.NullHandle, diagnostic.Value(pos, "configure_file() input %q does not exist", inPath)
	}
	text, rerr := pathutil.ReadEntireFile(inPath)
	if rerr != nil {
		return workspace.NullHandle, diagnostic.IO(pos, "reading %s: %s", inPath, rerr)
	}

	conf := map[string]string{}
	if h, ok := args.Kw("configuration"); ok {
		v := i.WS.Store.Get(h)
		if v.Kind != workspace.KindDict {
			return workspace.NullHandle, diagnostic.Type(pos, "configure_file() configuration: expected dict, got %s", v.Kind)
		}
		for _, e := range v.Dict.Entries() {
			s, serr := configValueString(i, pos, e.Value)
			if serr != nil {
				return workspace.NullHandle, serr
			}
			conf[e.Key] = s
		}
	}

	outPath := pathutil.Join(proj.BuildDir, outStr)
	if merr := pathutil.MkdirP(pathutil.Dirname(outPath)); merr != nil {
		return workspace.NullHandle, diagnostic.IO(pos, "creating %s: %s", pathutil.Dirname(outPath), merr)
	}
	if werr := pathutil.WriteEntireFile(outPath, substituteAtVars(text, conf)); werr != nil {
		return workspace.NullHandle, diagnostic.IO(pos, "writing %s: %s", outPath, werr)
	}
	return i.WS.NewFile(outPath), nil
}

// configValueString renders a configuration dict value to the text
// substituted for its @KEY@ token: strings/files verbatim, numbers and
// bools in their literal spelling.
func configValueString(i *Interpreter, pos lang.Position, h workspace.Handle) (string, *diagnostic.Error) {
	v := i.WS.Store.Get(h)
	switch v.Kind {
	case workspace.KindString, workspace.KindFile:
		return i.WS.ObjString(h), nil
	case workspace.KindNumber:
		return intToString(v.Number), nil
	case workspace.KindBool:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	default:
		return "", diagnostic.Type(pos, "configure_file() configuration value must be a string, number or bool, got %s", v.Kind)
	}
}

// substituteAtVars replaces every @KEY@ token in text found in conf; an
// unrecognized key, and a lone '@' with no closing '@', are left
// untouched.
func substituteAtVars(text string, conf map[string]string) string {
	var out strings.Builder
	for idx := 0; idx < len(text); {
		if text[idx] != '@' {
			out.WriteByte(text[idx])
			idx++
			continue
		}
		end := idx + 1
		for end < len(text) && text[end] != '@' {
			end++
		}
		if end >= len(text) {
			out.WriteByte(text[idx])
			idx++
			continue
		}
		key := text[idx+1 : end]
		if val, ok := conf[key]; ok {
			out.WriteString(val)
		} else {
			out.WriteString(text[idx : end+1])
		}
		idx = end + 1
	}
	return out.String()
}

// biSubproject evaluates sourceDir/subprojects/<name>/muon.build as a
// nested project: it inherits the workspace's global scope but gets its
// own project (and hence its own isolated scope and option namespace),
// matching make_project's subproject handling (§4.D). The nested
// project's own project() call is what actually registers it -- this
// function only sets up the subproject name/source-root/build-root
// context that call picks up.
func biSubproject(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "subproject", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	required := true
	if h, ok := args.Kw("required"); ok {
		required, err = i.CoerceBool(pos, "required", h)
		if err != nil {
			return workspace.NullHandle, err
		}
	}

	srcDir := pathutil.Join(i.WS.SourceRoot, "subprojects", name)
	buildPath := pathutil.Join(srcDir, buildFileName)
	if !pathutil.FileExists(buildPath) {
		if required {
			return workspace.NullHandle, diagnostic.Value(pos, "subproject %q not found: %s does not exist", name, buildPath)
		}
		sh := i.WS.Store.Alloc(workspace.KindSubproject)
		i.WS.Store.Get(sh).Subproject = &workspace.Subproject{Found: false}
		return sh, nil
	}

	text, rerr := pathutil.ReadEntireFile(buildPath)
	if rerr != nil {
		return workspace.NullHandle, diagnostic.IO(pos, "reading %s: %s", buildPath, rerr)
	}
	i.WS.AddSource(buildPath, text)
	prog, perr := lang.Parse(buildPath, text)
	if perr != nil {
		return workspace.NullHandle, perr
	}

	prevRoot, prevBuildRoot := i.WS.SourceRoot, i.WS.BuildRoot
	prevCur := i.WS.CurProject
	prevSubName, prevInSub := i.subprojectName, i.inSubproject
	i.WS.SourceRoot = srcDir
	i.WS.BuildRoot = pathutil.Join(i.WS.BuildRoot, "subprojects", name)
	i.subprojectName, i.inSubproject = name, true

	_, rerr2 := i.evalBlock(prog.Statements)

	idx := i.WS.CurProject
	i.WS.SourceRoot, i.WS.BuildRoot = prevRoot, prevBuildRoot
	i.WS.CurProject = prevCur
	i.subprojectName, i.inSubproject = prevSubName, prevInSub

	if rerr2 != nil {
		return workspace.NullHandle, rerr2
	}

	sh := i.WS.Store.Alloc(workspace.KindSubproject)
	i.WS.Store.Get(sh).Subproject = &workspace.Subproject{ProjectIndex: idx, Found: true}
	return sh, nil
}

// biAddProjectArguments appends to the current project's DefaultArgs,
// read back by the backend writer as composition rule 5 (project-level
// default args, appended after dependency/include args and before the
// target's own c_args).
func biAddProjectArguments(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "add_project_arguments", 1, -1); err != nil {
		return workspace.NullHandle, err
	}
	proj := i.WS.CurrentProject()
	for idx, h := range args.Positional {
		strs, serr := i.CoerceStringList(pos, itoa(idx+1), h)
		if serr != nil {
			return workspace.NullHandle, serr
		}
		for _, s := range strs {
			i.WS.Store.ArrayPush(proj.DefaultArgs, i.WS.NewString(s))
		}
	}
	return workspace.NullHandle, nil
}

// biImport resolves a builtin module by name. Only "fs" is implemented;
// any other name is a value error rather than a silently empty module,
// since nothing in this corpus' domain needs the others (see DESIGN.md).
func biImport(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "import", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	if name != "fs" {
		return workspace.NullHandle, diagnostic.Value(pos, "unsupported module %q", name)
	}
	mh := i.WS.Store.Alloc(workspace.KindModule)
	i.WS.Store.Get(mh).Module = &workspace.Module{Name: name}
	return mh, nil
}

func biTest(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "test", 2, 2); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	exe := args.Positional[1]
	if v := i.WS.Store.Get(exe); v.Kind != workspace.KindBuildTarget && v.Kind != workspace.KindExternalProgram {
		return workspace.NullHandle, diagnostic.Type(pos, "argument 2: expected build target or external program, got %s", v.Kind)
	}

	argArr := i.WS.Store.NewArray()
	if h, ok := args.Kw("args"); ok {
		for _, elem := range i.CoerceHandleList(h) {
			i.WS.Store.ArrayPush(argArr, elem)
		}
	}

	env := workspace.NullHandle
	if h, ok := args.Kw("env"); ok {
		if err := i.RequireKind(pos, "env", h, workspace.KindEnvironment); err != nil {
			return workspace.NullHandle, err
		}
		env = h
	}

	shouldFail := false
	if h, ok := args.Kw("should_fail"); ok {
		shouldFail, err = i.CoerceBool(pos, "should_fail", h)
		if err != nil {
			return workspace.NullHandle, err
		}
	}

	proj := i.WS.CurrentProject()
	th := i.WS.Store.Alloc(workspace.KindTest)
	i.WS.Store.Get(th).Test = &workspace.Test{
		Name:       name,
		Exe:        exe,
		Args:       argArr,
		Env:        env,
		ShouldFail: shouldFail,
	}
	i.WS.Store.ArrayPush(proj.Tests, th)
	return th, nil
}

func biEnvironment(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	eh := i.WS.Store.Alloc(workspace.KindEnvironment)
	if h, ok := args.Kw("env"); ok {
		entries, err := i.CoerceStringList(pos, "env", h)
		if err != nil {
			return workspace.NullHandle, err
		}
		i.WS.Store.Get(eh).Environment = entries
	}
	return eh, nil
}

func biMessage(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	i.Sink.Write("message", joinArgsForDisplay(i, args)+"\n")
	return workspace.NullHandle, nil
}

func biWarning(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	i.Sink.Write("warning", joinArgsForDisplay(i, args)+"\n")
	return workspace.NullHandle, nil
}

func biError(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	return workspace.NullHandle, diagnostic.Value(pos, "%s", joinArgsForDisplay(i, args))
}

func joinArgsForDisplay(i *Interpreter, args *EvaluatedArgs) string {
	out := ""
	for idx, h := range args.Positional {
		if idx > 0 {
			out += " "
		}
		v := i.WS.Store.Get(h)
		if v.Kind == workspace.KindString || v.Kind == workspace.KindFile {
			out += i.WS.ObjString(h)
		} else {
			out += v.Kind.String()
		}
	}
	return out
}

func biGetOption(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "get_option", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	opts := i.WS.Store.Get(i.WS.CurrentProject().Opts).Dict
	h, ok := opts.Get(name)
	if !ok {
		return workspace.NullHandle, diagnostic.Value(pos, "unknown option %q", name)
	}
	return h, nil
}

func biSetVariable(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "set_variable", 2, 2); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	i.WS.Assign(name, args.Positional[1])
	return workspace.NullHandle, nil
}

func biGetVariable(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "get_variable", 1, 2); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	if h, ok := i.WS.Lookup(name); ok {
		return h, nil
	}
	if len(args.Positional) == 2 {
		return args.Positional[1], nil
	}
	return workspace.NullHandle, diagnostic.Name(pos, "undefined identifier %q", name)
}

func biIsVariable(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "is_variable", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	name, err := i.CoerceString(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	_, ok := i.WS.Lookup(name)
	return i.WS.NewBool(ok), nil
}

func biJoinPaths(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "join_paths", 1, -1); err != nil {
		return workspace.NullHandle, err
	}
	var parts []string
	for idx, h := range args.Positional {
		s, err := i.CoerceString(pos, itoa(idx+1), h)
		if err != nil {
			return workspace.NullHandle, err
		}
		parts = append(parts, s)
	}
	return i.WS.NewString(pathutil.Join(parts...)), nil
}

func biAssert(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "assert", 1, 2); err != nil {
		return workspace.NullHandle, err
	}
	ok, err := i.CoerceBool(pos, "1", args.Positional[0])
	if err != nil {
		return workspace.NullHandle, err
	}
	if !ok {
		msg := "assertion failed"
		if len(args.Positional) == 2 {
			if s, serr := i.CoerceString(pos, "2", args.Positional[1]); serr == nil {
				msg = s
			}
		}
		return workspace.NullHandle, diagnostic.Value(pos, "%s", msg)
	}
	return workspace.NullHandle, nil
}

// biInstallData, biInstallHeaders and biInstallSubdir validate their
// file-list arguments like files() would, but otherwise are no-ops: the
// backend's build.ninja has no install stanza (its manifest structure
// lists only compile/link/custom-command/regenerate edges), so there is
// nothing downstream of evaluation for an install registration to feed.
func biInstallData(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	return installFiles(i, pos, "install_data", args)
}

func biInstallHeaders(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	return installFiles(i, pos, "install_headers", args)
}

func installFiles(i *Interpreter, pos lang.Position, name string, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, name, 1, -1); err != nil {
		return workspace.NullHandle, err
	}
	for idx, h := range args.Positional {
		if _, err := i.CoerceStringList(pos, itoa(idx+1), h); err != nil {
			return workspace.NullHandle, err
		}
	}
	return workspace.NullHandle, nil
}

func biInstallSubdir(i *Interpreter, pos lang.Position, args *EvaluatedArgs) (workspace.Handle, *diagnostic.Error) {
	if err := args.Arity(pos, "install_subdir", 1, 1); err != nil {
		return workspace.NullHandle, err
	}
	_, err := i.CoerceString(pos, "1", args.Positional[0])
	return workspace.NullHandle, err
}

func itoa(n int) string {
	return intToString(int64(n))
}
