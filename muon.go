// Package muon is the orchestrating facade: Eval reads, lexes, parses
// and interprets a project's DSL source into a *workspace.Workspace;
// Write renders that workspace to a build.ninja manifest, a setup
// record, and a test manifest. The two stay split -- read/parse/walk
// versus emit -- so a caller can inspect or mutate the evaluated
// workspace before anything touches disk.
package muon

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/rofl0r/muon/backend"
	"github.com/rofl0r/muon/diagnostic"
	"github.com/rofl0r/muon/interp"
	"github.com/rofl0r/muon/lang"
	"github.com/rofl0r/muon/pathutil"
	"github.com/rofl0r/muon/workspace"
)

// BuildFileName is the DSL source file evaluated at the root of a
// source directory.
const BuildFileName = "muon.build"

// OptionsFileName is the restricted options-declaration file read
// before BuildFileName, if present.
const OptionsFileName = "meson_options.txt"

// Eval reads and evaluates sourceDir/muon.build (and, if present,
// sourceDir/meson_options.txt) into a fresh Workspace rooted at
// sourceDir/buildDir, applying overrides.
func Eval(sourceDir, buildDir string, overrides []workspace.OptionOverride, sink *diagnostic.Sink) (*workspace.Workspace, *diagnostic.Error) {
	ws := workspace.New()
	ws.SourceRoot = pathutil.Absolute(".", sourceDir)
	ws.BuildRoot = pathutil.Absolute(".", buildDir)
	ws.OptionOverrides = overrides
	if argv0, err := os.Executable(); err == nil {
		ws.Argv0 = argv0
	}

	logrus.WithField("source_dir", ws.SourceRoot).Info("starting evaluation")

	in := interp.New(ws, sink)
	in.OptionDecls = interp.DefaultOptionDecls()

	optionsPath := pathutil.Join(ws.SourceRoot, OptionsFileName)
	if pathutil.FileExists(optionsPath) {
		text, err := pathutil.ReadEntireFile(optionsPath)
		if err != nil {
			return nil, diagnostic.IO(lang.Position{File: optionsPath}, "reading %s: %s", optionsPath, err)
		}
		ws.AddSource(optionsPath, text)
		decls, derr := interp.ParseOptions(optionsPath, text)
		if derr != nil {
			return nil, derr
		}
		in.OptionDecls = append(in.OptionDecls, decls...)
	}

	buildPath := pathutil.Join(ws.SourceRoot, BuildFileName)
	text, err := pathutil.ReadEntireFile(buildPath)
	if err != nil {
		return nil, diagnostic.IO(lang.Position{File: buildPath}, "reading %s: %s", buildPath, err)
	}
	ws.AddSource(buildPath, text)

	prog, perr := lang.Parse(buildPath, text)
	if perr != nil {
		return nil, perr
	}
	if rerr := in.Run(prog); rerr != nil {
		return nil, rerr
	}

	logrus.WithField("projects", len(ws.Projects)).Info("evaluation complete")
	return ws, nil
}

// Write renders ws to buildDir/build.ninja, buildDir/muon-private/
// setup.toml and buildDir/muon-private/tests.
func Write(ws *workspace.Workspace, buildDir string) error {
	if err := pathutil.MkdirP(buildDir); err != nil {
		return fmt.Errorf("muon: creating build dir: %w", err)
	}
	privateDir := pathutil.Join(buildDir, backend.PrivateDirName)
	if err := pathutil.MkdirP(privateDir); err != nil {
		return fmt.Errorf("muon: creating %s: %w", backend.PrivateDirName, err)
	}

	if err := writeFile(pathutil.Join(buildDir, "build.ninja"), func(w io.Writer) error {
		return backend.WriteNinja(w, ws)
	}); err != nil {
		return err
	}
	if err := writeFile(pathutil.Join(privateDir, "setup.toml"), func(w io.Writer) error {
		return backend.WriteSetupRecord(w, ws)
	}); err != nil {
		return err
	}
	if err := writeFile(pathutil.Join(privateDir, "tests"), func(w io.Writer) error {
		return backend.WriteTestManifest(w, ws)
	}); err != nil {
		return err
	}

	logrus.WithField("build_dir", buildDir).Info("wrote build manifest")
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("muon: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("muon: writing %s: %w", path, err)
	}
	return nil
}
