package backend

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/rofl0r/muon/pathutil"
	"github.com/rofl0r/muon/serial"
	"github.com/rofl0r/muon/workspace"
)

// WriteTestManifest collects every test() registration across ws's
// projects, in project-then-registration order, and writes them with
// serial.WriteManifest as the build directory's private tests file.
func WriteTestManifest(w io.Writer, ws *workspace.Workspace) error {
	var records []serial.TestRecord
	for _, proj := range ws.Projects {
		for _, th := range ws.Store.Get(proj.Tests).Array {
			v := ws.Store.Get(th)
			logrus.WithField("test", v.Test.Name).Info("writing test")
			records = append(records, testRecord(ws, v.Test))
		}
	}
	return serial.WriteManifest(w, records)
}

func testRecord(ws *workspace.Workspace, t *workspace.Test) serial.TestRecord {
	exeV := ws.Store.Get(t.Exe)
	var exe string
	switch exeV.Kind {
	case workspace.KindBuildTarget:
		exe = pathutil.Join(exeV.Target.BuildDir, exeV.Target.BuildName)
	case workspace.KindExternalProgram:
		exe = exeV.ExternalProg.FullPath
	}

	var args []string
	for _, h := range ws.Store.Get(t.Args).Array {
		args = append(args, displayValue(ws, h))
	}

	var env []string
	if t.Env != workspace.NullHandle {
		env = ws.Store.Get(t.Env).Environment
	}

	return serial.TestRecord{
		Name:       t.Name,
		Exe:        exe,
		Args:       args,
		Env:        env,
		ShouldFail: t.ShouldFail,
	}
}
