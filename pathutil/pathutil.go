// Package pathutil implements the path/filesystem primitive shim the
// rest of the module builds on. It is built entirely on path/filepath
// and os: no third-party library in the retrieval pack does path
// normalization any better than the standard library -- see DESIGN.md
// for the full justification.
package pathutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Absolute normalizes p to an absolute, cleaned path. Relative paths are
// resolved against base (the caller's notion of "current directory" --
// the DSL has no process-wide cwd once evaluation starts).
func Absolute(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

// IsAbsolute reports whether p is an absolute path.
func IsAbsolute(p string) bool {
	return filepath.IsAbs(p)
}

// Join joins path elements and cleans the result, mirroring
// filepath.Join's existing normalization (it already drops empty
// elements and collapses "..").
func Join(elems ...string) string {
	return filepath.Join(elems...)
}

// Dirname returns the directory portion of p.
func Dirname(p string) string {
	return filepath.Dir(p)
}

// IsBasename reports whether p contains no path separator, i.e. coerce's
// output-path rejection (paths containing a separator are rejected) can
// be expressed as !IsBasename(p).
func IsBasename(p string) bool {
	return !strings.ContainsRune(p, filepath.Separator) && !strings.Contains(p, "/")
}

// RelativeTo computes target's path relative to base. Both must be
// absolute. Falls back to target unchanged if no relative path can be
// computed (e.g. different Windows volumes), matching the defensive
// behavior of the C original's path_relative_to.
func RelativeTo(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}

// IsSubpath reports whether target is base itself or lies within it.
func IsSubpath(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)
	if base == target {
		return true
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// AddSuffix appends suffix to p's final path component, e.g. turning
// "foo/bar" + ".o" into "foo/bar.o" (used for object and archive names).
func AddSuffix(p, suffix string) string {
	return p + suffix
}

// ExecutableForm adjusts p for direct-execution: POSIX shells will not
// run a bare basename from $PATH, so a path with no directory component
// gets "./" prepended.
func ExecutableForm(p string) string {
	if filepath.Dir(p) == "." && !strings.HasPrefix(p, "./") {
		return "./" + p
	}
	return p
}

// CWD returns the process's current working directory.
func CWD() (string, error) {
	return os.Getwd()
}

// Chdir changes the process's current working directory.
func Chdir(p string) error {
	return os.Chdir(p)
}

// MkdirP creates p and any missing parents.
func MkdirP(p string) error {
	return os.MkdirAll(p, 0o777)
}

// FileExists reports whether p names a regular (non-directory) file.
func FileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

// DirExists reports whether p names a directory.
func DirExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// ReadEntireFile reads p fully into memory.
func ReadEntireFile(p string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteEntireFile writes content to p, creating it or truncating it if
// it already exists. Used by configure_file(), which (unlike the
// backend's build.ninja/setup.toml/tests artifacts) writes its output
// during evaluation rather than at the end of a run.
func WriteEntireFile(p, content string) error {
	return os.WriteFile(p, []byte(content), 0o666)
}

// FindProgram resolves name to an absolute path for find_program():
// first as a path relative to searchDir (a project-local script,
// matching the reference implementation's project-relative lookup),
// then via the same $PATH search exec.LookPath performs.
func FindProgram(name, searchDir string) (string, bool) {
	if strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") {
		p := Absolute(searchDir, name)
		if FileExists(p) {
			return p, true
		}
		return "", false
	}
	if searchDir != "" {
		local := Join(searchDir, name)
		if FileExists(local) {
			return local, true
		}
	}
	full, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return full, true
}

// Fopen, Fwrite and Fclose are deliberately not wrapped beyond
// os.Create/os.File.Write/os.File.Close: the DSL-facing API only ever
// needs whole-file reads (ReadEntireFile) and whole-file writes, which
// muon.go's writeFile performs directly via os.Create.
