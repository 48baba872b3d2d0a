// Package serial implements the binary test-manifest codec: a
// little-endian 32-bit test count, then for each test a little-endian
// 32-bit flag word, then NUL-terminated name and
// executable path, then each argument NUL-terminated with a trailing
// extra NUL marking the end of the argument list, then the environment
// entries in the same NUL-terminated-list-plus-trailing-NUL shape.
package serial

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Flag bits of a test record's 32-bit flag word.
const (
	FlagShouldFail uint32 = 1 << iota
	FlagHasEnv
)

// TestRecord is one test() registration as written to the manifest.
type TestRecord struct {
	Name       string
	Exe        string
	Args       []string
	Env        []string // "KEY=VALUE" entries
	ShouldFail bool
}

// WriteManifest serializes tests to w: a little-endian uint32 count,
// then each TestRecord in order via writeRecord.
func WriteManifest(w io.Writer, tests []TestRecord) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(tests))); err != nil {
		return fmt.Errorf("serial: writing test count: %w", err)
	}
	for idx, t := range tests {
		if err := writeRecord(bw, t); err != nil {
			return fmt.Errorf("serial: writing test %d (%q): %w", idx, t.Name, err)
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, t TestRecord) error {
	flags := uint32(0)
	if t.ShouldFail {
		flags |= FlagShouldFail
	}
	if len(t.Env) > 0 {
		flags |= FlagHasEnv
	}
	if err := binary.Write(w, binary.LittleEndian, flags); err != nil {
		return err
	}
	if err := writeCString(w, t.Name); err != nil {
		return err
	}
	if err := writeCString(w, t.Exe); err != nil {
		return err
	}
	for _, a := range t.Args {
		if err := writeCString(w, a); err != nil {
			return err
		}
	}
	if err := w.WriteByte(0); err != nil { // terminates the argument list
		return err
	}
	for _, e := range t.Env {
		if err := writeCString(w, e); err != nil {
			return err
		}
	}
	return w.WriteByte(0) // terminates the environment list
}

func writeCString(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return err
	}
	return w.WriteByte(0)
}

// ReadManifest is WriteManifest's inverse.
func ReadManifest(r io.Reader) ([]TestRecord, error) {
	br := bufio.NewReader(r)
	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("serial: reading test count: %w", err)
	}
	out := make([]TestRecord, 0, count)
	for idx := uint32(0); idx < count; idx++ {
		rec, err := readRecord(br)
		if err != nil {
			return nil, fmt.Errorf("serial: reading test %d: %w", idx, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func readRecord(r *bufio.Reader) (TestRecord, error) {
	var flags uint32
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return TestRecord{}, err
	}
	name, err := readCString(r)
	if err != nil {
		return TestRecord{}, err
	}
	exe, err := readCString(r)
	if err != nil {
		return TestRecord{}, err
	}
	var args []string
	for {
		s, empty, err := readListEntry(r)
		if err != nil {
			return TestRecord{}, err
		}
		if empty {
			break
		}
		args = append(args, s)
	}
	var env []string
	for {
		s, empty, err := readListEntry(r)
		if err != nil {
			return TestRecord{}, err
		}
		if empty {
			break
		}
		env = append(env, s)
	}
	return TestRecord{
		Name:       name,
		Exe:        exe,
		Args:       args,
		Env:        env,
		ShouldFail: flags&FlagShouldFail != 0,
	}, nil
}

// readListEntry reads one NUL-terminated string, or reports empty=true
// if the very first byte is the list's terminating NUL.
func readListEntry(r *bufio.Reader) (s string, empty bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return "", false, err
	}
	if b == 0 {
		return "", true, nil
	}
	if err := r.UnreadByte(); err != nil {
		return "", false, err
	}
	str, err := readCString(r)
	return str, false, err
}

func readCString(r *bufio.Reader) (string, error) {
	s, err := r.ReadString(0)
	if err != nil {
		return "", err
	}
	return s[:len(s)-1], nil
}
