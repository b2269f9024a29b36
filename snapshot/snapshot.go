// Package snapshot saves and restores complete machine state.
//
// A snapshot is a gzip compressed stream holding a short header followed
// by every piece of architectural state: registers, memory, stack, timers,
// keypad and display. The random source and trace handler are host
// configuration and are not part of a snapshot.
package snapshot

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

const (
	magic         = "C8SS"
	formatVersion = 1
)

// Known decoding failures.
var (
	ErrFormat  = errors.New("not a snapshot")
	ErrVersion = errors.New("unsupported snapshot version")
	ErrState   = errors.New("inconsistent machine state")
)

// Save writes the state of m to w.
func Save(w io.Writer, m *cpu.Machine) (err error) {
	defer recoverOnPanic(&err)

	gz := gzip.NewWriter(w)
	defer func() {
		if cerr := gz.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "snapshot")
		}
	}()

	writeRaw(gz, []byte(magic))
	writeU8(gz, formatVersion)
	writeState(gz, m)
	return
}

// Load reads a snapshot from r into m. m is left untouched if the
// snapshot can not be decoded in full.
func Load(r io.Reader, m *cpu.Machine) (err error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrapf(ErrFormat, "snapshot: %v", err)
	}

	defer gz.Close()
	defer recoverOnPanic(&err)

	if string(readRaw(gz, len(magic))) != magic {
		return errors.Wrapf(ErrFormat, "snapshot")
	}

	if v := readU8(gz); v != formatVersion {
		return errors.Wrapf(ErrVersion, "snapshot: version %d", v)
	}

	var s state
	readState(gz, &s)

	if int(s.SP) > cpu.StackSize {
		return errors.Wrapf(ErrState, "snapshot: stack pointer %d", s.SP)
	}

	// The checksum is only verified once the stream is read to the end.
	if _, err := io.Copy(io.Discard, gz); err != nil {
		return errors.Wrapf(ErrFormat, "snapshot: %v", err)
	}

	s.apply(m)
	return
}

// SaveFile writes the state of m to the named file.
func SaveFile(file string, m *cpu.Machine) error {
	fd, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "snapshot")
	}

	if err = Save(fd, m); err != nil {
		fd.Close()
		return err
	}

	return errors.Wrapf(fd.Close(), "snapshot")
}

// LoadFile reads the named snapshot file into m.
func LoadFile(file string, m *cpu.Machine) error {
	fd, err := os.Open(file)
	if err != nil {
		return errors.Wrapf(err, "snapshot")
	}

	defer fd.Close()
	return Load(fd, m)
}

func recoverOnPanic(err *error) {
	x := recover()
	if x == nil {
		return
	}

	switch tx := x.(type) {
	case runtime.Error:
		panic(tx)
	case error:
		*err = errors.Wrapf(tx, "snapshot")
	default:
		*err = fmt.Errorf("snapshot: %v", tx)
	}
}
