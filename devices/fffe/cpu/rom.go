package cpu

import (
	"io"

	"github.com/pkg/errors"
)

// Load copies the given ROM image into memory at ProgramOffset.
// Returns ErrROMTooLarge, leaving memory untouched, if it does not fit.
func (m *Machine) Load(rom []byte) error {
	if len(rom) > MaxROMSize {
		return errors.Wrapf(ErrROMTooLarge, "%d bytes, limit is %d", len(rom), MaxROMSize)
	}

	m.Memory.Write(ProgramOffset, rom)
	return nil
}

// LoadROM reads a ROM image from r and loads it into memory.
func (m *Machine) LoadROM(r io.Reader) error {
	rom, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return errors.Wrapf(err, "failed to read rom")
	}
	return m.Load(rom)
}
