package snapshot

import (
	"io"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// state holds the decoded machine state until it is known to be complete.
type state struct {
	V      [arch.RegisterCount]uint8
	Memory cpu.Memory
	I      uint16
	PC     uint16
	Stack  [cpu.StackSize]uint16
	SP     uint8
	DT     uint8
	ST     uint8
	Keys   cpu.Keypad
	Video  cpu.Framebuffer
	Opcode uint16
}

// apply copies s into m.
func (s *state) apply(m *cpu.Machine) {
	m.V = s.V
	m.Memory = s.Memory
	m.I = s.I
	m.PC = s.PC
	m.Stack = s.Stack
	m.SP = s.SP
	m.DT = s.DT
	m.ST = s.ST
	m.Keys = s.Keys
	m.Video = s.Video
	m.Opcode = s.Opcode
}

func writeState(w io.Writer, m *cpu.Machine) {
	writeRaw(w, m.V[:])
	writeRaw(w, m.Memory[:])
	writeU16(w, m.I)
	writeU16(w, m.PC)

	for _, v := range m.Stack {
		writeU16(w, v)
	}

	writeU8(w, m.SP)
	writeU8(w, m.DT)
	writeU8(w, m.ST)
	writeBits(w, m.Keys[:])
	writeBits(w, m.Video[:])
	writeU16(w, m.Opcode)
}

func readState(r io.Reader, s *state) {
	copy(s.V[:], readRaw(r, len(s.V)))
	copy(s.Memory[:], readRaw(r, len(s.Memory)))
	s.I = readU16(r)
	s.PC = readU16(r)

	for i := range s.Stack {
		s.Stack[i] = readU16(r)
	}

	s.SP = readU8(r)
	s.DT = readU8(r)
	s.ST = readU8(r)
	readBits(r, s.Keys[:])
	readBits(r, s.Video[:])
	s.Opcode = readU16(r)
}
