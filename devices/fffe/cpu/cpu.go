// Package cpu implements the CHIP-8 interpreter.
package cpu

import (
	"github.com/hexaflex/chip8/arch"
)

// StackSize is the number of nested calls the call stack can hold.
const StackSize = 16

// TraceFunc represents a callback handler for debug trace output.
type TraceFunc func(*arch.Instruction)

// Machine holds the complete interpreter state.
type Machine struct {
	V      [arch.RegisterCount]uint8 // General purpose registers V0-VF.
	Memory Memory                    // System memory.
	I      uint16                    // Index register.
	PC     uint16                    // Address of the next instruction.
	Stack  [StackSize]uint16         // Call stack.
	SP     uint8                     // Next free stack slot.
	DT     uint8                     // Delay timer.
	ST     uint8                     // Sound timer.
	Keys   Keypad                    // Keypad snapshot, written between cycles.
	Video  Framebuffer               // Display contents.
	Opcode uint16                    // Last fetched instruction word.

	instr arch.Instruction // Decoded instruction data.
	trace TraceFunc        // Handler for debug trace output.
	rng   Rand             // Random number generator.
}

// New creates a new machine, optionally with the given debug trace handler.
// The random source is seeded from the system clock; use SetRand to replace it.
func New(trace TraceFunc) *Machine {
	if trace == nil {
		trace = func(*arch.Instruction) { /* nop */ }
	}

	m := &Machine{
		trace: trace,
		rng:   newClockRand(),
	}
	m.Reset()
	return m
}

// SetRand replaces the random source used by RND.
func (m *Machine) SetRand(r Rand) {
	m.rng = r
}

// SetTrace replaces the debug trace handler.
func (m *Machine) SetTrace(trace TraceFunc) {
	if trace == nil {
		trace = func(*arch.Instruction) { /* nop */ }
	}
	m.trace = trace
}

// Reset returns the machine to its power-on state: memory cleared except
// for the font, registers, stack and timers zeroed, PC at ProgramOffset.
func (m *Machine) Reset() {
	m.V = [arch.RegisterCount]uint8{}
	m.Memory.Clear()
	m.Memory.Write(FontAddress, Font[:])
	m.I = 0
	m.PC = ProgramOffset
	m.Stack = [StackSize]uint16{}
	m.SP = 0
	m.DT = 0
	m.ST = 0
	m.Keys = Keypad{}
	m.Video.Clear()
	m.Opcode = 0
	m.instr = arch.Instruction{}
}

// Framebuffer returns the display contents.
func (m *Machine) Framebuffer() *Framebuffer {
	return &m.Video
}

// Pixel returns the state of the display pixel at x, y.
func (m *Machine) Pixel(x, y int) bool {
	return m.Video.Pixel(x, y)
}

// SoundOn returns true while the sound timer is running.
func (m *Machine) SoundOn() bool {
	return m.ST > 0
}

// SetKey sets the pressed state of the given key. Out of range keys are ignored.
func (m *Machine) SetKey(key int, pressed bool) {
	if key >= 0 && key < KeyCount {
		m.Keys[key] = pressed
	}
}

// Instruction returns the most recently decoded instruction.
func (m *Machine) Instruction() arch.Instruction {
	return m.instr
}

// Cycle performs a single fetch, decode, execute and timer step.
//
// Unknown instructions are ignored. A fault returns an *Error and leaves PC
// at the faulting instruction with the timers untouched.
func (m *Machine) Cycle() error {
	if err := m.fetch(); err != nil {
		return err
	}

	instr := &m.instr
	m.trace(instr)

	if err := m.execute(instr); err != nil {
		m.PC = instr.IP
		return NewError(instr, err)
	}

	if m.DT > 0 {
		m.DT--
	}

	if m.ST > 0 {
		m.ST--
	}

	return nil
}

// fetch reads and decodes the instruction at PC and advances PC past it.
func (m *Machine) fetch() error {
	ip := m.PC
	if int(ip)+arch.InstructionSize > MemorySize {
		return NewError(&arch.Instruction{IP: ip}, ErrAddress)
	}

	m.Opcode = m.Memory.U16(int(ip))
	m.instr = arch.Decode(m.Opcode)
	m.instr.IP = ip
	m.PC += arch.InstructionSize
	return nil
}

// execute runs the handler for the given instruction.
func (m *Machine) execute(instr *arch.Instruction) error {
	v := &m.V
	x, y := instr.X, instr.Y

	switch instr.Op {
	case arch.UNKNOWN, arch.SYS:
		/* nop */

	case arch.CLS:
		m.Video.Clear()
	case arch.RET:
		if m.SP == 0 {
			return ErrStackUnderflow
		}
		m.SP--
		m.PC = m.Stack[m.SP]
	case arch.JP:
		m.PC = instr.NNN
	case arch.CALL:
		if int(m.SP) >= StackSize {
			return ErrStackOverflow
		}
		m.Stack[m.SP] = m.PC
		m.SP++
		m.PC = instr.NNN

	case arch.SEB:
		m.skipIf(v[x] == instr.NN)
	case arch.SNEB:
		m.skipIf(v[x] != instr.NN)
	case arch.SER:
		m.skipIf(v[x] == v[y])
	case arch.SNER:
		m.skipIf(v[x] != v[y])

	case arch.LDB:
		v[x] = instr.NN
	case arch.ADDB:
		v[x] += instr.NN

	case arch.LDR:
		v[x] = v[y]
	case arch.OR:
		v[x] |= v[y]
	case arch.AND:
		v[x] &= v[y]
	case arch.XOR:
		v[x] ^= v[y]
	case arch.ADDR:
		sum := uint16(v[x]) + uint16(v[y])
		v[arch.VF] = _bool(sum > 0xff)
		v[x] = uint8(sum)
	case arch.SUB:
		flag := _bool(v[x] > v[y])
		v[arch.VF] = flag
		v[x] = v[x] - v[y]
	case arch.SHR:
		flag := v[x] & 1
		v[arch.VF] = flag
		v[x] = v[x] >> 1
	case arch.SUBN:
		flag := _bool(v[y] > v[x])
		v[arch.VF] = flag
		v[x] = v[y] - v[x]
	case arch.SHL:
		flag := v[x] >> 7
		v[arch.VF] = flag
		v[x] = v[x] << 1

	case arch.LDI:
		m.I = instr.NNN
	case arch.JPV0:
		m.PC = uint16(v[0]) + instr.NNN
	case arch.RND:
		v[x] = m.rng.Byte() & instr.NN
	case arch.DRW:
		return m.draw(instr)

	case arch.SKP:
		m.skipIf(m.Keys[v[x]&0xf])
	case arch.SKNP:
		m.skipIf(!m.Keys[v[x]&0xf])

	case arch.LDVDT:
		v[x] = m.DT
	case arch.LDVK:
		if key, ok := m.Keys.First(); ok {
			v[x] = uint8(key)
		} else {
			m.PC -= arch.InstructionSize
		}
	case arch.LDDT:
		m.DT = v[x]
	case arch.LDST:
		m.ST = v[x]
	case arch.ADDI:
		m.I += uint16(v[x])
	case arch.LDF:
		m.I = FontAddress + GlyphSize*uint16(v[x])
	case arch.LDBCD:
		p, err := m.Memory.span(m.I, 3)
		if err != nil {
			return err
		}
		p[0] = v[x] / 100
		p[1] = v[x] / 10 % 10
		p[2] = v[x] % 10
	case arch.STORE:
		p, err := m.Memory.span(m.I, int(x)+1)
		if err != nil {
			return err
		}
		copy(p, v[:x+1])
	case arch.LOAD:
		p, err := m.Memory.span(m.I, int(x)+1)
		if err != nil {
			return err
		}
		copy(v[:x+1], p)
	}

	return nil
}

// skipIf skips the next instruction if cond is true.
func (m *Machine) skipIf(cond bool) {
	if cond {
		m.PC += arch.InstructionSize
	}
}

// draw XORs an N-row sprite read from I onto the display at (Vx, Vy).
// Coordinates wrap around the display edges. VF is set if any pixel
// which was on gets turned off.
func (m *Machine) draw(instr *arch.Instruction) error {
	sprite, err := m.Memory.span(m.I, int(instr.N))
	if err != nil {
		return err
	}

	x := int(m.V[instr.X])
	y := int(m.V[instr.Y])
	m.V[arch.VF] = 0

	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}

			if m.Video.flip(x+col, y+row) {
				m.V[arch.VF] = 1
			}
		}
	}

	return nil
}

func _bool(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
