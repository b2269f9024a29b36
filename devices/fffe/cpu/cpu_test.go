package cpu

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaflex/chip8/arch"
)

func TestNew(t *testing.T) {
	assert := assert.New(t)

	vm := New(nil)
	assert.Equal(uint16(ProgramOffset), vm.PC)
	assert.Equal(Font[:], vm.Memory[FontAddress:FontAddress+len(Font)])
	assert.Equal(make([]byte, FontAddress), vm.Memory[:FontAddress])
	assert.Equal(make([]byte, MemorySize-FontAddress-len(Font)), vm.Memory[FontAddress+len(Font):])
	assert.Equal([16]uint8{}, vm.V)
	assert.Equal(uint8(0), vm.SP)
	assert.Equal(Framebuffer{}, vm.Video)
	assert.False(vm.SoundOn())
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	vm := New(nil)
	vm.V[3] = 9
	vm.I = 0x123
	vm.PC = 0x400
	vm.SP = 2
	vm.DT = 5
	vm.ST = 5
	vm.Memory[0x300] = 0xaa
	vm.Memory[FontAddress] = 0
	vm.Video.SetPixel(1, 1, true)

	vm.Reset()
	assert.Equal(New(nil).V, vm.V)
	assert.Equal(uint16(0), vm.I)
	assert.Equal(uint16(ProgramOffset), vm.PC)
	assert.Equal(uint8(0), vm.SP)
	assert.Equal(uint8(0), vm.DT)
	assert.Equal(uint8(0), vm.ST)
	assert.Equal(uint8(0), vm.Memory[0x300])
	assert.Equal(Font[0], vm.Memory[FontAddress])
	assert.False(vm.Pixel(1, 1))
}

func TestLoad(t *testing.T) {
	table := []struct {
		name    string
		rom     []byte
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", make([]byte, MaxROMSize), false},
		{"too_large", make([]byte, MaxROMSize+1), true},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			vm := New(nil)
			err := vm.Load(entry.rom)
			if entry.wantErr {
				assert.True(t, errors.Is(err, ErrROMTooLarge), "%v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadROM(t *testing.T) {
	vm := New(nil)
	require.NoError(t, vm.LoadROM(bytes.NewReader([]byte{0x12, 0x34, 0x56})))
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x00}, vm.Memory[ProgramOffset:ProgramOffset+4])

	vm = New(nil)
	rom := bytes.Repeat([]byte{0xff}, MaxROMSize+10)
	err := vm.LoadROM(bytes.NewReader(rom))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
	assert.Equal(t, uint8(0), vm.Memory[ProgramOffset])
}

func TestCLS(t *testing.T) {
	//   LD   I, $050
	//   DRW  V0, V0, 5
	//   CLS
	//   DRW  V0, V0, 5
	//   CLS

	ct := newCodeTest(0xa050, 0xd005, 0x00e0)
	vm := ct.run(t, 3)
	assert.Equal(t, Framebuffer{}, vm.Video)

	ct = newCodeTest(0xa050, 0xd005, 0x00e0, 0xd005, 0x00e0)
	vm = ct.run(t, 4)
	assert.NotEqual(t, Framebuffer{}, vm.Video)
	require.NoError(t, vm.Cycle())
	assert.Equal(t, Framebuffer{}, vm.Video)
}

func TestJP(t *testing.T) {
	ct := newCodeTest(0x1234)
	vm := ct.run(t, 1)
	assert.Equal(t, uint16(0x234), vm.PC)
}

func TestCALLRET(t *testing.T) {
	// 200: CALL $300
	// 202: ...
	// 300: RET

	ct := newCodeTest(0x2300)
	ct.at(0x300, 0x00ee)
	vm := New(nil)
	ct.load(t, vm)

	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint16(0x300), vm.PC)
	assert.Equal(t, uint8(1), vm.SP)
	assert.Equal(t, uint16(0x202), vm.Stack[0])

	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Equal(t, uint8(0), vm.SP)
}

func TestStackOverflow(t *testing.T) {
	// 200: CALL $200, recursing until the stack is full.

	ct := newCodeTest(0x2200)
	vm := ct.run(t, StackSize)
	assert.Equal(t, uint8(StackSize), vm.SP)

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrStackOverflow), "%v", err)
	assert.Equal(t, uint8(StackSize), vm.SP)
	assert.Equal(t, uint16(0x200), vm.PC)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, uint16(0x200), cerr.IP)
	assert.Equal(t, arch.CALL, cerr.Op)
}

func TestStackUnderflow(t *testing.T) {
	ct := newCodeTest(0x00ee)
	vm := New(nil)
	ct.load(t, vm)
	vm.DT = 3

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrStackUnderflow), "%v", err)
	assert.Equal(t, uint16(0x200), vm.PC)
	assert.Equal(t, uint8(3), vm.DT)
	assert.Equal(t, "0200: RET: "+ErrStackUnderflow.Error(), err.Error())
}

func TestSkips(t *testing.T) {
	// Each skip must advance PC by 2 when false, 4 when true.

	table := []struct {
		name  string
		word  uint16
		setup func(*Machine)
		skip  bool
	}{
		{"SE_byte_true", 0x3142, func(m *Machine) { m.V[1] = 0x42 }, true},
		{"SE_byte_false", 0x3142, func(m *Machine) { m.V[1] = 0x41 }, false},
		{"SNE_byte_true", 0x4142, func(m *Machine) { m.V[1] = 0x41 }, true},
		{"SNE_byte_false", 0x4142, func(m *Machine) { m.V[1] = 0x42 }, false},
		{"SE_reg_true", 0x5120, func(m *Machine) { m.V[1], m.V[2] = 7, 7 }, true},
		{"SE_reg_false", 0x5120, func(m *Machine) { m.V[1], m.V[2] = 7, 8 }, false},
		{"SNE_reg_true", 0x9120, func(m *Machine) { m.V[1], m.V[2] = 7, 8 }, true},
		{"SNE_reg_false", 0x9120, func(m *Machine) { m.V[1], m.V[2] = 7, 7 }, false},
		{"SE_reg_low_nibble", 0x5121, func(m *Machine) { m.V[1], m.V[2] = 7, 7 }, true},
		{"SNE_reg_low_nibble", 0x9123, func(m *Machine) { m.V[1], m.V[2] = 7, 8 }, true},
		{"SNE_reg_low_nibble_false", 0x9123, func(m *Machine) { m.V[1], m.V[2] = 7, 7 }, false},
		{"SKP_true", 0xe19e, func(m *Machine) { m.V[1] = 0xa; m.Keys[0xa] = true }, true},
		{"SKP_false", 0xe19e, func(m *Machine) { m.V[1] = 0xa; m.Keys[0xb] = true }, false},
		{"SKNP_true", 0xe1a1, func(m *Machine) { m.V[1] = 0xa }, true},
		{"SKNP_false", 0xe1a1, func(m *Machine) { m.V[1] = 0xa; m.Keys[0xa] = true }, false},
		{"SKP_high_bits", 0xe19e, func(m *Machine) { m.V[1] = 0xf3; m.Keys[3] = true }, true},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			vm := New(nil)
			newCodeTest(entry.word).load(t, vm)
			entry.setup(vm)
			require.NoError(t, vm.Cycle())

			want := uint16(0x202)
			if entry.skip {
				want = 0x204
			}
			assert.Equal(t, want, vm.PC)
		})
	}
}

func TestRegisterOps(t *testing.T) {
	type state struct{ vx, vy, vf uint8 }

	table := []struct {
		name string
		word uint16 // Always operates on x=2, y=3.
		in   state
		want state
	}{
		{"LD_byte", 0x62ab, state{0, 0, 9}, state{0xab, 0, 9}},
		{"ADD_byte", 0x72f0, state{0x20, 0, 9}, state{0x10, 0, 9}},
		{"LD", 0x8230, state{1, 2, 9}, state{2, 2, 9}},
		{"OR", 0x8231, state{0x0c, 0x0a, 9}, state{0x0e, 0x0a, 9}},
		{"AND", 0x8232, state{0x0c, 0x0a, 9}, state{0x08, 0x0a, 9}},
		{"XOR", 0x8233, state{0x0c, 0x0a, 9}, state{0x06, 0x0a, 9}},
		{"ADD", 0x8234, state{0x00, 0x01, 9}, state{0x01, 0x01, 0}},
		{"ADD_carry", 0x8234, state{0xf2, 0xf3, 9}, state{0xe5, 0xf3, 1}},
		{"ADD_255", 0x8234, state{0xff, 0x00, 9}, state{0xff, 0x00, 0}},
		{"SUB", 0x8235, state{0xfd, 0xfc, 9}, state{0x01, 0xfc, 1}},
		{"SUB_borrow", 0x8235, state{0x00, 0x01, 9}, state{0xff, 0x01, 0}},
		{"SUB_equal", 0x8235, state{0x05, 0x05, 9}, state{0x00, 0x05, 0}},
		{"SHR", 0x8236, state{0x09, 0, 9}, state{0x04, 0, 1}},
		{"SHR_even", 0x8236, state{0x08, 0, 9}, state{0x04, 0, 0}},
		{"SUBN", 0x8237, state{0x01, 0x03, 9}, state{0x02, 0x03, 1}},
		{"SUBN_borrow", 0x8237, state{0x03, 0x01, 9}, state{0xfe, 0x01, 0}},
		{"SHL", 0x823e, state{0x88, 0, 9}, state{0x10, 0, 1}},
		{"SHL_low", 0x823e, state{0x41, 0, 9}, state{0x82, 0, 0}},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			vm := New(nil)
			newCodeTest(entry.word).load(t, vm)
			vm.V[2], vm.V[3], vm.V[arch.VF] = entry.in.vx, entry.in.vy, entry.in.vf
			require.NoError(t, vm.Cycle())

			have := state{vm.V[2], vm.V[3], vm.V[arch.VF]}
			assert.Equal(t, entry.want, have)
			assert.Equal(t, uint16(0x202), vm.PC)
		})
	}
}

func TestIndexOps(t *testing.T) {
	assert := assert.New(t)

	vm := newCodeTest(0xa123).run(t, 1)
	assert.Equal(uint16(0x123), vm.I)

	vm = New(nil)
	newCodeTest(0xf51e).load(t, vm)
	vm.I = 1
	vm.V[5] = 99
	require.NoError(t, vm.Cycle())
	assert.Equal(uint16(100), vm.I)

	// I is not masked to 12 bits.
	vm = New(nil)
	newCodeTest(0xf51e).load(t, vm)
	vm.I = 0xfff
	vm.V[5] = 0x10
	require.NoError(t, vm.Cycle())
	assert.Equal(uint16(0x100f), vm.I)

	vm = New(nil)
	newCodeTest(0xf529).load(t, vm)
	vm.V[5] = 0xa
	require.NoError(t, vm.Cycle())
	assert.Equal(uint16(FontAddress+5*0xa), vm.I)
}

func TestJPV0(t *testing.T) {
	vm := New(nil)
	newCodeTest(0xb300).load(t, vm)
	vm.V[0] = 0x12
	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint16(0x312), vm.PC)

	// Jumping past the end of memory faults on the next fetch.
	vm = New(nil)
	newCodeTest(0xbfff).load(t, vm)
	vm.V[0] = 0xff
	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint16(0x10fe), vm.PC)
	assert.True(t, errors.Is(vm.Cycle(), ErrAddress))
}

type fixedRand uint8

func (r fixedRand) Byte() uint8 { return uint8(r) }

func TestRND(t *testing.T) {
	vm := New(nil)
	vm.SetRand(fixedRand(0xb7))
	newCodeTest(0xc40f).load(t, vm)
	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint8(0x07), vm.V[4])
}

func TestRandSeed(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 32; i++ {
		assert.Equal(t, a.Byte(), b.Byte())
	}
}

func TestDRW(t *testing.T) {
	// 200: LD  I, $050   ; glyph "0"
	// 202: DRW V0, V1, 5
	// 204: DRW V0, V1, 5

	vm := New(nil)
	newCodeTest(0xa050, 0xd015, 0xd015).load(t, vm)
	vm.V[0], vm.V[1] = 10, 4

	require.NoError(t, vm.Cycle())
	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint8(0), vm.V[arch.VF])

	// Top row of "0" is 0xf0: four pixels on.
	for col := 0; col < 8; col++ {
		assert.Equal(t, col < 4, vm.Pixel(10+col, 4), "col %d", col)
	}
	assert.True(t, vm.Pixel(10, 5))
	assert.False(t, vm.Pixel(11, 5))
	assert.True(t, vm.Pixel(13, 5))

	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint8(1), vm.V[arch.VF])
	assert.Equal(t, Framebuffer{}, vm.Video)
}

func TestDRWWrap(t *testing.T) {
	vm := New(nil)
	newCodeTest(0xa050, 0xd011).load(t, vm)
	vm.V[0], vm.V[1] = 62, 31

	require.NoError(t, vm.Cycle())
	require.NoError(t, vm.Cycle())

	assert.True(t, vm.Pixel(62, 31))
	assert.True(t, vm.Pixel(63, 31))
	assert.True(t, vm.Pixel(0, 31))
	assert.True(t, vm.Pixel(1, 31))
	assert.False(t, vm.Pixel(2, 31))

	// Coordinates larger than the display wrap too.
	vm = New(nil)
	newCodeTest(0xa050, 0xd011).load(t, vm)
	vm.V[0], vm.V[1] = 64+3, 32+2
	require.NoError(t, vm.Cycle())
	require.NoError(t, vm.Cycle())
	assert.True(t, vm.Pixel(3, 2))
}

func TestDRWCollisionPartial(t *testing.T) {
	// VF is cleared before drawing, and set by a collision anywhere in the sprite.
	vm := New(nil)
	newCodeTest(0xa300, 0xd012).load(t, vm)
	vm.Memory[0x300] = 0x80
	vm.Memory[0x301] = 0x01
	vm.V[arch.VF] = 1
	vm.Video.SetPixel(7, 1, true)

	require.NoError(t, vm.Cycle())
	require.NoError(t, vm.Cycle())
	assert.Equal(t, uint8(1), vm.V[arch.VF])
	assert.True(t, vm.Pixel(0, 0))
	assert.False(t, vm.Pixel(7, 1))
}

func TestDRWOutOfRange(t *testing.T) {
	vm := New(nil)
	newCodeTest(0xd015).load(t, vm)
	vm.I = MemorySize - 2
	vm.V[arch.VF] = 7

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrAddress), "%v", err)
	assert.Equal(t, uint8(7), vm.V[arch.VF])
	assert.Equal(t, Framebuffer{}, vm.Video)
}

func TestTimers(t *testing.T) {
	assert := assert.New(t)

	// 200: LD V1, $03
	// 202: LD DT, V1
	// 204: LD ST, V1
	// 206: LD V2, DT
	vm := newCodeTest(0x6103, 0xf115, 0xf118, 0xf207).run(t, 3)
	assert.Equal(uint8(1), vm.DT)
	assert.Equal(uint8(2), vm.ST)
	assert.True(vm.SoundOn())

	require.NoError(t, vm.Cycle())
	assert.Equal(uint8(1), vm.V[2])
	assert.Equal(uint8(0), vm.DT)
	assert.Equal(uint8(1), vm.ST)

	// 208: JP $208
	vm.Memory.SetU16(int(vm.PC), 0x1000|vm.PC)
	require.NoError(t, vm.Cycle())
	require.NoError(t, vm.Cycle())
	assert.Equal(uint8(0), vm.DT)
	assert.Equal(uint8(0), vm.ST)
	assert.False(vm.SoundOn())
}

func TestKeyWait(t *testing.T) {
	assert := assert.New(t)

	vm := New(nil)
	newCodeTest(0xf30a).load(t, vm)
	vm.DT = 10

	for i := 0; i < 3; i++ {
		require.NoError(t, vm.Cycle())
		assert.Equal(uint16(0x200), vm.PC)
	}
	assert.Equal(uint8(7), vm.DT)

	vm.SetKey(0xc, true)
	vm.SetKey(0x5, true)
	require.NoError(t, vm.Cycle())
	assert.Equal(uint16(0x202), vm.PC)
	assert.Equal(uint8(0x5), vm.V[3])
}

func TestBCD(t *testing.T) {
	table := []struct {
		value uint8
		want  []byte
	}{
		{123, []byte{1, 2, 3}},
		{0, []byte{0, 0, 0}},
		{255, []byte{2, 5, 5}},
		{7, []byte{0, 0, 7}},
		{40, []byte{0, 4, 0}},
	}

	for _, entry := range table {
		vm := New(nil)
		newCodeTest(0xf133).load(t, vm)
		vm.V[1] = entry.value
		vm.I = 0x300
		require.NoError(t, vm.Cycle())
		assert.Equal(t, entry.want, vm.Memory[0x300:0x303], "%d", entry.value)
	}

	vm := New(nil)
	newCodeTest(0xf133).load(t, vm)
	vm.I = MemorySize - 2
	assert.True(t, errors.Is(vm.Cycle(), ErrAddress))
}

func TestStoreLoad(t *testing.T) {
	assert := assert.New(t)

	// 200: LD [I], V3
	// 202: LD V0, $00 ...
	vm := New(nil)
	newCodeTest(0xf355).load(t, vm)
	vm.V = [16]uint8{1, 2, 3, 4, 5}
	vm.I = 0x302

	require.NoError(t, vm.Cycle())
	assert.Equal([]byte{0, 0, 1, 2, 3, 4, 0}, vm.Memory[0x300:0x307])
	assert.Equal(uint16(0x302), vm.I)

	vm.V = [16]uint8{}
	vm.Memory.SetU16(int(vm.PC), 0xf365)
	require.NoError(t, vm.Cycle())
	assert.Equal([16]uint8{1, 2, 3, 4}, vm.V)
}

func TestStoreLoadRoundTrip(t *testing.T) {
	for x := 0; x < 16; x++ {
		vm := New(nil)
		newCodeTest(0xf055|uint16(x)<<8, 0xf065|uint16(x)<<8).load(t, vm)
		vm.I = 0x400

		var want [16]uint8
		for i := range want {
			want[i] = uint8(i*17 + 3)
		}
		vm.V = want

		require.NoError(t, vm.Cycle())
		vm.V = [16]uint8{}
		require.NoError(t, vm.Cycle())

		for i := 0; i <= x; i++ {
			assert.Equal(t, want[i], vm.V[i], "x=%d i=%d", x, i)
		}
		for i := x + 1; i < 16; i++ {
			assert.Equal(t, uint8(0), vm.V[i], "x=%d i=%d", x, i)
		}
	}
}

func TestStoreOutOfRange(t *testing.T) {
	vm := New(nil)
	newCodeTest(0xff55).load(t, vm)
	vm.I = MemorySize - 15

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrAddress), "%v", err)
	assert.Equal(t, uint16(0x200), vm.PC)

	vm.I = MemorySize - 16
	assert.NoError(t, vm.Cycle())
}

func TestFetchOutOfRange(t *testing.T) {
	vm := New(nil)
	vm.PC = MemorySize - 1

	err := vm.Cycle()
	assert.True(t, errors.Is(err, ErrAddress), "%v", err)
	assert.Equal(t, uint16(MemorySize-1), vm.PC)
}

func TestUnknownIsNop(t *testing.T) {
	for _, word := range []uint16{0x0000, 0x0123, 0x812f, 0x8128, 0xe100, 0xf1ff} {
		vm := New(nil)
		newCodeTest(word).load(t, vm)
		vm.ST = 2
		before := *vm

		require.NoError(t, vm.Cycle(), "%04x", word)
		assert.Equal(t, uint16(0x202), vm.PC, "%04x", word)
		assert.Equal(t, before.V, vm.V, "%04x", word)
		assert.Equal(t, before.Memory, vm.Memory, "%04x", word)
		assert.Equal(t, uint8(1), vm.ST, "%04x", word)
	}
}

func TestTrace(t *testing.T) {
	var lines []string

	vm := New(func(i *arch.Instruction) {
		lines = append(lines, fmt.Sprintf("%04x %s", i.IP, i))
	})
	newCodeTest(0x6105, 0x7101).load(t, vm)

	require.NoError(t, vm.Cycle())
	require.NoError(t, vm.Cycle())
	assert.Equal(t, []string{"0200 LD V1, $05", "0202 ADD V1, $01"}, lines)
	assert.Equal(t, uint16(0x7101), vm.Opcode)
	assert.Equal(t, arch.ADDB, vm.Instruction().Op)
}

// codeTest holds a program to be loaded at ProgramOffset,
// plus optional code at other addresses.
type codeTest struct {
	program bytes.Buffer
	extra   map[int][]uint16
}

func newCodeTest(words ...uint16) *codeTest {
	ct := &codeTest{extra: make(map[int][]uint16)}
	ct.emit(words...)
	return ct
}

func (ct *codeTest) emit(words ...uint16) {
	for _, w := range words {
		ct.program.WriteByte(byte(w >> 8))
		ct.program.WriteByte(byte(w))
	}
}

func (ct *codeTest) at(addr int, words ...uint16) {
	ct.extra[addr] = append(ct.extra[addr], words...)
}

func (ct *codeTest) load(t *testing.T, vm *Machine) {
	t.Helper()
	require.NoError(t, vm.Load(ct.program.Bytes()))

	for addr, words := range ct.extra {
		for i, w := range words {
			vm.Memory.SetU16(addr+i*2, w)
		}
	}
}

// run loads the program into a fresh machine and runs n cycles.
func (ct *codeTest) run(t *testing.T, n int) *Machine {
	t.Helper()

	vm := New(nil)
	ct.load(t, vm)

	for i := 0; i < n; i++ {
		require.NoError(t, vm.Cycle(), "cycle %d", i)
	}
	return vm
}
