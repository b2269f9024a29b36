package cpu

const (
	MemorySize    = 0x1000                    // Total addressable memory.
	FontAddress   = 0x050                     // Address of the hex digit glyphs.
	ProgramOffset = 0x200                     // Address at which ROMs are loaded.
	MaxROMSize    = MemorySize - ProgramOffset // Largest ROM that fits in memory.
)

// Memory defines the system's memory bank.
type Memory [MemorySize]byte

// U16 returns the big-endian 16-bit value at the given address.
func (m *Memory) U16(addr int) uint16 {
	return uint16(m[addr])<<8 | uint16(m[addr+1])
}

// SetU16 sets the big-endian 16-bit value at the given address.
func (m *Memory) SetU16(addr int, value uint16) {
	m[addr] = byte(value >> 8)
	m[addr+1] = byte(value)
}

// Write writes len(p) bytes from p into memory, starting at the given address.
func (m *Memory) Write(address int, p []byte) {
	copy(m[address:], p)
}

// Clear zero-fills the memory bank.
func (m *Memory) Clear() {
	*m = Memory{}
}

// span returns the n bytes starting at addr.
// Returns ErrAddress if the range does not fit in memory.
func (m *Memory) span(addr uint16, n int) ([]byte, error) {
	if int(addr)+n > MemorySize {
		return nil, ErrAddress
	}
	return m[addr : int(addr)+n], nil
}
