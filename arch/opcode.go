// Package arch defines the CHIP-8 instruction set along with
// some related helper functions.
package arch

// Op identifies a decoded instruction.
type Op int

// Known opcodes.
const (
	UNKNOWN Op = iota // Unrecognized encoding. Executes as a no-op.

	SYS  // 0nnn: Call machine code routine. Ignored.
	CLS  // 00E0: Clear the display.
	RET  // 00EE: Return from subroutine.
	JP   // 1nnn: Jump to nnn.
	CALL // 2nnn: Call subroutine at nnn.
	SEB  // 3xnn: Skip if Vx == nn.
	SNEB // 4xnn: Skip if Vx != nn.
	SER  // 5xy0: Skip if Vx == Vy.
	LDB  // 6xnn: Vx = nn.
	ADDB // 7xnn: Vx += nn.

	LDR  // 8xy0: Vx = Vy.
	OR   // 8xy1: Vx |= Vy.
	AND  // 8xy2: Vx &= Vy.
	XOR  // 8xy3: Vx ^= Vy.
	ADDR // 8xy4: Vx += Vy, VF = carry.
	SUB  // 8xy5: Vx -= Vy, VF = not borrow.
	SHR  // 8xy6: Vx >>= 1, VF = lsb.
	SUBN // 8xy7: Vx = Vy - Vx, VF = not borrow.
	SHL  // 8xyE: Vx <<= 1, VF = msb.

	SNER // 9xy0: Skip if Vx != Vy.
	LDI  // Annn: I = nnn.
	JPV0 // Bnnn: Jump to nnn + V0.
	RND  // Cxnn: Vx = random & nn.
	DRW  // Dxyn: Draw n-byte sprite at (Vx, Vy).
	SKP  // Ex9E: Skip if key Vx is pressed.
	SKNP // ExA1: Skip if key Vx is not pressed.

	LDVDT // Fx07: Vx = DT.
	LDVK  // Fx0A: Wait for key, Vx = key.
	LDDT  // Fx15: DT = Vx.
	LDST  // Fx18: ST = Vx.
	ADDI  // Fx1E: I += Vx.
	LDF   // Fx29: I = glyph address for Vx.
	LDBCD // Fx33: Store BCD of Vx at I.
	STORE // Fx55: Store V0..Vx at I.
	LOAD  // Fx65: Load V0..Vx from I.

	opCount
)

// Name returns the assembly mnemonic for the given opcode.
// Returns false if the opcode is not recognized.
func Name(op Op) (string, bool) {
	switch op {
	case SYS:
		return "SYS", true
	case CLS:
		return "CLS", true
	case RET:
		return "RET", true
	case JP, JPV0:
		return "JP", true
	case CALL:
		return "CALL", true
	case SEB, SER:
		return "SE", true
	case SNEB, SNER:
		return "SNE", true
	case LDB, LDR, LDI, LDVDT, LDVK, LDDT, LDST, LDF, LDBCD, STORE, LOAD:
		return "LD", true
	case ADDB, ADDR, ADDI:
		return "ADD", true

	case OR:
		return "OR", true
	case AND:
		return "AND", true
	case XOR:
		return "XOR", true
	case SUB:
		return "SUB", true
	case SHR:
		return "SHR", true
	case SUBN:
		return "SUBN", true
	case SHL:
		return "SHL", true

	case RND:
		return "RND", true
	case DRW:
		return "DRW", true
	case SKP:
		return "SKP", true
	case SKNP:
		return "SKNP", true
	}

	return "", false
}

// Skips returns true if the given opcode conditionally skips the next instruction.
func Skips(op Op) bool {
	switch op {
	case SEB, SNEB, SER, SNER, SKP, SKNP:
		return true
	}
	return false
}

// WritesFlag returns true if the given opcode writes VF as a side effect.
func WritesFlag(op Op) bool {
	switch op {
	case ADDR, SUB, SHR, SUBN, SHL, DRW:
		return true
	}
	return false
}
