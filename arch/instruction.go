package arch

import "fmt"

// InstructionSize is the size of an encoded instruction in bytes.
const InstructionSize = 2

// Instruction defines decoded instruction data.
type Instruction struct {
	IP   uint16 // Instruction address.
	Word uint16 // Encoded instruction.
	Op   Op     // Decoded opcode.
	X    uint8  // Register operand in bits 8-11.
	Y    uint8  // Register operand in bits 4-7.
	N    uint8  // Lowest nibble.
	NN   uint8  // Low byte.
	NNN  uint16 // Low 12 bits.
}

// Decode decodes the given instruction word. Encodings which do not map to a
// known instruction yield an Instruction with Op set to UNKNOWN.
func Decode(word uint16) Instruction {
	return Instruction{
		Word: word,
		Op:   decodeOp(word),
		X:    uint8(word>>8) & 0xf,
		Y:    uint8(word>>4) & 0xf,
		N:    uint8(word) & 0xf,
		NN:   uint8(word),
		NNN:  word & 0xfff,
	}
}

// decodeOp selects the opcode by the top nibble and, for the 0, 8, E and F
// groups, the low nibble or low byte.
func decodeOp(word uint16) Op {
	n := word & 0xf
	nn := word & 0xff

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00e0:
			return CLS
		case 0x00ee:
			return RET
		}
		return SYS
	case 0x1:
		return JP
	case 0x2:
		return CALL
	case 0x3:
		return SEB
	case 0x4:
		return SNEB
	case 0x5:
		return SER
	case 0x6:
		return LDB
	case 0x7:
		return ADDB
	case 0x8:
		switch n {
		case 0x0:
			return LDR
		case 0x1:
			return OR
		case 0x2:
			return AND
		case 0x3:
			return XOR
		case 0x4:
			return ADDR
		case 0x5:
			return SUB
		case 0x6:
			return SHR
		case 0x7:
			return SUBN
		case 0xe:
			return SHL
		}
	case 0x9:
		return SNER
	case 0xa:
		return LDI
	case 0xb:
		return JPV0
	case 0xc:
		return RND
	case 0xd:
		return DRW
	case 0xe:
		switch nn {
		case 0x9e:
			return SKP
		case 0xa1:
			return SKNP
		}
	case 0xf:
		switch nn {
		case 0x07:
			return LDVDT
		case 0x0a:
			return LDVK
		case 0x15:
			return LDDT
		case 0x18:
			return LDST
		case 0x1e:
			return ADDI
		case 0x29:
			return LDF
		case 0x33:
			return LDBCD
		case 0x55:
			return STORE
		case 0x65:
			return LOAD
		}
	}

	return UNKNOWN
}

// String returns the instruction in assembly notation.
// Unknown encodings are rendered as a raw data word.
func (i Instruction) String() string {
	name, ok := Name(i.Op)
	if !ok {
		return fmt.Sprintf("DW $%04x", i.Word)
	}

	vx := RegisterName(int(i.X))
	vy := RegisterName(int(i.Y))

	switch i.Op {
	case CLS, RET:
		return name
	case SYS, JP, CALL:
		return fmt.Sprintf("%s $%03x", name, i.NNN)
	case SEB, SNEB, LDB, ADDB, RND:
		return fmt.Sprintf("%s %s, $%02x", name, vx, i.NN)
	case SER, SNER, LDR, OR, AND, XOR, ADDR, SUB, SUBN:
		return fmt.Sprintf("%s %s, %s", name, vx, vy)
	case SHR, SHL:
		return fmt.Sprintf("%s %s", name, vx)
	case LDI:
		return fmt.Sprintf("%s I, $%03x", name, i.NNN)
	case JPV0:
		return fmt.Sprintf("%s V0, $%03x", name, i.NNN)
	case DRW:
		return fmt.Sprintf("%s %s, %s, %d", name, vx, vy, i.N)
	case SKP, SKNP:
		return fmt.Sprintf("%s %s", name, vx)
	case LDVDT:
		return fmt.Sprintf("%s %s, DT", name, vx)
	case LDVK:
		return fmt.Sprintf("%s %s, K", name, vx)
	case LDDT:
		return fmt.Sprintf("%s DT, %s", name, vx)
	case LDST:
		return fmt.Sprintf("%s ST, %s", name, vx)
	case ADDI:
		return fmt.Sprintf("%s I, %s", name, vx)
	case LDF:
		return fmt.Sprintf("%s F, %s", name, vx)
	case LDBCD:
		return fmt.Sprintf("%s B, %s", name, vx)
	case STORE:
		return fmt.Sprintf("%s [I], %s", name, vx)
	case LOAD:
		return fmt.Sprintf("%s %s, [I]", name, vx)
	}

	return name
}
