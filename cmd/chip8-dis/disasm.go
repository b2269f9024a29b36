package main

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hexaflex/chip8/arch"
)

// Disassemble writes an assembly listing of rom to w, assuming rom is
// loaded at origin. Addresses targeted by JP and CALL get a label line.
//
// CHIP-8 programs mix code and data freely, so every word is decoded as
// an instruction. Data words which do not decode are written as DW.
func Disassemble(w io.Writer, rom []byte, origin uint16, hex bool) {
	targets := jumpTargets(rom, origin)

	for i := 0; i+1 < len(rom); i += arch.InstructionSize {
		addr := origin + uint16(i)
		word := binary.BigEndian.Uint16(rom[i:])

		if targets[addr] {
			fmt.Fprintf(w, "%s:\n", label(addr))
		}

		instr := arch.Decode(word)
		instr.IP = addr

		text := instr.String()
		if (instr.Op == arch.JP || instr.Op == arch.CALL) && targets[instr.NNN] {
			name, _ := arch.Name(instr.Op)
			text = name + " " + label(instr.NNN)
		}

		if hex {
			fmt.Fprintf(w, "  %04x  %04x  %s\n", addr, word, text)
		} else {
			fmt.Fprintf(w, "  %04x  %s\n", addr, text)
		}
	}

	if len(rom)%2 != 0 {
		addr := origin + uint16(len(rom)-1)
		fmt.Fprintf(w, "  %04x  DB $%02x\n", addr, rom[len(rom)-1])
	}
}

// jumpTargets returns the set of word aligned addresses inside the rom
// which are targeted by JP or CALL.
func jumpTargets(rom []byte, origin uint16) map[uint16]bool {
	targets := make(map[uint16]bool)
	end := int(origin) + len(rom)

	for i := 0; i+1 < len(rom); i += arch.InstructionSize {
		instr := arch.Decode(binary.BigEndian.Uint16(rom[i:]))
		if instr.Op != arch.JP && instr.Op != arch.CALL {
			continue
		}

		target := int(instr.NNN)
		if target >= int(origin) && target+1 < end && (target-int(origin))%2 == 0 {
			targets[instr.NNN] = true
		}
	}

	return targets
}

func label(addr uint16) string {
	return fmt.Sprintf("L%03x", addr)
}
