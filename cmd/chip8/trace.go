package main

import (
	"fmt"
	"strings"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// traceLine formats an instruction about to be executed, along with the
// machine state it operates on.
func traceLine(m *cpu.Machine, i *arch.Instruction) string {
	var sb strings.Builder
	sb.Grow(80)

	fmt.Fprintf(&sb, "%04x %04x  %s", i.IP, i.Word, i.String())
	pad(&sb, 32)

	fmt.Fprintf(&sb, "%s=%02x %s=%02x I=%04x SP=%x DT=%02x ST=%02x",
		arch.RegisterName(int(i.X)), m.V[i.X],
		arch.RegisterName(int(i.Y)), m.V[i.Y],
		m.I, m.SP, m.DT, m.ST)

	if arch.WritesFlag(i.Op) {
		fmt.Fprintf(&sb, " VF=%02x", m.V[arch.VF])
	}
	if arch.Skips(i.Op) {
		sb.WriteString(" ?skip")
	}

	return sb.String()
}

// pad padds sb with spaces until it reaches the given size.
var pad = func() func(*strings.Builder, int) {
	set := strings.Repeat(" ", 80)
	return func(sb *strings.Builder, size int) {
		if sb.Len() >= size {
			return
		}
		if size > len(set) {
			size = len(set)
		}
		sb.WriteString(set[:size-sb.Len()])
	}
}()
