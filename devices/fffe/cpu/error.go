package cpu

import (
	"errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/translate"
)

var f = translate.From

// Fault kinds. A failed cycle returns an *Error wrapping one of these.
var (
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrAddress        = errors.New(f("address out of range"))
	ErrROMTooLarge    = errors.New(f("rom too large"))
)

// Error defines a runtime error.
type Error struct {
	arch.Instruction
	Err error
}

// NewError creates a new error for the given instruction and fault kind.
func NewError(instr *arch.Instruction, err error) *Error {
	return &Error{
		Instruction: *instr,
		Err:         err,
	}
}

func (e *Error) Error() string {
	return f("%04x: %s: %v", e.IP, e.Instruction.String(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
