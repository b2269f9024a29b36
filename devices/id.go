package devices

import "fmt"

// ID identifies a device.
// The upper 16 bits hold the device manufacturer id.
// The lower 16 bits hold the device serial number.
type ID uint32

// Manufacturer is the manufacturer id shared by all built-in devices.
const Manufacturer = 0xfffe

// Serial numbers of the built-in devices.
const (
	SerialDisplay  = 0x0002
	SerialKeypad   = 0x0003
	SerialBuzzer   = 0x0004
	SerialClock    = 0x0005
	SerialRecorder = 0x0006
	SerialTerminal = 0x0007
)

// NewID creates a new id with the given components.
func NewID(manufacturer, serial int) ID {
	return ID(manufacturer&0xffff)<<16 | ID(serial&0xffff)
}

// Manufacturer returns the manufacturer component of the id.
func (id ID) Manufacturer() int {
	return int(id>>16) & 0xffff
}

// Serial returns the device serial number component of the id.
func (id ID) Serial() int {
	return int(id) & 0xffff
}

func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Manufacturer(), id.Serial())
}
