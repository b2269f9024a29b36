package devices

// Machine defines the view of the interpreter that peripherals work with.
// Peripherals only access it between cycles.
type Machine interface {
	// Pixel returns the state of the display pixel at x, y.
	Pixel(x, y int) bool

	// SoundOn returns true while the sound timer is running.
	SoundOn() bool

	// SetKey sets the pressed state of the given hex key.
	SetKey(key int, pressed bool)
}
