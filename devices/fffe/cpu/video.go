package cpu

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Framebuffer holds the monochrome display, row-major. A pixel is either on or off.
type Framebuffer [DisplayWidth * DisplayHeight]bool

// Pixel returns the state of the pixel at x, y.
func (fb *Framebuffer) Pixel(x, y int) bool {
	return fb[y*DisplayWidth+x]
}

// SetPixel sets the state of the pixel at x, y.
func (fb *Framebuffer) SetPixel(x, y int, on bool) {
	fb[y*DisplayWidth+x] = on
}

// Clear turns every pixel off.
func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// flip toggles the pixel at x, y, wrapping both coordinates around the
// display edges. Returns true if the pixel was on before the toggle.
func (fb *Framebuffer) flip(x, y int) bool {
	i := (y%DisplayHeight)*DisplayWidth + x%DisplayWidth
	was := fb[i]
	fb[i] = !was
	return was
}

// Keypad holds the pressed state of the 16 hex keys.
type Keypad [KeyCount]bool

// First returns the lowest pressed key.
// Returns false if no key is pressed.
func (k *Keypad) First() (int, bool) {
	for i, pressed := range k {
		if pressed {
			return i, true
		}
	}
	return 0, false
}
