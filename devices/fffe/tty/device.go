// Package tty implements a text terminal frontend: the display is drawn
// with block characters and the keypad is read from raw terminal input.
//
// Terminals only report key presses, never releases. A key is therefore
// considered held for a short window after each keystroke; auto-repeat
// keeps it held for as long as the physical key is down.
package tty

import (
	"bufio"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// Characters used to draw pixels.
const (
	PixelOn  = '■'
	PixelOff = ' '
)

// DefaultHold is how long a key stays pressed after a keystroke.
const DefaultHold = 150 * time.Millisecond

// Control sequences.
const (
	escape     = 0x1b
	ctrlC      = 0x03
	home       = "\x1b[H"
	clear      = "\x1b[2J"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// KeyMap maps typed characters to hex keys, using the same layout as the
// window frontend.
var KeyMap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

// Device defines all internal doodads for the terminal.
type Device struct {
	input   *os.File
	output  io.Writer
	canAttr syscall.Termios
	rawAttr syscall.Termios
	keys    chan byte
	pressed [cpu.KeyCount]time.Time
	hold    time.Duration
	frame   cpu.Framebuffer
	drawn   bool
	quit    bool
	raw     bool
	now     func() time.Time
}

var _ devices.Device = &Device{}

// New creates a terminal device reading keys from input and drawing to output.
func New(input *os.File, output io.Writer) *Device {
	return &Device{
		input:  input,
		output: output,
		hold:   DefaultHold,
		now:    time.Now,
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialTerminal)
}

// Quit returns true once the user asked to exit with Escape or Ctrl-C.
func (d *Device) Quit() bool {
	return d.quit
}

// Startup switches the terminal into raw mode and starts reading keys.
func (d *Device) Startup() error {
	fd := d.input.Fd()

	if err := termios.Tcgetattr(fd, &d.canAttr); err != nil {
		return errors.Wrapf(err, "input is not a terminal")
	}

	d.rawAttr = d.canAttr
	termios.Cfmakeraw(&d.rawAttr)

	if err := termios.Tcsetattr(fd, termios.TCIFLUSH, &d.rawAttr); err != nil {
		return errors.Wrapf(err, "failed to enter raw mode")
	}

	d.raw = true
	d.drawn = false
	d.quit = false
	d.keys = make(chan byte, 64)
	go d.poll(d.input, d.keys)

	_, err := io.WriteString(d.output, hideCursor+clear)
	return err
}

// Shutdown restores the terminal.
func (d *Device) Shutdown() error {
	if !d.raw {
		return nil
	}

	d.raw = false
	io.WriteString(d.output, showCursor+"\r\n")

	err := termios.Tcsetattr(d.input.Fd(), termios.TCIFLUSH, &d.canAttr)
	return errors.Wrapf(err, "failed to restore terminal")
}

// Update applies pending keystrokes to m and redraws the display if it changed.
func (d *Device) Update(m devices.Machine) {
	now := d.now()

	for pending := true; pending; {
		select {
		case b, ok := <-d.keys:
			if !ok {
				// stdin closed.
				d.quit = true
				pending = false
				break
			}
			d.press(b, now)
		default:
			pending = false
		}
	}

	for key, t := range d.pressed {
		m.SetKey(key, !t.IsZero() && now.Sub(t) < d.hold)
	}

	if capture(&d.frame, m) || !d.drawn {
		d.drawn = true
		Render(d.output, &d.frame)
	}
}

// press records a single keystroke.
func (d *Device) press(b byte, now time.Time) {
	switch b {
	case escape, ctrlC:
		d.quit = true
		return
	}

	if key, ok := Key(b); ok {
		d.pressed[key] = now
	}
}

// poll forwards bytes read from r to keys until reading fails.
func (d *Device) poll(r io.Reader, keys chan<- byte) {
	defer close(keys)

	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		keys <- b
	}
}

// Key returns the hex key for the typed character b.
// Letters are matched case-insensitively.
func Key(b byte) (int, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}

	key, ok := KeyMap[b]
	return key, ok
}

// capture copies the display contents of m into fb.
// Returns true if anything changed.
func capture(fb *cpu.Framebuffer, m devices.Machine) bool {
	var changed bool

	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			on := m.Pixel(x, y)
			if fb.Pixel(x, y) != on {
				fb.SetPixel(x, y, on)
				changed = true
			}
		}
	}

	return changed
}

// Render draws fb to w, starting at the top left corner of the terminal.
// Lines end in CRLF since output post-processing is off in raw mode.
func Render(w io.Writer, fb *cpu.Framebuffer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(home)

	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			if fb.Pixel(x, y) {
				bw.WriteRune(PixelOn)
			} else {
				bw.WriteRune(PixelOff)
			}
		}
		bw.WriteString("\r\n")
	}

	return bw.Flush()
}
