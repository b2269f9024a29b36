package tty

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

type machine struct {
	video cpu.Framebuffer
	keys  cpu.Keypad
}

func (m *machine) Pixel(x, y int) bool          { return m.video.Pixel(x, y) }
func (m *machine) SoundOn() bool                { return false }
func (m *machine) SetKey(key int, pressed bool) { m.keys[key] = pressed }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDevice(out *bytes.Buffer) (*Device, *fakeClock) {
	fc := &fakeClock{t: time.Unix(1000, 0)}
	d := New(nil, out)
	d.now = fc.now
	d.keys = make(chan byte, 16)
	return d, fc
}

func TestKey(t *testing.T) {
	tests := []struct {
		char byte
		key  int
	}{
		{'1', 0x1}, {'2', 0x2}, {'3', 0x3}, {'4', 0xc},
		{'q', 0x4}, {'w', 0x5}, {'e', 0x6}, {'r', 0xd},
		{'a', 0x7}, {'s', 0x8}, {'d', 0x9}, {'f', 0xe},
		{'z', 0xa}, {'x', 0x0}, {'c', 0xb}, {'v', 0xf},
		{'Q', 0x4}, {'V', 0xf},
	}

	for _, test := range tests {
		key, ok := Key(test.char)
		assert.True(t, ok, "%q", test.char)
		assert.Equal(t, test.key, key, "%q", test.char)
	}

	for _, char := range []byte("5tgbp \r") {
		_, ok := Key(char)
		assert.False(t, ok, "%q", char)
	}
}

func TestKeyMapCoversKeypad(t *testing.T) {
	var seen cpu.Keypad
	for _, key := range KeyMap {
		assert.False(t, seen[key], "hex key %x mapped twice", key)
		seen[key] = true
	}
	assert.Len(t, KeyMap, cpu.KeyCount)
}

func TestRender(t *testing.T) {
	var fb cpu.Framebuffer
	fb.SetPixel(0, 0, true)
	fb.SetPixel(63, 31, true)

	var out bytes.Buffer
	require.NoError(t, Render(&out, &fb))

	text := strings.TrimPrefix(out.String(), home)
	lines := strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n")
	require.Len(t, lines, cpu.DisplayHeight)

	for y, line := range lines {
		runes := []rune(line)
		require.Len(t, runes, cpu.DisplayWidth, "line %d", y)
	}

	assert.Equal(t, PixelOn, []rune(lines[0])[0])
	assert.Equal(t, PixelOff, []rune(lines[0])[1])
	assert.Equal(t, PixelOn, []rune(lines[31])[63])
	assert.Equal(t, 2, strings.Count(text, string(PixelOn)))
}

func TestUpdateHoldsKeys(t *testing.T) {
	var out bytes.Buffer
	d, fc := newTestDevice(&out)
	var m machine

	d.keys <- 'w'
	d.Update(&m)
	assert.True(t, m.keys[0x5])

	fc.advance(DefaultHold / 2)
	d.Update(&m)
	assert.True(t, m.keys[0x5], "key is held between keystrokes")

	fc.advance(DefaultHold)
	d.Update(&m)
	assert.False(t, m.keys[0x5], "key is released after the hold window")

	for key, pressed := range m.keys {
		assert.False(t, pressed, "key %x", key)
	}
}

func TestUpdateQuit(t *testing.T) {
	var out bytes.Buffer
	d, _ := newTestDevice(&out)
	var m machine

	d.Update(&m)
	assert.False(t, d.Quit())

	d.keys <- escape
	d.Update(&m)
	assert.True(t, d.Quit())
}

func TestUpdateQuitOnEOF(t *testing.T) {
	var out bytes.Buffer
	d, _ := newTestDevice(&out)
	var m machine

	d.keys <- '1'
	close(d.keys)
	d.Update(&m)

	assert.True(t, d.Quit())
	assert.True(t, m.keys[0x1], "keys read before EOF still apply")
}

func TestUpdateRedrawsOnChange(t *testing.T) {
	var out bytes.Buffer
	d, _ := newTestDevice(&out)
	var m machine

	d.Update(&m)
	assert.NotZero(t, out.Len(), "first update always draws")

	out.Reset()
	d.Update(&m)
	assert.Zero(t, out.Len(), "unchanged display is not redrawn")

	m.video.SetPixel(10, 10, true)
	d.Update(&m)
	assert.Contains(t, out.String(), string(PixelOn))
}
