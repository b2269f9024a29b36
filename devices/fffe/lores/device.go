// Package lores implements the 64x32 monochrome display.
package lores

import (
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// Display dimensions in pixels.
const (
	DisplayWidth  = cpu.DisplayWidth
	DisplayHeight = cpu.DisplayHeight
)

// Default display colors as 0xRRGGBB.
const (
	DefaultBackground = 0x000000
	DefaultForeground = 0xffffff
)

// Device defines all internal doodads for the display.
type Device struct {
	palette     [2 * 4]float32
	pixels      [DisplayWidth * DisplayHeight]byte
	shader      uint32
	vao         uint32
	vbo         uint32
	screenTex   uint32
	dirty       bool
	initialized bool
}

var _ devices.Device = &Device{}

// New creates a new device using the given background and foreground
// colors, both in 0xRRGGBB form.
func New(background, foreground int) *Device {
	var d Device
	rgb2f(background, d.palette[0:4])
	rgb2f(foreground, d.palette[4:8])
	return &d
}

// ID returns the device identifier.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialDisplay)
}

// Draw renders the display contents.
func (d *Device) Draw() {
	if !d.initialized {
		return
	}

	if d.dirty {
		uploadTexture(d.screenTex, gl.R8, DisplayWidth, DisplayHeight, gl.RED, gl.UNSIGNED_BYTE, d.pixels[:])
		d.dirty = false
	}

	gl.UseProgram(d.shader)
	gl.BindVertexArray(d.vao)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, d.screenTex)

	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Startup initializes device resources.
func (d *Device) Startup() error {
	var err error

	d.shader, err = compileProgram(
		stage{gl.VERTEX_SHADER, vertex},
		stage{gl.FRAGMENT_SHADER, fragment},
	)
	if err != nil {
		return errors.Wrapf(err, "failed to compile shaders")
	}

	gl.UseProgram(d.shader)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	vertAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertPos")))
	texCoordAttrib := uint32(gl.GetAttribLocation(d.shader, glStr("vertTexCoord")))

	gl.EnableVertexAttribArray(vertAttrib)
	gl.VertexAttribPointer(vertAttrib, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(texCoordAttrib)
	gl.VertexAttribPointer(texCoordAttrib, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))

	palette := gl.GetUniformLocation(d.shader, glStr("palette"))
	gl.Uniform4fv(palette, 2, &d.palette[0])

	d.screenTex = makeTexture()
	d.dirty = true
	d.initialized = true
	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	if !d.initialized {
		return nil
	}

	d.initialized = false
	gl.DeleteTextures(1, &d.screenTex)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.shader)
	return nil
}

// Update copies the machine's framebuffer into the display texture data.
func (d *Device) Update(m devices.Machine) {
	if copyPixels(d.pixels[:], m) {
		d.dirty = true
	}
}

// copyPixels writes the framebuffer in m to dst as one byte per pixel:
// 0xff for on and 0 for off. Returns true if dst was changed.
func copyPixels(dst []byte, m devices.Machine) bool {
	var changed bool

	for y := 0; y < DisplayHeight; y++ {
		row := dst[y*DisplayWidth:]
		for x := 0; x < DisplayWidth; x++ {
			var v byte
			if m.Pixel(x, y) {
				v = 0xff
			}

			if row[x] != v {
				row[x] = v
				changed = true
			}
		}
	}

	return changed
}

// rgb2f sets p to the RGBA representation of the 0xRRGGBB color in n.
func rgb2f(n int, p []float32) {
	p[0] = float32((n>>16)&0xff) / 255
	p[1] = float32((n>>8)&0xff) / 255
	p[2] = float32(n&0xff) / 255
	p[3] = 1
}

var quadVertices = []float32{
	//  X, Y, Z, U, V
	-1.0, -1.0, 0.0, 0.0, 1.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
	1.0, -1.0, 0.0, 1.0, 1.0,
	1.0, 1.0, 0.0, 1.0, 0.0,
	-1.0, 1.0, 0.0, 0.0, 0.0,
}
