// Package hexkey implements the 16 key hex keypad.
//
// Keys are read from the keyboard of the display window and, if one is
// connected, from a gamepad.
package hexkey

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// Keyboard maps each hex key to a key on a QWERTY keyboard.
// The keys 1-4 and the three letter rows below them form the 4x4 grid of
// the COSMAC VIP keypad.
var Keyboard = [cpu.KeyCount]glfw.Key{
	0x1: glfw.Key1, 0x2: glfw.Key2, 0x3: glfw.Key3, 0xc: glfw.Key4,
	0x4: glfw.KeyQ, 0x5: glfw.KeyW, 0x6: glfw.KeyE, 0xd: glfw.KeyR,
	0x7: glfw.KeyA, 0x8: glfw.KeyS, 0x9: glfw.KeyD, 0xe: glfw.KeyF,
	0xa: glfw.KeyZ, 0x0: glfw.KeyX, 0xb: glfw.KeyC, 0xf: glfw.KeyV,
}

// Gamepad maps gamepad buttons to hex keys. Most programs use 2, 4, 6 and 8
// for movement and 5 for action.
var Gamepad = map[glfw.GamepadButton]int{
	glfw.ButtonDpadUp:    0x2,
	glfw.ButtonDpadLeft:  0x4,
	glfw.ButtonDpadRight: 0x6,
	glfw.ButtonDpadDown:  0x8,
	glfw.ButtonA:         0x5,
	glfw.ButtonB:         0x0,
	glfw.ButtonX:         0xa,
	glfw.ButtonY:         0xb,
	glfw.ButtonBack:      0xe,
	glfw.ButtonStart:     0xf,
}

// Device defines all internal doodads for the keypad.
type Device struct {
	window  *glfw.Window
	joy     glfw.Joystick
	state   cpu.Keypad
	gamepad bool
}

var _ devices.Device = &Device{}

// New creates a new device which reads keys from the given window.
func New(window *glfw.Window) *Device {
	return &Device{window: window}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialKeypad)
}

// Startup initializes device resources.
// It detects any connected gamepad.
func (d *Device) Startup() error {
	glfw.SetJoystickCallback(d.configure)

	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			d.configure(joy, glfw.Connected)
			break
		}
	}

	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	glfw.SetJoystickCallback(nil)
	d.gamepad = false
	return nil
}

// Update samples the keyboard and gamepad and writes the key state to m.
func (d *Device) Update(m devices.Machine) {
	d.state = cpu.Keypad{}

	if d.window != nil {
		for key, glfwKey := range Keyboard {
			d.state[key] = d.window.GetKey(glfwKey) == glfw.Press
		}
	}

	if d.gamepad {
		if gs := d.joy.GetGamepadState(); gs != nil {
			for btn, key := range Gamepad {
				if gs.Buttons[btn] == glfw.Press {
					d.state[key] = true
				}
			}
		}
	}

	for key, pressed := range d.state {
		m.SetKey(key, pressed)
	}
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (d *Device) configure(joy glfw.Joystick, event glfw.PeripheralEvent) {
	d.gamepad = event == glfw.Connected && joy.IsGamepad()
	d.joy = joy

	if d.gamepad {
		log.Println(d.ID(), "gamepad connected:", joy.GetGamepadName())
	} else {
		log.Println(d.ID(), "gamepad disconnected")
	}
}
