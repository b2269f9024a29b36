// Package buzzer implements the single tone sound device.
package buzzer

import (
	"log"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/tone"
)

// bufferLength is the number of samples queued per chunk. The device keeps
// at most two chunks queued, which keeps lag below 25ms at 44.1kHz.
const bufferLength = 512

// Device plays a square wave for as long as the sound timer runs.
type Device struct {
	id     sdl.AudioDeviceID
	spec   sdl.AudioSpec
	wave   *tone.Square
	buffer []uint8
	volume float64
	open   bool
	on     bool
}

var _ devices.Device = &Device{}

// New creates a new device with the given volume in the range [0, 1].
func New(volume float64) *Device {
	return &Device{
		volume: volume,
		buffer: make([]uint8, bufferLength),
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialBuzzer)
}

// Startup opens the default audio output. A host without usable audio
// output leaves the device silent instead of failing.
func (d *Device) Startup() error {
	if err := d.openAudio(); err != nil {
		log.Println(d.ID(), "audio disabled:", err)
	}
	return nil
}

func (d *Device) openAudio() error {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return errors.Wrapf(err, "failed to initialize sdl audio")
	}

	spec := &sdl.AudioSpec{
		Freq:     tone.DefaultSampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  bufferLength,
	}

	var err error
	d.id, err = sdl.OpenAudioDevice("", false, spec, &d.spec, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return errors.Wrapf(err, "failed to open audio device")
	}

	d.wave = tone.New(tone.DefaultFrequency, int(d.spec.Freq), d.volume)
	d.open = true
	sdl.PauseAudioDevice(d.id, false)
	return nil
}

// Shutdown closes the audio output.
func (d *Device) Shutdown() error {
	if !d.open {
		return nil
	}

	d.open = false
	sdl.ClearQueuedAudio(d.id)
	sdl.CloseAudioDevice(d.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}

// Update keeps the audio queue filled while the sound signal is on and
// drops it as soon as the signal turns off.
func (d *Device) Update(m devices.Machine) {
	if !d.open {
		return
	}

	on := m.SoundOn()
	if !on {
		if d.on {
			sdl.ClearQueuedAudio(d.id)
			d.wave.Reset()
			d.on = false
		}
		return
	}

	d.on = true
	for sdl.GetQueuedAudioSize(d.id) < 2*bufferLength {
		d.wave.FillU8(d.buffer)
		if err := sdl.QueueAudio(d.id, d.buffer); err != nil {
			return
		}
	}
}
