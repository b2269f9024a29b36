// Package wavrec records the buzzer signal to a WAV file.
//
// Samples are buffered in memory and written to disk on shutdown.
package wavrec

import (
	"log"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/devices"
	"github.com/hexaflex/chip8/devices/tone"
)

// Output format properties.
const (
	SampleRate = tone.DefaultSampleRate
	BitDepth   = 16
	channels   = 1
	pcmFormat  = 1
)

// maxGap caps the number of samples generated for a single update, so a
// long pause in the host loop does not turn into minutes of audio.
const maxGap = SampleRate / 4

// Device records the sound signal as a square wave.
type Device struct {
	filename string
	wave     *tone.Square
	samples  []int
	last     time.Time
	now      func() time.Time
}

var _ devices.Device = &Device{}

// New creates a recorder which writes to the given file.
func New(filename string, volume float64) *Device {
	return &Device{
		filename: filename,
		wave:     tone.New(tone.DefaultFrequency, SampleRate, volume),
		now:      time.Now,
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialRecorder)
}

// Startup clears any previous recording.
func (d *Device) Startup() error {
	d.samples = d.samples[:0]
	d.last = d.now()
	d.wave.Reset()
	return nil
}

// Shutdown writes the recording to disk.
func (d *Device) Shutdown() error {
	log.Println(d.ID(), "writing", len(d.samples), "samples to", d.filename)
	return d.write()
}

// Update appends the samples for the time elapsed since the last update.
func (d *Device) Update(m devices.Machine) {
	now := d.now()
	n := int(now.Sub(d.last).Seconds() * SampleRate)
	if n <= 0 {
		return
	}

	// Advance by whole samples only, so rounding does not drift.
	d.last = d.last.Add(time.Duration(n) * time.Second / SampleRate)
	if n > maxGap {
		n = maxGap
		d.last = now
	}

	d.Record(m.SoundOn(), n)
}

// Record appends n samples of either tone or silence.
func (d *Device) Record(on bool, n int) {
	start := len(d.samples)
	for i := 0; i < n; i++ {
		d.samples = append(d.samples, 0)
	}

	if on {
		d.wave.FillS16(d.samples[start:])
	} else {
		d.wave.Reset()
	}
}

// Len returns the number of recorded samples.
func (d *Device) Len() int {
	return len(d.samples)
}

func (d *Device) write() (err error) {
	fd, err := os.Create(d.filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", d.filename)
	}

	defer func() {
		if cerr := fd.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "failed to close %s", d.filename)
		}
	}()

	enc := wav.NewEncoder(fd, SampleRate, BitDepth, channels, pcmFormat)

	buf := &audio.IntBuffer{
		Data:           d.samples,
		Format:         &audio.Format{NumChannels: channels, SampleRate: SampleRate},
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return errors.Wrapf(err, "failed to encode %s", d.filename)
	}

	return errors.Wrapf(enc.Close(), "failed to finalize %s", d.filename)
}
