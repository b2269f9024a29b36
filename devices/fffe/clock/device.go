// Package clock paces execution at a fixed cycle frequency.
package clock

import (
	"time"

	"github.com/hexaflex/chip8/devices"
)

// DefaultFrequency is the default number of cycles per second.
const DefaultFrequency = 700

// maxBacklog is the longest stretch of missed time the clock will try to
// catch up on. Anything beyond it is dropped.
const maxBacklog = time.Second / 10

// Device tracks wall clock time and yields the number of cycles due.
type Device struct {
	frequency int
	start     time.Time
	issued    uint64
	now       func() time.Time
}

var _ devices.Device = &Device{}

// New creates a clock for the given frequency in Hz.
// Non-positive values select DefaultFrequency.
func New(frequency int) *Device {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}

	return &Device{
		frequency: frequency,
		now:       time.Now,
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Manufacturer, devices.SerialClock)
}

// Frequency returns the configured frequency in Hz.
func (d *Device) Frequency() int {
	return d.frequency
}

// Startup starts the clock.
func (d *Device) Startup() error {
	d.Reset()
	return nil
}

// Shutdown stops the clock.
func (d *Device) Shutdown() error {
	return nil
}

// Update does nothing; the clock does not observe the machine.
func (d *Device) Update(devices.Machine) {}

// Reset restarts the clock with no cycles due. Call it when execution
// resumes after a pause.
func (d *Device) Reset() {
	d.start = d.now()
	d.issued = 0
}

// Due returns the number of cycles which should run now to keep up with
// the configured frequency, and marks them as issued.
func (d *Device) Due() int {
	elapsed := d.now().Sub(d.start)
	if elapsed <= 0 {
		return 0
	}

	want := cycles(elapsed, d.frequency)

	if want <= d.issued {
		return 0
	}

	n := want - d.issued
	limit := cycles(maxBacklog, d.frequency)
	if limit < 1 {
		limit = 1
	}

	if n > limit {
		// Too far behind. Skip the missed time rather than running a burst.
		d.issued = want - limit
		n = limit
	}

	d.issued += n
	return int(n)
}

// cycles returns the number of whole cycles in duration t at frequency hz.
func cycles(t time.Duration, hz int) uint64 {
	secs, frac := uint64(t/time.Second), uint64(t%time.Second)
	return secs*uint64(hz) + frac*uint64(hz)/uint64(time.Second)
}
