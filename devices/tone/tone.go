// Package tone generates the buzzer waveform.
package tone

// Default tone properties.
const (
	DefaultFrequency  = 440
	DefaultSampleRate = 44100
	DefaultVolume     = 0.25
)

// Square is a square wave oscillator.
// Its zero value is silent; use New.
type Square struct {
	Frequency  float64 // Tone frequency in Hz.
	SampleRate float64 // Output samples per second.
	Volume     float64 // Amplitude in the range [0, 1].
	phase      float64 // Position in the current period, in the range [0, 1).
}

// New returns a square wave oscillator.
// Volume is clamped to [0, 1].
func New(frequency, sampleRate int, volume float64) *Square {
	return &Square{
		Frequency:  float64(frequency),
		SampleRate: float64(sampleRate),
		Volume:     clamp(volume),
	}
}

// Next returns the next sample in the range [-Volume, Volume].
func (s *Square) Next() float64 {
	if s.SampleRate <= 0 {
		return 0
	}

	v := s.Volume
	if s.phase >= 0.5 {
		v = -v
	}

	s.phase += s.Frequency / s.SampleRate
	for s.phase >= 1 {
		s.phase--
	}

	return v
}

// Reset restarts the wave at the beginning of a period.
func (s *Square) Reset() {
	s.phase = 0
}

// FillU8 fills p with unsigned 8-bit samples centered on 0x80.
func (s *Square) FillU8(p []uint8) {
	for i := range p {
		p[i] = uint8(0x80 + int(s.Next()*0x7f))
	}
}

// FillS16 fills p with signed 16-bit samples.
func (s *Square) FillS16(p []int) {
	for i := range p {
		p[i] = int(s.Next() * 0x7fff)
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
