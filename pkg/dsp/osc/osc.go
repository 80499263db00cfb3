// Package osc provides the phase-accumulator oscillator used by the
// synthesis generators and the LFO router.
package osc

import "math"

// Waveform selects the oscillator shape.
type Waveform int

const (
	// Sine produces a sine wave.
	Sine Waveform = iota
	// Square produces a 50% duty square wave.
	Square
	// Sawtooth produces a rising ramp.
	Sawtooth
	// Triangle produces a triangle wave.
	Triangle
	// Pulse produces a variable-width pulse wave.
	Pulse
)

// ParseWaveform maps a spec waveform name to a Waveform. Unknown names fall
// back to sine.
func ParseWaveform(name string) Waveform {
	switch name {
	case "square":
		return Square
	case "sawtooth", "saw":
		return Sawtooth
	case "triangle":
		return Triangle
	case "pulse":
		return Pulse
	default:
		return Sine
	}
}

// Oscillator generates periodic waveforms from an accumulated phase in [0,1).
type Oscillator struct {
	sampleRate float64
	phase      float64
}

// New creates an oscillator.
func New(sampleRate float64) *Oscillator {
	return &Oscillator{sampleRate: sampleRate}
}

// Next evaluates the waveform at the current phase and advances the phase by
// freq/sampleRate. Width is only consulted for Pulse.
func (o *Oscillator) Next(w Waveform, freq, width float64) float64 {
	sample := Eval(w, o.phase, width)
	o.phase += freq / o.sampleRate
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
	return sample
}

// Eval evaluates a waveform at an arbitrary phase in [0,1).
func Eval(w Waveform, phase, width float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1.0
		}
		return -1.0
	case Sawtooth:
		return 2.0*phase - 1.0
	case Triangle:
		if phase < 0.5 {
			return 4.0*phase - 1.0
		}
		return 3.0 - 4.0*phase
	case Pulse:
		if width <= 0.01 {
			width = 0.01
		} else if width >= 0.99 {
			width = 0.99
		}
		if phase < width {
			return 1.0
		}
		return -1.0
	default:
		return math.Sin(2.0 * math.Pi * phase)
	}
}
