package filter

import "math"

// SVF implements a zero-delay-feedback state variable filter with
// simultaneous lowpass, highpass, bandpass and notch outputs. The auto
// filter effect uses it because its frequency coefficient can be retuned
// every sample without state glitches.
type SVF struct {
	g float64 // frequency coefficient
	k float64 // damping (1/Q)

	ic1eq float64
	ic2eq float64
}

// SVFOutputs holds the simultaneous filter outputs.
type SVFOutputs struct {
	Lowpass  float64
	Highpass float64
	Bandpass float64
	Notch    float64
}

// NewSVF creates a state variable filter.
func NewSVF() *SVF {
	return &SVF{g: 0.1, k: 1.0}
}

// Reset clears the integrator state.
func (s *SVF) Reset() {
	s.ic1eq = 0
	s.ic2eq = 0
}

// SetFrequency sets the filter frequency with bilinear pre-warp.
func (s *SVF) SetFrequency(sampleRate, frequency float64) {
	s.g = math.Tan(math.Pi * clampFrequency(sampleRate, frequency) / sampleRate)
}

// SetQ sets the resonance.
func (s *SVF) SetQ(q float64) {
	s.k = 1.0 / clampQ(q)
}

// Tick processes one sample and returns all outputs.
func (s *SVF) Tick(input float64) SVFOutputs {
	a1 := 1.0 / (1.0 + s.g*(s.g+s.k))
	a2 := s.g * a1
	a3 := s.g * a2

	v3 := input - s.ic2eq
	v1 := a1*s.ic1eq + a2*v3
	v2 := s.ic2eq + a2*s.ic1eq + a3*v3

	s.ic1eq = 2.0*v1 - s.ic1eq
	s.ic2eq = 2.0*v2 - s.ic2eq

	return SVFOutputs{
		Lowpass:  v2,
		Bandpass: v1,
		Highpass: input - s.k*v1 - v2,
		Notch:    input - s.k*v1,
	}
}
