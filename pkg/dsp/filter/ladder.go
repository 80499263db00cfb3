package filter

import "math"

// Ladder implements a 4-pole lowpass cascade with resonance feedback. The
// feedback path runs through tanh so the filter stays stable even at full
// resonance.
type Ladder struct {
	sampleRate float64
	cutoff     float64
	resonance  float64 // 0-1, mapped to 0-4x feedback

	stages [4]float64
}

// NewLadder creates a ladder filter.
func NewLadder(sampleRate float64) *Ladder {
	return &Ladder{
		sampleRate: sampleRate,
		cutoff:     1000.0,
	}
}

// Reset clears the stage state.
func (l *Ladder) Reset() {
	l.stages = [4]float64{}
}

// SetCutoff sets the cutoff frequency in Hz.
func (l *Ladder) SetCutoff(hz float64) {
	l.cutoff = clampFrequency(l.sampleRate, hz)
}

// SetResonance sets the resonance in [0,1].
func (l *Ladder) SetResonance(r float64) {
	l.resonance = math.Max(0.0, math.Min(1.0, r))
}

// Tick processes one sample.
func (l *Ladder) Tick(input float64) float64 {
	// One-pole coefficient per stage.
	g := 1.0 - math.Exp(-2.0*math.Pi*l.cutoff/l.sampleRate)
	feedback := l.resonance * 4.0

	x := input - math.Tanh(feedback*l.stages[3])
	for i := 0; i < 4; i++ {
		l.stages[i] += g * (x - l.stages[i])
		x = l.stages[i]
	}
	return x
}

// Process filters a buffer in place.
func (l *Ladder) Process(buffer []float64) {
	for i := range buffer {
		buffer[i] = l.Tick(buffer[i])
	}
}
