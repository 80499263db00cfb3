// Package envelope provides the time-indexed ADSR used for amplitude and
// pitch shaping, and the envelope follower behind the dynamics effects.
package envelope

import "math"

// ADSR is a time-indexed attack-decay-sustain-release envelope over a fixed
// buffer duration. Unlike a gate-driven envelope it is a pure function of
// elapsed time, which keeps offline rendering deterministic and allocation
// free.
//
// With sustain > 0 the envelope holds the sustain level until
// duration-release, then ramps to zero; the loopable region starts at
// attack+decay. With sustain == 0 the envelope is one-shot: after the
// attack it falls from peak to zero across decay+release seconds and
// never loops.
type ADSR struct {
	attack  float64
	decay   float64
	sustain float64
	release float64
}

// NewADSR creates an envelope. Negative times clamp to zero; sustain clamps
// to [0,1].
func NewADSR(attack, decay, sustain, release float64) *ADSR {
	return &ADSR{
		attack:  math.Max(0, attack),
		decay:   math.Max(0, decay),
		sustain: math.Max(0, math.Min(1, sustain)),
		release: math.Max(0, release),
	}
}

// Sustain returns the sustain level.
func (e *ADSR) Sustain() float64 {
	return e.sustain
}

// LoopStart returns the time offset where the loop region begins.
func (e *ADSR) LoopStart() float64 {
	return e.attack + e.decay
}

// OneShot reports whether the envelope has no sustain and therefore no
// loopable region.
func (e *ADSR) OneShot() bool {
	return e.sustain == 0
}

// Amplitude returns the envelope level at time t within a buffer of the
// given duration, both in seconds.
func (e *ADSR) Amplitude(t, duration float64) float64 {
	if t < 0 || t >= duration {
		return 0
	}

	if t < e.attack {
		return t / e.attack
	}
	t -= e.attack

	if e.sustain == 0 {
		// One-shot: a single fall from peak across decay+release.
		tail := e.decay + e.release
		if tail <= 0 || t >= tail {
			return 0
		}
		return 1.0 - t/tail
	}

	if t < e.decay {
		return 1.0 - (1.0-e.sustain)*(t/e.decay)
	}

	releaseStart := duration - e.release
	abs := t + e.attack
	if abs < releaseStart || e.release <= 0 {
		return e.sustain
	}
	remaining := 1.0 - (abs-releaseStart)/e.release
	if remaining < 0 {
		return 0
	}
	return e.sustain * remaining
}

// Apply multiplies a buffer by the envelope sampled at each sample instant.
func (e *ADSR) Apply(buffer []float64, sampleRate float64) {
	duration := float64(len(buffer)) / sampleRate
	for i := range buffer {
		buffer[i] *= e.Amplitude(float64(i)/sampleRate, duration)
	}
}

// Curve fills a buffer with the envelope values themselves, used for pitch
// envelopes and modulation curves.
func (e *ADSR) Curve(n int, sampleRate float64) []float64 {
	duration := float64(n) / sampleRate
	out := make([]float64, n)
	for i := range out {
		out[i] = e.Amplitude(float64(i)/sampleRate, duration)
	}
	return out
}
