// Package pan provides constant-power stereo panning for the mixer and the
// multi-tap delay.
package pan

import "math"

// Gains returns the left and right channel gains for a constant-power pan.
// pan is -1 hard left, 0 center, 1 hard right; values outside clamp.
func Gains(pan float64) (left, right float64) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	}
	angle := (pan + 1.0) * 0.25 * math.Pi
	return math.Cos(angle), math.Sin(angle)
}

// AddMono adds a mono buffer into stereo buffers with constant-power pan and
// a linear gain, starting at the given sample offset in the destination.
func AddMono(mono []float64, gain, pan float64, offset int, left, right []float64) {
	lg, rg := Gains(pan)
	lg *= gain
	rg *= gain
	for i, s := range mono {
		j := offset + i
		if j >= len(left) {
			break
		}
		left[j] += s * lg
		right[j] += s * rg
	}
}
