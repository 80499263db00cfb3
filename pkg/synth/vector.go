package synth

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/osc"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// vectorPosition resolves the 2D mix position at time t. With no path the
// position is fixed. Path segments run back to back, each moving toward its
// point over the segment duration with the segment's interpolation curve.
// After the last segment the position holds at the final point.
func vectorPosition(p *spec.Synthesis, t float64) (x, y float64) {
	x, y = clamp01(p.X), clamp01(p.Y)
	if len(p.Path) == 0 {
		return x, y
	}
	for _, seg := range p.Path {
		dur := seg.Duration
		if dur <= 0 {
			x, y = clamp01(seg.X), clamp01(seg.Y)
			continue
		}
		if t >= dur {
			t -= dur
			x, y = clamp01(seg.X), clamp01(seg.Y)
			continue
		}
		frac := t / dur
		if seg.Curve == "exponential" {
			frac = frac * frac
		}
		tx, ty := clamp01(seg.X), clamp01(seg.Y)
		return x + (tx-x)*frac, y + (ty-y)*frac
	}
	return x, y
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// genVector cross-fades four corner oscillators by a 2D position. Corner
// order is [A,B,C,D] = bottom-left, bottom-right, top-left, top-right, so
// x fades left to right and y fades bottom to top.
func genVector(g *gen) {
	defaults := [4]osc.Waveform{osc.Sine, osc.Sawtooth, osc.Square, osc.Triangle}
	var waves [4]osc.Waveform
	for i := range waves {
		if g.p.Corners[i] != "" {
			waves[i] = osc.ParseWaveform(g.p.Corners[i])
		} else {
			waves[i] = defaults[i]
		}
	}

	// One shared phase keeps the corners coherent so the crossfade only
	// changes timbre, not pitch.
	var phase float64
	for i := range g.out {
		t := float64(i) / g.sampleRate
		x, y := vectorPosition(g.p, t)

		a := osc.Eval(waves[0], phase, 0.5) * (1 - x) * (1 - y)
		b := osc.Eval(waves[1], phase, 0.5) * x * (1 - y)
		c := osc.Eval(waves[2], phase, 0.5) * (1 - x) * y
		d := osc.Eval(waves[3], phase, 0.5) * x * y
		g.out[i] = a + b + c + d

		phase += g.freqAt(i) / g.sampleRate
		if phase >= 1.0 {
			phase -= math.Floor(phase)
		}
	}
}
