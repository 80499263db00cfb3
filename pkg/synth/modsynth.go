package synth

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/mix"
)

// MaxFMFeedback caps feedback-FM self-modulation for stability.
const MaxFMFeedback = 0.99

func genFM(g *gen) {
	ratio := g.p.ModRatio
	if ratio <= 0 {
		ratio = 2.0
	}
	index := g.p.ModIndex
	if index <= 0 {
		index = 2.0
	}

	var carrierPhase, modPhase float64
	for i := range g.out {
		f := g.freqAt(i)
		idx := g.mod.fmIndexAt(index, i)
		g.out[i] = math.Sin(2.0*math.Pi*carrierPhase + idx*math.Sin(2.0*math.Pi*modPhase))
		carrierPhase += f / g.sampleRate
		modPhase += f * ratio / g.sampleRate
		if carrierPhase >= 1.0 {
			carrierPhase -= math.Floor(carrierPhase)
		}
		if modPhase >= 1.0 {
			modPhase -= math.Floor(modPhase)
		}
	}
}

func genAM(g *gen) {
	ratio := g.p.ModRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	depth := g.p.ModDepth
	if depth <= 0 {
		depth = 0.5
	} else if depth > 1 {
		depth = 1
	}

	var carrierPhase, modPhase float64
	for i := range g.out {
		f := g.freqAt(i)
		// Unipolar modulator keeps the envelope non-negative.
		m := 0.5 + 0.5*math.Sin(2.0*math.Pi*modPhase)
		g.out[i] = math.Sin(2.0*math.Pi*carrierPhase) * (1.0 - depth + depth*m)
		carrierPhase += f / g.sampleRate
		modPhase += f * ratio / g.sampleRate
		if carrierPhase >= 1.0 {
			carrierPhase -= math.Floor(carrierPhase)
		}
		if modPhase >= 1.0 {
			modPhase -= math.Floor(modPhase)
		}
	}
}

func genRingMod(g *gen) {
	modFreq := g.p.ModFreq
	if modFreq <= 0 {
		modFreq = g.baseFrequency() * 1.5
	}
	wet := g.p.Mix
	if wet <= 0 {
		wet = 0.5
	} else if wet > 1 {
		wet = 1
	}

	var carrierPhase, modPhase float64
	for i := range g.out {
		f := g.freqAt(i)
		carrier := math.Sin(2.0 * math.Pi * carrierPhase)
		ring := carrier * math.Sin(2.0*math.Pi*modPhase)
		g.out[i] = mix.DryWet(carrier, ring, wet)
		carrierPhase += f / g.sampleRate
		modPhase += modFreq / g.sampleRate
		if carrierPhase >= 1.0 {
			carrierPhase -= math.Floor(carrierPhase)
		}
		if modPhase >= 1.0 {
			modPhase -= math.Floor(modPhase)
		}
	}
}

func genFeedbackFM(g *gen) {
	feedback := g.p.Feedback
	if feedback <= 0 {
		feedback = 0.5
	}
	if feedback > MaxFMFeedback {
		feedback = MaxFMFeedback
	}

	var phase, prev float64
	for i := range g.out {
		f := g.freqAt(i)
		fb := g.mod.fmIndexAt(feedback, i)
		if fb > MaxFMFeedback {
			fb = MaxFMFeedback
		}
		out := math.Sin(2.0*math.Pi*phase + fb*prev)
		g.out[i] = out
		prev = out
		phase += f / g.sampleRate
		if phase >= 1.0 {
			phase -= math.Floor(phase)
		}
	}
}

// genPhaseDistortion implements Casio-style phase distortion: the readout
// phase is bent around a moving breakpoint, sharpening a cosine into a
// saw-like spectrum as distortion rises.
func genPhaseDistortion(g *gen) {
	amount := g.p.Distortion
	if amount < 0 {
		amount = 0
	} else if amount > 1 {
		amount = 1
	}

	var phase float64
	for i := range g.out {
		d := amount
		if g.mod.PulseWidth != nil {
			d = g.mod.pulseWidthAt(amount, i)
		}
		// Breakpoint slides from 0.5 (no distortion) toward 0.02.
		breakpoint := 0.5 - 0.48*d

		var warped float64
		if phase < breakpoint {
			warped = 0.5 * phase / breakpoint
		} else {
			warped = 0.5 + 0.5*(phase-breakpoint)/(1.0-breakpoint)
		}
		g.out[i] = -math.Cos(2.0 * math.Pi * warped)

		phase += g.freqAt(i) / g.sampleRate
		if phase >= 1.0 {
			phase -= math.Floor(phase)
		}
	}
}
