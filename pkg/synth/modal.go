package synth

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/noise"
)

// resonatorMode is one decaying sinusoid of a resonance bank.
type resonatorMode struct {
	ratio float64
	amp   float64
	decay float64 // decay time in seconds
}

// renderModes sums the bank, each mode tracking the swept base frequency.
func renderModes(g *gen, modes []resonatorMode) {
	phases := make([]float64, len(modes))
	var norm float64
	for _, m := range modes {
		norm += m.amp
	}
	if norm <= 0 {
		norm = 1
	}

	for i := range g.out {
		f := g.freqAt(i)
		t := float64(i) / g.sampleRate
		var sum float64
		for k := range modes {
			m := &modes[k]
			sum += m.amp * math.Exp(-t/m.decay) * math.Sin(2.0*math.Pi*phases[k])
			phases[k] += f * m.ratio / g.sampleRate
			if phases[k] >= 1.0 {
				phases[k] -= math.Floor(phases[k])
			}
		}
		g.out[i] = sum / norm
	}
}

// barRatios are the transverse mode ratios of a struck uniform bar.
var barRatios = []float64{1.0, 2.756, 5.404, 8.933}

func genModal(g *gen) {
	baseDecay := g.p.Decay
	if baseDecay <= 0 {
		baseDecay = 0.8
	}
	inharm := g.p.Inharmonicity

	modes := make([]resonatorMode, len(barRatios))
	for k, r := range barRatios {
		modes[k] = resonatorMode{
			ratio: r * (1.0 + inharm*float64(k)*0.02),
			amp:   1.0 / float64(k+1),
			decay: baseDecay / math.Sqrt(float64(k+1)),
		}
	}
	renderModes(g, modes)
}

// metallicRatios are deliberately inharmonic, bell-like partials.
var metallicRatios = []float64{1.0, 2.32, 3.41, 4.17, 5.43, 6.79, 8.21}

func genMetallic(g *gen) {
	baseDecay := g.p.Decay
	if baseDecay <= 0 {
		baseDecay = 1.2
	}

	modes := make([]resonatorMode, len(metallicRatios))
	for k, r := range metallicRatios {
		modes[k] = resonatorMode{
			ratio: r,
			// Upper partials keep more energy than a bar, the shimmer.
			amp:   1.0 / (1.0 + float64(k)*0.4),
			decay: baseDecay * (1.0 - float64(k)*0.08),
		}
	}
	renderModes(g, modes)
}

// genPitchedBody is a struck-object model: a short seeded noise strike
// exciting a small harmonic body resonance bank.
func genPitchedBody(g *gen) {
	baseDecay := g.p.Decay
	if baseDecay <= 0 {
		baseDecay = 0.5
	}
	sharpness := g.p.StrikeSharpness
	if sharpness <= 0 {
		sharpness = 0.5
	} else if sharpness > 1 {
		sharpness = 1
	}

	bodyRatios := []float64{1.0, 1.48, 2.31, 3.17}
	modes := make([]resonatorMode, len(bodyRatios))
	for k, r := range bodyRatios {
		modes[k] = resonatorMode{
			ratio: r,
			amp:   1.0 / float64(k+1),
			decay: baseDecay / float64(k+1),
		}
	}
	renderModes(g, modes)

	// Strike transient: a brief decaying noise burst on top of the body.
	strike := noise.New(noise.White, g.rng)
	strikeLen := int(g.sampleRate * (0.002 + 0.02*(1.0-sharpness)))
	if strikeLen > g.n {
		strikeLen = g.n
	}
	for i := 0; i < strikeLen; i++ {
		env := 1.0 - float64(i)/float64(strikeLen)
		g.out[i] += strike.Next() * env * 0.6
	}
}
