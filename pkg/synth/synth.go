// Package synth implements the generator algorithms behind every synthesis
// layer type. Each generator is a pure function of (sample count, sample
// rate, parameters, derived random stream, modulation curves): rendering the
// same inputs twice produces identical buffers.
package synth

import (
	"fmt"
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/rng"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// Modulation carries the per-sample modulation curves the engine prepares
// from the pitch envelope and the layer LFO. Nil slices mean "unmodulated".
type Modulation struct {
	// FreqScale multiplies the controlling frequency per sample.
	FreqScale []float64
	// PulseWidth offsets the pulse duty cycle (or phase-distortion amount)
	// per sample.
	PulseWidth []float64
	// FMIndex offsets the FM modulation index per sample.
	FMIndex []float64
	// GrainSize and GrainDensity are bipolar curves sampled once per grain
	// at grain start, not per audio sample.
	GrainSize    []float64
	GrainDensity []float64
}

func (m *Modulation) freqScaleAt(i int) float64 {
	if m == nil || m.FreqScale == nil || i >= len(m.FreqScale) {
		return 1.0
	}
	return m.FreqScale[i]
}

func (m *Modulation) pulseWidthAt(base float64, i int) float64 {
	w := base
	if m != nil && m.PulseWidth != nil && i < len(m.PulseWidth) {
		w += m.PulseWidth[i]
	}
	if w < 0.05 {
		w = 0.05
	} else if w > 0.95 {
		w = 0.95
	}
	return w
}

func (m *Modulation) fmIndexAt(base float64, i int) float64 {
	idx := base
	if m != nil && m.FMIndex != nil && i < len(m.FMIndex) {
		idx += m.FMIndex[i]
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (m *Modulation) grainSizeScale(i int) float64 {
	return grainScale(m, i, func(m *Modulation) []float64 { return m.GrainSize })
}

func (m *Modulation) grainDensityScale(i int) float64 {
	return grainScale(m, i, func(m *Modulation) []float64 { return m.GrainDensity })
}

func grainScale(m *Modulation, i int, pick func(*Modulation) []float64) float64 {
	if m == nil {
		return 1.0
	}
	curve := pick(m)
	if curve == nil {
		return 1.0
	}
	if i >= len(curve) {
		i = len(curve) - 1
	}
	if i < 0 {
		return 1.0
	}
	s := 1.0 + curve[i]
	if s < 0.1 {
		s = 0.1
	}
	return s
}

// gen bundles the inputs a generator sees.
type gen struct {
	n          int
	sampleRate float64
	p          *spec.Synthesis
	mod        *Modulation
	rng        *rng.Stream
	out        []float64
}

// baseFrequency returns the layer frequency with a fallback default.
func (g *gen) baseFrequency() float64 {
	if g.p.Frequency > 0 {
		return g.p.Frequency
	}
	return 440.0
}

// freqAt returns the controlling frequency at sample i: the base frequency,
// swept per the freq_sweep curve, scaled by the pitch modulation curve.
func (g *gen) freqAt(i int) float64 {
	f := g.baseFrequency()
	if sw := g.p.FreqSweep; sw != nil && g.n > 1 {
		t := float64(i) / float64(g.n-1)
		end := sw.EndFreq
		if end <= 0 {
			end = f
		}
		if sw.Curve == "exponential" && f > 0 && end > 0 {
			f = f * math.Pow(end/f, t)
		} else {
			f = f + (end-f)*t
		}
	}
	f *= g.mod.freqScaleAt(i)
	if f < 0.01 {
		f = 0.01
	}
	nyquist := g.sampleRate / 2.0
	if f > nyquist {
		f = nyquist
	}
	return f
}

type generateFunc func(*gen)

// generators is the single dispatch table for all synthesis variants.
var generators = map[string]generateFunc{
	"oscillator":        genOscillator,
	"multi_oscillator":  genMultiOscillator,
	"wavetable":         genWavetable,
	"supersaw_unison":   genSupersaw,
	"additive":          genAdditive,
	"noise_burst":       genNoiseBurst,
	"fm_synth":          genFM,
	"am_synth":          genAM,
	"ring_mod_synth":    genRingMod,
	"feedback_fm":       genFeedbackFM,
	"pd_synth":          genPhaseDistortion,
	"karplus_strong":    genKarplusStrong,
	"waveguide":         genWaveguide,
	"bowed_string":      genBowedString,
	"membrane_drum":     genMembraneDrum,
	"comb_filter_synth": genCombSynth,
	"granular":          genGranular,
	"pulsar":            genPulsar,
	"spectral_freeze":   genSpectralFreeze,
	"modal":             genModal,
	"metallic":          genMetallic,
	"pitched_body":      genPitchedBody,
	"vocoder":           genVocoder,
	"formant":           genFormant,
	"vosim":             genVosim,
	"vector":            genVector,
}

// Generate renders n mono samples for the given synthesis parameters.
func Generate(n int, sampleRate float64, p *spec.Synthesis, mod *Modulation, stream *rng.Stream) ([]float64, error) {
	fn, ok := generators[p.Type]
	if !ok {
		return nil, fmt.Errorf("unknown synthesis type %q", p.Type)
	}
	g := &gen{
		n:          n,
		sampleRate: sampleRate,
		p:          p,
		mod:        mod,
		rng:        stream,
		out:        make([]float64, n),
	}
	fn(g)
	sanitize(g.out)
	return g.out, nil
}

// Types returns whether a synthesis type name is known.
func Types(name string) bool {
	_, ok := generators[name]
	return ok
}

// sanitize replaces any non-finite sample with silence. Generators guard
// their own feedback paths; this is the final contract that output never
// carries NaN or Inf.
func sanitize(buf []float64) {
	for i, s := range buf {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			buf[i] = 0
		}
	}
}
