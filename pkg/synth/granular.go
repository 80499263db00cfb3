package synth

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/fourier"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/osc"
)

// grain is one scheduled windowed fragment.
type grain struct {
	start  int     // sample offset of grain onset
	length int     // grain length in samples
	freq   float64 // oscillator frequency inside the grain
	amp    float64
}

// renderGrains sums Hann-windowed sine grains into the output buffer.
func renderGrains(g *gen, grains []grain) {
	for _, gr := range grains {
		if gr.length < 2 {
			continue
		}
		phase := 0.0
		for j := 0; j < gr.length; j++ {
			i := gr.start + j
			if i < 0 {
				continue
			}
			if i >= g.n {
				break
			}
			w := fourier.HannValue(j, gr.length)
			g.out[i] += gr.amp * w * math.Sin(2.0*math.Pi*phase)
			phase += gr.freq / g.sampleRate
			if phase >= 1.0 {
				phase -= math.Floor(phase)
			}
		}
	}
}

// genGranular schedules grains at the configured density with seeded
// timing, pitch and amplitude jitter. Jitter draws happen in a fixed order
// per grain (timing, pitch, amplitude) so the stream stays reproducible.
func genGranular(g *gen) {
	density := g.p.GrainDensity
	if density <= 0 {
		density = 20.0
	}
	sizeMs := g.p.GrainSizeMs
	if sizeMs <= 0 {
		sizeMs = 60.0
	}
	jitter := g.p.Jitter
	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}

	var grains []grain
	cursor := 0.0
	for cursor < float64(g.n) {
		onset := int(cursor)

		// Grain-rate modulation samples once per grain at its onset.
		size := sizeMs / 1000.0 * g.sampleRate * g.mod.grainSizeScale(onset)
		rate := density * g.mod.grainDensityScale(onset)
		if rate < 0.1 {
			rate = 0.1
		}
		period := g.sampleRate / rate

		timingJitter := g.rng.Bipolar() * jitter * period * 0.5
		pitchJitter := math.Pow(2.0, g.rng.Bipolar()*jitter/12.0)
		ampJitter := 1.0 - g.rng.Float64()*jitter*0.5

		grains = append(grains, grain{
			start:  onset + int(timingJitter),
			length: int(size),
			freq:   g.freqAt(onset) * pitchJitter,
			amp:    ampJitter * 0.8,
		})
		cursor += period
	}
	renderGrains(g, grains)
}

// genPulsar emits a strictly periodic grain train; pulsar grains carry no
// jitter at all.
func genPulsar(g *gen) {
	rate := g.p.PulseRate
	if rate <= 0 {
		rate = 40.0
	}
	sizeMs := g.p.GrainSizeMs
	if sizeMs <= 0 {
		sizeMs = 15.0
	}

	var grains []grain
	cursor := 0.0
	for cursor < float64(g.n) {
		onset := int(cursor)
		size := sizeMs / 1000.0 * g.sampleRate * g.mod.grainSizeScale(onset)
		r := rate * g.mod.grainDensityScale(onset)
		if r < 0.1 {
			r = 0.1
		}
		grains = append(grains, grain{
			start:  onset,
			length: int(size),
			freq:   g.freqAt(onset),
			amp:    0.9,
		})
		cursor += g.sampleRate / r
	}
	renderGrains(g, grains)
}

const (
	spectralFrameSize = 2048
	spectralHop       = 512
)

// genSpectralFreeze captures one deterministic frame, transforms it, and
// resynthesizes the frozen spectrum by overlap-adding the inverse transform
// at a fixed hop, normalized by the window overlap sum.
func genSpectralFreeze(g *gen) {
	frame := make([]float64, spectralFrameSize)
	switch g.p.Source {
	case "tone":
		o := osc.New(g.sampleRate)
		f := g.baseFrequency()
		for i := range frame {
			frame[i] = o.Next(osc.Sawtooth, f, 0.5)
		}
	default:
		for i := range frame {
			frame[i] = g.rng.Bipolar()
		}
	}
	fourier.HannWindow(frame)

	fft := fourier.New(spectralFrameSize)
	spectrum := make([]complex128, spectralFrameSize)
	for i, s := range frame {
		spectrum[i] = complex(s, 0)
	}
	fft.Forward(spectrum)

	// Inverse once; the frozen frame is identical for every hop.
	fft.Inverse(spectrum)
	resynth := make([]float64, spectralFrameSize)
	for i := range resynth {
		resynth[i] = real(spectrum[i]) * fourier.HannValue(i, spectralFrameSize)
	}

	windowSum := make([]float64, g.n)
	for start := -spectralFrameSize + spectralHop; start < g.n; start += spectralHop {
		for j := 0; j < spectralFrameSize; j++ {
			i := start + j
			if i < 0 {
				continue
			}
			if i >= g.n {
				break
			}
			w := fourier.HannValue(j, spectralFrameSize)
			g.out[i] += resynth[j]
			windowSum[i] += w * w
		}
	}
	for i := range g.out {
		if windowSum[i] > 1e-9 {
			g.out[i] /= windowSum[i]
		}
	}
}
