package synth

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/filter"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/noise"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/osc"
)

// genVocoder pushes a carrier through a bank of bandpass filters, each band
// shaped by its own slow amplitude envelope. The envelopes are seeded
// sine movements at band-specific rates, which gives the talking-machine
// motion without an external modulator signal.
func genVocoder(g *gen) {
	bands := g.p.Bands
	if bands < 2 {
		bands = 8
	} else if bands > 32 {
		bands = 32
	}

	const loFreq, hiFreq = 200.0, 4000.0
	centers := make([]float64, bands)
	for b := range centers {
		t := float64(b) / float64(bands-1)
		if g.p.Spacing == "linear" {
			centers[b] = loFreq + (hiFreq-loFreq)*t
		} else {
			centers[b] = loFreq * math.Pow(hiFreq/loFreq, t)
		}
	}

	filters := make([]*filter.Biquad, bands)
	envRates := make([]float64, bands)
	envPhases := make([]float64, bands)
	for b := range filters {
		filters[b] = filter.NewBiquad()
		filters[b].SetBandpass(g.sampleRate, centers[b], 6.0)
		envRates[b] = g.rng.Range(0.5, 4.0)
		envPhases[b] = g.rng.Float64()
	}

	var carrierNoise *noise.Generator
	if g.p.Carrier == "noise" {
		carrierNoise = noise.New(noise.White, g.rng)
	}
	carrierWave := osc.Sawtooth
	if g.p.Carrier == "pulse" {
		carrierWave = osc.Pulse
	}
	o := osc.New(g.sampleRate)

	scale := 2.0 / float64(bands)
	for i := range g.out {
		var carrier float64
		if carrierNoise != nil {
			carrier = carrierNoise.Next()
		} else {
			carrier = o.Next(carrierWave, g.freqAt(i), 0.3)
		}

		t := float64(i) / g.sampleRate
		var sum float64
		for b := range filters {
			env := 0.5 + 0.5*math.Sin(2.0*math.Pi*(envRates[b]*t+envPhases[b]))
			sum += filters[b].Tick(carrier) * env * env
		}
		g.out[i] = sum * scale
	}
}

// genFormant runs a glottal-style pulse source, plus breath noise, through
// the vowel formant bank, optionally morphing to a second vowel across the
// buffer.
func genFormant(g *gen) {
	breath := g.p.Breathiness
	if breath < 0 {
		breath = 0
	} else if breath > 1 {
		breath = 1
	}

	bank := filter.NewFormantBank(g.sampleRate, g.p.Vowel, 1.0)
	breathNoise := noise.New(noise.White, g.rng)
	o := osc.New(g.sampleRate)

	morphing := g.p.VowelEnd != "" && g.p.VowelEnd != g.p.Vowel
	// Retuning three biquads every sample is wasteful; a small block is
	// indistinguishable at morph rates.
	const morphBlock = 64

	for i := range g.out {
		if morphing && i%morphBlock == 0 {
			t := float64(i) / float64(g.n)
			bank.SetFormants(filter.MorphFormants(g.p.Vowel, g.p.VowelEnd, t))
		}
		src := o.Next(osc.Pulse, g.freqAt(i), 0.1)*(1.0-breath) + breathNoise.Next()*breath
		g.out[i] = bank.Tick(src) * 1.5
	}
}

// genVosim emits squared-sine pulse trains inside each fundamental period,
// with exponential decay from pulse to pulse, the VOSIM vocal model.
func genVosim(g *gen) {
	formantFreq := g.p.FormantFreq
	if formantFreq <= 0 {
		formantFreq = 800.0
	}
	pulses := g.p.PulsesPerCycle
	if pulses < 1 {
		pulses = 3
	}
	decay := g.p.Decay
	if decay <= 0 || decay >= 1 {
		decay = 0.6
	}

	var periodPhase float64 // position inside the fundamental period, 0-1
	for i := range g.out {
		f := g.freqAt(i)
		period := g.sampleRate / f
		pulseLen := g.sampleRate / formantFreq

		// Which pulse inside the period are we in, and where?
		tIn := periodPhase * period
		pulseIdx := int(tIn / pulseLen)
		if pulseIdx < pulses {
			pt := math.Mod(tIn, pulseLen) / pulseLen
			s := math.Sin(math.Pi * pt)
			g.out[i] = s * s * math.Pow(decay, float64(pulseIdx))
		}

		periodPhase += 1.0 / period
		if periodPhase >= 1.0 {
			periodPhase -= math.Floor(periodPhase)
		}
	}
}
