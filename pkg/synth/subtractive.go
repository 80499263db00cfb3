package synth

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/noise"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/osc"
)

func genOscillator(g *gen) {
	w := osc.ParseWaveform(g.p.Waveform)
	duty := g.p.DutyCycle
	if duty <= 0 {
		duty = 0.5
	}
	o := osc.New(g.sampleRate)
	for i := range g.out {
		g.out[i] = o.Next(w, g.freqAt(i), g.mod.pulseWidthAt(duty, i))
	}
}

func genMultiOscillator(g *gen) {
	voices := g.p.Voices
	if voices < 1 {
		voices = 3
	}
	detune := g.p.DetuneCents
	if detune == 0 {
		detune = 10.0
	}
	w := osc.ParseWaveform(g.p.Waveform)
	duty := g.p.DutyCycle
	if duty <= 0 {
		duty = 0.5
	}

	oscs := make([]*osc.Oscillator, voices)
	ratios := make([]float64, voices)
	for v := range oscs {
		oscs[v] = osc.New(g.sampleRate)
		// Spread voices evenly across ±detune cents.
		var cents float64
		if voices > 1 {
			cents = detune * (2.0*float64(v)/float64(voices-1) - 1.0)
		}
		ratios[v] = math.Pow(2.0, cents/1200.0)
	}

	scale := 1.0 / float64(voices)
	for i := range g.out {
		f := g.freqAt(i)
		width := g.mod.pulseWidthAt(duty, i)
		var sum float64
		for v, o := range oscs {
			sum += o.Next(w, f*ratios[v], width)
		}
		g.out[i] = sum * scale
	}
}

const (
	wavetableFrames    = 64
	wavetableFrameSize = 2048
)

// wavetableBank holds 64 frames morphing from a pure sine to a bright
// sawtooth, each frame adding band-limited harmonics.
var wavetableBank = buildWavetableBank()

func buildWavetableBank() [][]float64 {
	bank := make([][]float64, wavetableFrames)
	for f := range bank {
		frame := make([]float64, wavetableFrameSize)
		harmonics := 1 + f
		var peak float64
		for i := range frame {
			phase := float64(i) / wavetableFrameSize
			var s float64
			for h := 1; h <= harmonics; h++ {
				s += math.Sin(2.0*math.Pi*float64(h)*phase) / float64(h)
			}
			frame[i] = s
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
		if peak > 0 {
			for i := range frame {
				frame[i] /= peak
			}
		}
		bank[f] = frame
	}
	return bank
}

func wavetableLookup(position, phase float64) float64 {
	if position < 0 {
		position = 0
	} else if position > 1 {
		position = 1
	}
	fpos := position * float64(wavetableFrames-1)
	frame := int(fpos)
	if frame >= wavetableFrames-1 {
		frame = wavetableFrames - 2
	}
	morph := fpos - float64(frame)

	idx := phase * wavetableFrameSize
	i0 := int(idx) % wavetableFrameSize
	i1 := (i0 + 1) % wavetableFrameSize
	frac := idx - math.Floor(idx)

	a := wavetableBank[frame][i0]*(1.0-frac) + wavetableBank[frame][i1]*frac
	b := wavetableBank[frame+1][i0]*(1.0-frac) + wavetableBank[frame+1][i1]*frac
	return a*(1.0-morph) + b*morph
}

func genWavetable(g *gen) {
	phase := 0.0
	for i := range g.out {
		g.out[i] = wavetableLookup(g.p.Position, phase)
		phase += g.freqAt(i) / g.sampleRate
		if phase >= 1.0 {
			phase -= math.Floor(phase)
		}
	}
}

func genSupersaw(g *gen) {
	voices := g.p.Voices
	if voices < 1 {
		voices = 7
	}
	detune := g.p.DetuneCents
	if detune == 0 {
		detune = 25.0
	}

	phases := make([]float64, voices)
	ratios := make([]float64, voices)
	for v := range ratios {
		var cents float64
		if voices > 1 {
			cents = detune * (2.0*float64(v)/float64(voices-1) - 1.0)
		}
		ratios[v] = math.Pow(2.0, cents/1200.0)
		// Stagger start phases so voices do not align into a click.
		phases[v] = float64(v) / float64(voices)
	}

	scale := 1.0 / float64(voices)
	for i := range g.out {
		f := g.freqAt(i)
		var sum float64
		for v := range phases {
			sum += 2.0*phases[v] - 1.0
			phases[v] += f * ratios[v] / g.sampleRate
			if phases[v] >= 1.0 {
				phases[v] -= math.Floor(phases[v])
			}
		}
		g.out[i] = sum * scale
	}
}

func genAdditive(g *gen) {
	harmonics := g.p.Harmonics
	if harmonics < 1 {
		harmonics = 16
	}
	rolloff := g.p.Rolloff
	if rolloff <= 0 {
		rolloff = 1.0
	}

	amps := make([]float64, harmonics)
	var norm float64
	for h := range amps {
		amps[h] = 1.0 / math.Pow(float64(h+1), rolloff)
		norm += amps[h]
	}

	phases := make([]float64, harmonics)
	nyquist := g.sampleRate / 2.0
	for i := range g.out {
		f := g.freqAt(i)
		var sum float64
		for h := range phases {
			hf := f * float64(h+1)
			if hf < nyquist {
				sum += amps[h] * math.Sin(2.0*math.Pi*phases[h])
			}
			phases[h] += hf / g.sampleRate
			if phases[h] >= 1.0 {
				phases[h] -= math.Floor(phases[h])
			}
		}
		g.out[i] = sum / norm
	}
}

func genNoiseBurst(g *gen) {
	noise.New(noise.ParseColor(g.p.NoiseColor), g.rng).Fill(g.out)
}
