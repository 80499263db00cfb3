package synth

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/delay"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/noise"
)

func genKarplusStrong(g *gen) {
	damping := g.p.Damping
	if damping <= 0 {
		damping = 0.996
	} else if damping > 0.9999 {
		damping = 0.9999
	}

	line := delay.New(1.0, g.sampleRate)
	exciter := noise.New(noise.White, g.rng)

	// The pluck: one period of noise pushed into the loop.
	burstLen := int(g.sampleRate / g.baseFrequency())
	if burstLen < 2 {
		burstLen = 2
	}

	var prev float64
	for i := range g.out {
		delaySamples := g.sampleRate/g.freqAt(i) - 1.0
		if delaySamples < 2.0 {
			delaySamples = 2.0
		}
		delayed := line.Read(delaySamples)

		// One-pole damping averages two loop samples.
		filtered := damping * 0.5 * (delayed + prev)
		prev = delayed

		var excite float64
		if i < burstLen {
			excite = exciter.Next()
		}
		line.Write(filtered + excite)
		g.out[i] = filtered + excite
	}
}

func genWaveguide(g *gen) {
	breath := g.p.Breathiness
	if breath <= 0 {
		breath = 0.3
	} else if breath > 1 {
		breath = 1
	}
	damping := g.p.Damping
	if damping <= 0 {
		damping = 0.95
	} else if damping > 0.999 {
		damping = 0.999
	}

	line := delay.New(1.0, g.sampleRate)
	breathNoise := noise.New(noise.White, g.rng)

	var tonePhase float64
	for i := range g.out {
		f := g.freqAt(i)
		delaySamples := g.sampleRate/f - 1.0
		if delaySamples < 2.0 {
			delaySamples = 2.0
		}
		delayed := line.Read(delaySamples)

		// Breath excitation mixes a soft tone with noise and is shaped by
		// the returning wave, the classic pressure-coupling trick.
		tone := math.Sin(2.0 * math.Pi * tonePhase)
		excitation := (tone*(1.0-breath) + breathNoise.Next()*breath) * 0.3
		fed := math.Tanh(delayed*damping + excitation)

		line.Write(fed)
		g.out[i] = fed

		tonePhase += f / g.sampleRate
		if tonePhase >= 1.0 {
			tonePhase -= math.Floor(tonePhase)
		}
	}
}

// genBowedString models stick-slip bowing with a bidirectional delay line
// split at the bow position. The friction curve sticks for small velocity
// differences and slips beyond them.
func genBowedString(g *gen) {
	pressure := g.p.BowPressure
	if pressure <= 0 {
		pressure = 0.5
	} else if pressure > 1 {
		pressure = 1
	}
	position := g.p.BowPosition
	if position <= 0 || position >= 1 {
		position = 0.25
	}

	nutSide := delay.New(1.0, g.sampleRate)
	bridgeSide := delay.New(1.0, g.sampleRate)
	bowVelocity := 0.25 + 0.5*pressure

	for i := range g.out {
		f := g.freqAt(i)
		total := g.sampleRate / f
		nutDelay := total * position
		bridgeDelay := total * (1.0 - position)
		if nutDelay < 2.0 {
			nutDelay = 2.0
		}
		if bridgeDelay < 2.0 {
			bridgeDelay = 2.0
		}

		// Waves arriving at the bow point from both ends, with inverting
		// reflections at nut and bridge.
		fromNut := -nutSide.Read(nutDelay)
		fromBridge := -bridgeSide.Read(bridgeDelay) * 0.98

		stringVelocity := fromNut + fromBridge
		dv := bowVelocity - stringVelocity

		// Stick-slip friction: strong coupling near zero velocity
		// difference, rapidly weakening as the string slips.
		friction := dv * pressure / (1.0 + dv*dv*16.0)

		nutSide.Write(fromBridge + friction)
		bridgeSide.Write(fromNut + friction)
		g.out[i] = math.Tanh(fromBridge * 2.0)
	}
}

// membraneRatios are the first nine mode frequency ratios of an ideal
// circular membrane, from the Bessel function zeros.
var membraneRatios = [9]float64{
	1.0, 1.594, 2.136, 2.296, 2.653, 2.918, 3.156, 3.501, 3.600,
}

func genMembraneDrum(g *gen) {
	baseDecay := g.p.Decay
	if baseDecay <= 0 {
		baseDecay = 0.4
	}

	type mode struct {
		phase, inc0, amp, decayRate float64
	}
	modes := make([]mode, len(membraneRatios))
	for k, ratio := range membraneRatios {
		modes[k] = mode{
			inc0: ratio,
			amp:  1.0 / (1.0 + float64(k)*0.7),
			// Higher modes die faster, like a real head.
			decayRate: 1.0 / (baseDecay / (1.0 + float64(k)*0.5)),
		}
	}

	var norm float64
	for _, m := range modes {
		norm += m.amp
	}

	for i := range g.out {
		f := g.freqAt(i)
		t := float64(i) / g.sampleRate
		var sum float64
		for k := range modes {
			m := &modes[k]
			sum += m.amp * math.Exp(-t*m.decayRate) * math.Sin(2.0*math.Pi*m.phase)
			m.phase += f * m.inc0 / g.sampleRate
			if m.phase >= 1.0 {
				m.phase -= math.Floor(m.phase)
			}
		}
		g.out[i] = sum / norm
	}
}

func genCombSynth(g *gen) {
	damping := g.p.Damping
	if damping <= 0 {
		damping = 0.9
	} else if damping > 0.99 {
		damping = 0.99
	}

	line := delay.New(1.0, g.sampleRate)
	exciter := noise.New(noise.ParseColor(g.p.NoiseColor), g.rng)

	// Excite for a quarter of the buffer, then let the comb ring.
	exciteLen := g.n / 4
	if exciteLen < 1 {
		exciteLen = 1
	}

	for i := range g.out {
		delaySamples := g.sampleRate / g.freqAt(i)
		if delaySamples < 2.0 {
			delaySamples = 2.0
		}
		delayed := line.Read(delaySamples)

		var excite float64
		if i < exciteLen {
			excite = exciter.Next() * 0.5
		}
		fed := excite + delayed*damping
		line.Write(fed)
		g.out[i] = fed
	}
}
