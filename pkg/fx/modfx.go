package fx

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/delay"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/osc"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// modLFO is the small phase accumulator the modulated effects sweep with.
type modLFO struct {
	wave       osc.Waveform
	rate       float64
	phase      float64
	sampleRate float64
}

func newModLFO(wave osc.Waveform, rate, phase, sampleRate float64) *modLFO {
	return &modLFO{wave: wave, rate: rate, phase: phase - math.Floor(phase), sampleRate: sampleRate}
}

// next returns the bipolar LFO value and advances the phase.
func (l *modLFO) next() float64 {
	v := osc.Eval(l.wave, l.phase, 0.5)
	l.phase += l.rate / l.sampleRate
	if l.phase >= 1.0 {
		l.phase -= math.Floor(l.phase)
	}
	return v
}

// flanger sweeps a short delay around a modulatable center with feedback.
// The right channel runs the LFO a quarter cycle ahead for stereo movement.
type flanger struct {
	sampleRate float64
	centerMs   float64
	depthMs    float64
	feedback   float64
	mix        float64
	lineL      *delay.Line
	lineR      *delay.Line
	lfoL       *modLFO
	lfoR       *modLFO
	fbL, fbR   float64
	curves     *Curves
}

func newFlanger(e *spec.Effect, sampleRate float64, curves *Curves) *flanger {
	centerMs := clamp(defaultIfZero(e.TimeMs, 5.0), 0.5, 10.0)
	depthMs := clamp(defaultIfZero(e.DepthMs, 2.0), 0, 10.0)
	rate := clamp(defaultIfZero(e.RateHz, 0.5), 0.01, 20.0)
	// Center, depth and delay_time modulation all add up; size for the worst.
	maxMs := centerMs + depthMs + 30.0
	return &flanger{
		sampleRate: sampleRate,
		centerMs:   centerMs,
		depthMs:    depthMs,
		feedback:   clamp(e.Feedback, -0.99, 0.99),
		mix:        clamp(defaultIfZero(e.Mix, 0.5), 0, 1),
		lineL:      delay.New(maxMs/1000.0, sampleRate),
		lineR:      delay.New(maxMs/1000.0, sampleRate),
		lfoL:       newModLFO(osc.Triangle, rate, 0, sampleRate),
		lfoR:       newModLFO(osc.Triangle, rate, 0.25, sampleRate),
		curves:     curves,
	}
}

func (f *flanger) Process(left, right []float64) {
	for i := range left {
		center := clamp(f.centerMs+f.curves.delayTimeAt(i), 0.1, f.centerMs+30.0)

		inL := clamp(left[i]+f.fbL*f.feedback, -1.5, 1.5)
		inR := clamp(right[i]+f.fbR*f.feedback, -1.5, 1.5)
		f.lineL.Write(inL)
		f.lineR.Write(inR)

		msL := math.Max(0.1, center+f.depthMs*f.lfoL.next())
		msR := math.Max(0.1, center+f.depthMs*f.lfoR.next())
		wetL := f.lineL.Read(msL * f.sampleRate / 1000.0)
		wetR := f.lineR.Read(msR * f.sampleRate / 1000.0)
		f.fbL, f.fbR = wetL, wetR

		left[i] = left[i]*(1.0-f.mix) + wetL*f.mix
		right[i] = right[i]*(1.0-f.mix) + wetR*f.mix
	}
}

// chorus layers several delay taps swept by sine LFOs at staggered phases.
type chorus struct {
	sampleRate float64
	baseMs     float64
	depthMs    float64
	mix        float64
	lineL      *delay.Line
	lineR      *delay.Line
	lfos       []*modLFO
}

func newChorus(e *spec.Effect, sampleRate float64) *chorus {
	voices := e.Voices
	if voices < 1 {
		voices = 3
	} else if voices > 8 {
		voices = 8
	}
	baseMs := clamp(defaultIfZero(e.TimeMs, 20.0), 5.0, 50.0)
	depthMs := clamp(defaultIfZero(e.DepthMs, 5.0), 0, 20.0)
	rate := clamp(defaultIfZero(e.RateHz, 0.8), 0.01, 10.0)

	c := &chorus{
		sampleRate: sampleRate,
		baseMs:     baseMs,
		depthMs:    depthMs,
		mix:        clamp(defaultIfZero(e.Mix, 0.5), 0, 1),
		lineL:      delay.New((baseMs+depthMs+5.0)/1000.0, sampleRate),
		lineR:      delay.New((baseMs+depthMs+5.0)/1000.0, sampleRate),
		lfos:       make([]*modLFO, voices),
	}
	for v := range c.lfos {
		// Slightly detuned rates and spread phases keep voices independent.
		vRate := rate * (1.0 + 0.07*float64(v))
		c.lfos[v] = newModLFO(osc.Sine, vRate, float64(v)/float64(voices), sampleRate)
	}
	return c
}

func (c *chorus) Process(left, right []float64) {
	scale := 1.0 / float64(len(c.lfos))
	for i := range left {
		c.lineL.Write(left[i])
		c.lineR.Write(right[i])

		var wetL, wetR float64
		for v, lfo := range c.lfos {
			ms := c.baseMs + c.depthMs*0.5*(1.0+lfo.next())
			samples := ms * c.sampleRate / 1000.0
			// Odd voices pull from the opposite channel for width.
			if v%2 == 0 {
				wetL += c.lineL.Read(samples)
				wetR += c.lineR.Read(samples)
			} else {
				wetL += c.lineR.Read(samples)
				wetR += c.lineL.Read(samples)
			}
		}
		wetL *= scale
		wetR *= scale

		left[i] = left[i]*(1.0-c.mix) + wetL*c.mix
		right[i] = right[i]*(1.0-c.mix) + wetR*c.mix
	}
}

// allpass1 is the first-order allpass section the phaser cascades.
type allpass1 struct {
	coef float64
	z    float64
}

func (a *allpass1) tick(input float64) float64 {
	out := -a.coef*input + a.z
	a.z = input + a.coef*out
	return out
}

// phaser sweeps a cascade of first-order allpass stages between 200 Hz and
// 2 kHz and mixes the shifted signal back against the dry path.
type phaser struct {
	sampleRate float64
	depth      float64
	feedback   float64
	mix        float64
	stagesL    []*allpass1
	stagesR    []*allpass1
	lfoL       *modLFO
	lfoR       *modLFO
	fbL, fbR   float64
}

func newPhaser(e *spec.Effect, sampleRate float64) *phaser {
	stages := e.Stages
	if stages < 2 {
		stages = 4
	} else if stages > 12 {
		stages = 12
	}
	rate := clamp(defaultIfZero(e.RateHz, 0.4), 0.01, 10.0)
	p := &phaser{
		sampleRate: sampleRate,
		depth:      clamp(defaultIfZero(e.Depth, 1.0), 0, 1),
		feedback:   clamp(e.Feedback, -0.95, 0.95),
		mix:        clamp(defaultIfZero(e.Mix, 0.5), 0, 1),
		stagesL:    make([]*allpass1, stages),
		stagesR:    make([]*allpass1, stages),
		lfoL:       newModLFO(osc.Sine, rate, 0, sampleRate),
		lfoR:       newModLFO(osc.Sine, rate, 0.25, sampleRate),
	}
	for i := range p.stagesL {
		p.stagesL[i] = &allpass1{}
		p.stagesR[i] = &allpass1{}
	}
	return p
}

func (p *phaser) sweepCoef(lfo float64) float64 {
	// Exponential sweep between 200 Hz and 2 kHz, scaled by depth.
	freq := 200.0 * math.Pow(10.0, (lfo*0.5+0.5)*p.depth)
	t := math.Tan(math.Pi * freq / p.sampleRate)
	return (t - 1.0) / (t + 1.0)
}

func (p *phaser) Process(left, right []float64) {
	for i := range left {
		coefL := p.sweepCoef(p.lfoL.next())
		coefR := p.sweepCoef(p.lfoR.next())

		sL := clamp(left[i]+p.fbL*p.feedback, -1.5, 1.5)
		for _, st := range p.stagesL {
			st.coef = coefL
			sL = st.tick(sL)
		}
		sR := clamp(right[i]+p.fbR*p.feedback, -1.5, 1.5)
		for _, st := range p.stagesR {
			st.coef = coefR
			sR = st.tick(sR)
		}
		p.fbL, p.fbR = sL, sR

		left[i] = left[i]*(1.0-p.mix) + sL*p.mix
		right[i] = right[i]*(1.0-p.mix) + sR*p.mix
	}
}

// rotarySpeaker combines amplitude tremolo, pan movement and a short
// modulated delay that supplies the Doppler shift. Left and right run in
// opposite phase like a real horn.
type rotarySpeaker struct {
	sampleRate float64
	depth      float64
	lineL      *delay.Line
	lineR      *delay.Line
	lfo        *modLFO
}

func newRotarySpeaker(e *spec.Effect, sampleRate float64) *rotarySpeaker {
	rate := clamp(defaultIfZero(e.RateHz, 5.5), 0.1, 12.0)
	return &rotarySpeaker{
		sampleRate: sampleRate,
		depth:      clamp(defaultIfZero(e.Depth, 0.7), 0, 1),
		lineL:      delay.New(0.01, sampleRate),
		lineR:      delay.New(0.01, sampleRate),
		lfo:        newModLFO(osc.Sine, rate, 0, sampleRate),
	}
}

func (r *rotarySpeaker) Process(left, right []float64) {
	for i := range left {
		v := r.lfo.next()

		r.lineL.Write(left[i])
		r.lineR.Write(right[i])

		// Doppler: delay sweeps around 2 ms, opposite phase per side.
		msL := 2.0 + 1.5*r.depth*v
		msR := 2.0 - 1.5*r.depth*v
		sL := r.lineL.Read(msL * r.sampleRate / 1000.0)
		sR := r.lineR.Read(msR * r.sampleRate / 1000.0)

		// Tremolo plus pan movement.
		ampL := 1.0 - r.depth*0.5*(1.0+v)*0.5
		ampR := 1.0 - r.depth*0.5*(1.0-v)*0.5
		left[i] = sL * ampL
		right[i] = sR * ampR
	}
}

// ringMod multiplies the signal with a sine carrier.
type ringMod struct {
	mix     float64
	carrier *modLFO
}

func newRingMod(e *spec.Effect, sampleRate float64) *ringMod {
	freq := defaultIfZero(e.Frequency, 200.0)
	return &ringMod{
		mix:     clamp(defaultIfZero(e.Mix, 1.0), 0, 1),
		carrier: newModLFO(osc.Sine, freq, 0, sampleRate),
	}
}

func (r *ringMod) Process(left, right []float64) {
	for i := range left {
		c := r.carrier.next()
		left[i] = left[i]*(1.0-r.mix) + left[i]*c*r.mix
		right[i] = right[i]*(1.0-r.mix) + right[i]*c*r.mix
	}
}
