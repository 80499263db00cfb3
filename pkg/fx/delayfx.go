package fx

import (
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/delay"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/fourier"
	"github.com/SpecCade/SpecCade-sub003/pkg/rng"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// maxDelayHeadroomMs bounds how far a modulated delay time may stretch past
// its base value.
const maxDelayHeadroomMs = 1000.0

// delayFx is a stereo feedback delay with a modulatable delay time.
type delayFx struct {
	sampleRate float64
	timeMs     float64
	maxMs      float64
	feedback   float64
	mix        float64
	lineL      *delay.Line
	lineR      *delay.Line
	curves     *Curves
}

func newDelay(e *spec.Effect, sampleRate float64, curves *Curves) *delayFx {
	timeMs := defaultIfZero(e.TimeMs, 300.0)
	maxMs := timeMs + maxDelayHeadroomMs
	return &delayFx{
		sampleRate: sampleRate,
		timeMs:     timeMs,
		maxMs:      maxMs,
		feedback:   clamp(e.Feedback, 0, 0.99),
		mix:        clamp(defaultIfZero(e.Mix, 0.35), 0, 1),
		lineL:      delay.New(maxMs/1000.0, sampleRate),
		lineR:      delay.New(maxMs/1000.0, sampleRate),
		curves:     curves,
	}
}

func (d *delayFx) Process(left, right []float64) {
	for i := range left {
		ms := clamp(d.timeMs+d.curves.delayTimeAt(i), 1.0, d.maxMs)
		samples := ms * d.sampleRate / 1000.0

		wetL := d.lineL.Read(samples)
		wetR := d.lineR.Read(samples)
		d.lineL.Write(left[i] + wetL*d.feedback)
		d.lineR.Write(right[i] + wetR*d.feedback)

		left[i] = left[i]*(1.0-d.mix) + wetL*d.mix
		right[i] = right[i]*(1.0-d.mix) + wetR*d.mix
	}
}

// multiTapDelay reads several taps at multiples of the base time, each
// quieter than the last. Feedback is taken from the first tap.
type multiTapDelay struct {
	sampleRate float64
	timeMs     float64
	maxMs      float64
	spread     float64
	taps       int
	feedback   float64
	mix        float64
	lineL      *delay.Line
	lineR      *delay.Line
	curves     *Curves
}

func newMultiTapDelay(e *spec.Effect, sampleRate float64, curves *Curves) *multiTapDelay {
	taps := e.Taps
	if taps < 1 {
		taps = 3
	} else if taps > 8 {
		taps = 8
	}
	timeMs := defaultIfZero(e.TimeMs, 150.0)
	spread := defaultIfZero(e.Spread, 1.0)
	maxMs := timeMs*float64(taps)*spread + maxDelayHeadroomMs
	return &multiTapDelay{
		sampleRate: sampleRate,
		timeMs:     timeMs,
		maxMs:      maxMs,
		spread:     spread,
		taps:       taps,
		feedback:   clamp(e.Feedback, 0, 0.99),
		mix:        clamp(defaultIfZero(e.Mix, 0.35), 0, 1),
		lineL:      delay.New(maxMs/1000.0, sampleRate),
		lineR:      delay.New(maxMs/1000.0, sampleRate),
		curves:     curves,
	}
}

func (d *multiTapDelay) Process(left, right []float64) {
	for i := range left {
		base := clamp(d.timeMs+d.curves.delayTimeAt(i), 1.0, d.maxMs/(float64(d.taps)*d.spread))

		var wetL, wetR, fbL, fbR float64
		gain := 1.0
		for t := 1; t <= d.taps; t++ {
			ms := base * float64(t) * d.spread
			samples := ms * d.sampleRate / 1000.0
			tl := d.lineL.Read(samples)
			tr := d.lineR.Read(samples)
			// Alternate taps left and right for a ping-pong spread.
			if t%2 == 0 {
				tl, tr = tr, tl
			}
			wetL += tl * gain
			wetR += tr * gain
			if t == 1 {
				fbL, fbR = tl, tr
			}
			gain *= 0.6
		}

		d.lineL.Write(left[i] + fbL*d.feedback)
		d.lineR.Write(right[i] + fbR*d.feedback)

		left[i] = left[i]*(1.0-d.mix) + wetL*d.mix
		right[i] = right[i]*(1.0-d.mix) + wetR*d.mix
	}
}

// granularDelay reads Hann-windowed grains from the delay buffer at jittered
// offsets around the base time. Two staggered grain readers per channel keep
// the wet signal continuous. All jitter comes from the effect's own derived
// stream, so the texture is reproducible.
type granularDelay struct {
	sampleRate float64
	timeMs     float64
	maxMs      float64
	grainLen   int
	feedback   float64
	mix        float64
	lineL      *delay.Line
	lineR      *delay.Line
	stream     *rng.Stream
	curves     *Curves

	// Two readers, half a grain apart.
	pos    [2]int     // sample position inside current grain
	offset [2]float64 // jittered extra delay in ms for the current grain
}

func newGranularDelay(e *spec.Effect, sampleRate float64, stream *rng.Stream, curves *Curves) *granularDelay {
	timeMs := defaultIfZero(e.TimeMs, 250.0)
	grainMs := defaultIfZero(e.GrainSizeMs, 80.0)
	grainLen := int(grainMs * sampleRate / 1000.0)
	if grainLen < 8 {
		grainLen = 8
	}
	maxMs := timeMs + maxDelayHeadroomMs
	g := &granularDelay{
		sampleRate: sampleRate,
		timeMs:     timeMs,
		maxMs:      maxMs,
		grainLen:   grainLen,
		feedback:   clamp(e.Feedback, 0, 0.99),
		mix:        clamp(defaultIfZero(e.Mix, 0.4), 0, 1),
		lineL:      delay.New(maxMs/1000.0, sampleRate),
		lineR:      delay.New(maxMs/1000.0, sampleRate),
		stream:     stream,
		curves:     curves,
	}
	// Stagger the second reader by half a grain.
	g.pos[1] = grainLen / 2
	g.offset[0] = g.jitterMs()
	g.offset[1] = g.jitterMs()
	return g
}

func (g *granularDelay) jitterMs() float64 {
	return g.stream.Bipolar() * 30.0
}

func (g *granularDelay) Process(left, right []float64) {
	for i := range left {
		base := clamp(g.timeMs+g.curves.delayTimeAt(i), 1.0, g.maxMs-40.0)

		var wetL, wetR float64
		for r := 0; r < 2; r++ {
			if g.pos[r] >= g.grainLen {
				g.pos[r] = 0
				g.offset[r] = g.jitterMs()
			}
			w := fourier.HannValue(g.pos[r], g.grainLen)
			ms := clamp(base+g.offset[r], 1.0, g.maxMs)
			samples := ms * g.sampleRate / 1000.0
			wetL += g.lineL.Read(samples) * w
			wetR += g.lineR.Read(samples) * w
			g.pos[r]++
		}

		g.lineL.Write(left[i] + wetL*g.feedback)
		g.lineR.Write(right[i] + wetR*g.feedback)

		left[i] = left[i]*(1.0-g.mix) + wetL*g.mix
		right[i] = right[i]*(1.0-g.mix) + wetR*g.mix
	}
}
