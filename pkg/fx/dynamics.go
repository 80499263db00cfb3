package fx

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/envelope"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/filter"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// compressor is a feed-forward soft-knee compressor with linked stereo
// detection, so the image never shifts under gain reduction.
type compressor struct {
	threshold float64
	ratio     float64
	kneeWidth float64
	makeup    float64
	detector  *envelope.Detector
}

func newCompressor(e *spec.Effect, sampleRate float64) *compressor {
	d := envelope.NewDetector(sampleRate, envelope.ModePeak)
	attack := defaultIfZero(e.AttackMs, 5.0) / 1000.0
	release := defaultIfZero(e.ReleaseMs, 50.0) / 1000.0
	d.SetTimeConstants(attack, release)
	ratio := e.Ratio
	if ratio < 1 {
		ratio = 4.0
	}
	threshold := e.ThresholdDB
	if threshold == 0 {
		threshold = -20.0
	}
	return &compressor{
		threshold: threshold,
		ratio:     ratio,
		kneeWidth: 2.0,
		makeup:    e.MakeupDB,
		detector:  d,
	}
}

// gainReductionDB computes the reduction for a detected level in dB.
func (c *compressor) gainReductionDB(levelDB float64) float64 {
	if levelDB < c.threshold-c.kneeWidth/2 {
		return 0
	}
	if levelDB > c.threshold+c.kneeWidth/2 {
		return (levelDB - c.threshold) * (1.0 - 1.0/c.ratio)
	}
	kneePos := (levelDB - (c.threshold - c.kneeWidth/2)) / c.kneeWidth
	return kneePos * kneePos * (levelDB - c.threshold + c.kneeWidth/2) * (1.0 - 1.0/c.ratio) * 0.5
}

func (c *compressor) Process(left, right []float64) {
	for i := range left {
		level := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		env := c.detector.Detect(level)
		levelDB := -96.0
		if env > 0 {
			levelDB = 20.0 * math.Log10(env)
		}
		gain := math.Pow(10.0, (-c.gainReductionDB(levelDB)+c.makeup)/20.0)
		left[i] *= gain
		right[i] *= gain
	}
}

// limiter is a lookahead brickwall. The detector sees the input early, the
// signal is delayed by the lookahead, and a final clip guarantees the
// ceiling even against inter-coefficient rounding.
type limiter struct {
	ceiling   float64
	lookahead int
	bufL      []float64
	bufR      []float64
	index     int
	detector  *envelope.Detector
}

func newLimiter(e *spec.Effect, sampleRate float64) *limiter {
	ceilingDB := e.CeilingDB
	if ceilingDB == 0 {
		ceilingDB = -1.0
	}
	lookMs := defaultIfZero(e.LookaheadMs, 5.0)
	look := int(lookMs * sampleRate / 1000.0)
	if look < 1 {
		look = 1
	}
	d := envelope.NewDetector(sampleRate, envelope.ModePeak)
	// Attack must beat the lookahead so the gain is down before the peak
	// leaves the delay buffer.
	d.SetTimeConstants(lookMs/4000.0, defaultIfZero(e.ReleaseMs, 50.0)/1000.0)
	return &limiter{
		ceiling:   math.Pow(10.0, ceilingDB/20.0),
		lookahead: look,
		bufL:      make([]float64, look),
		bufR:      make([]float64, look),
		detector:  d,
	}
}

func (l *limiter) Process(left, right []float64) {
	// Flush continues past the input so the tail inside the delay buffer is
	// still limited; rendering is buffer-scoped so the delay residue beyond
	// the buffer end is simply dropped.
	for i := range left {
		level := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		env := l.detector.Detect(level)

		outL := l.bufL[l.index]
		outR := l.bufR[l.index]
		l.bufL[l.index] = left[i]
		l.bufR[l.index] = right[i]
		l.index++
		if l.index >= l.lookahead {
			l.index = 0
		}

		gain := 1.0
		if env > l.ceiling {
			gain = l.ceiling / env
		}
		left[i] = clamp(outL*gain, -l.ceiling, l.ceiling)
		right[i] = clamp(outR*gain, -l.ceiling, l.ceiling)
	}
}

// gate is a downward expander: signal below the threshold is pushed further
// down by the ratio instead of being hard-muted.
type gate struct {
	threshold float64
	ratio     float64
	detector  *envelope.Detector
}

func newGate(e *spec.Effect, sampleRate float64) *gate {
	threshold := e.ThresholdDB
	if threshold == 0 {
		threshold = -40.0
	}
	ratio := e.Ratio
	if ratio < 1 {
		ratio = 4.0
	}
	d := envelope.NewDetector(sampleRate, envelope.ModePeak)
	d.SetTimeConstants(defaultIfZero(e.AttackMs, 1.0)/1000.0, defaultIfZero(e.ReleaseMs, 100.0)/1000.0)
	return &gate{threshold: threshold, ratio: ratio, detector: d}
}

func (g *gate) Process(left, right []float64) {
	for i := range left {
		level := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		env := g.detector.Detect(level)
		levelDB := -96.0
		if env > 0 {
			levelDB = 20.0 * math.Log10(env)
		}
		gain := 1.0
		if levelDB < g.threshold {
			// Expand downward: every dB below threshold becomes ratio dB.
			reductionDB := (g.threshold - levelDB) * (g.ratio - 1.0)
			if reductionDB > 96.0 {
				reductionDB = 96.0
			}
			gain = math.Pow(10.0, -reductionDB/20.0)
		}
		left[i] *= gain
		right[i] *= gain
	}
}

// transientShaper splits the signal into attack and sustain portions with a
// fast and a slow follower, then gains them independently.
type transientShaper struct {
	attackGain  float64
	sustainGain float64
	fast        *envelope.Detector
	slow        *envelope.Detector
}

func newTransientShaper(e *spec.Effect, sampleRate float64) *transientShaper {
	fast := envelope.NewDetector(sampleRate, envelope.ModePeak)
	fast.SetTimeConstants(0.001, 0.020)
	slow := envelope.NewDetector(sampleRate, envelope.ModePeak)
	slow.SetTimeConstants(0.030, 0.150)
	return &transientShaper{
		attackGain:  clamp(defaultIfZero(e.AttackGain, 1.0), 0, 4),
		sustainGain: clamp(defaultIfZero(e.SustainGain, 1.0), 0, 4),
		fast:        fast,
		slow:        slow,
	}
}

func (t *transientShaper) Process(left, right []float64) {
	for i := range left {
		level := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		f := t.fast.Detect(level)
		s := t.slow.Detect(level)

		// The fast follower overshoots the slow one during attacks; use the
		// normalized excess to fade between the two gains.
		var transient float64
		if s > 1e-9 {
			transient = clamp((f-s)/s, 0, 1)
		}
		gain := t.sustainGain + (t.attackGain-t.sustainGain)*transient
		left[i] *= gain
		right[i] *= gain
	}
}

// autoFilter is an envelope-following lowpass: louder input opens the
// cutoff further above its base.
type autoFilter struct {
	sampleRate  float64
	baseCutoff  float64
	sensitivity float64
	detector    *envelope.Detector
	filterL     *filter.SVF
	filterR     *filter.SVF
}

func newAutoFilter(e *spec.Effect, sampleRate float64) *autoFilter {
	d := envelope.NewDetector(sampleRate, envelope.ModePeak)
	d.SetTimeConstants(defaultIfZero(e.AttackMs, 5.0)/1000.0, defaultIfZero(e.ReleaseMs, 100.0)/1000.0)
	a := &autoFilter{
		sampleRate:  sampleRate,
		baseCutoff:  defaultIfZero(e.BaseCutoff, 300.0),
		sensitivity: clamp(defaultIfZero(e.Sensitivity, 0.7), 0, 1),
		detector:    d,
		filterL:     filter.NewSVF(),
		filterR:     filter.NewSVF(),
	}
	q := clamp(defaultIfZero(e.ResonanceQ, 1.5), 0.1, 20)
	a.filterL.SetQ(q)
	a.filterR.SetQ(q)
	return a
}

func (a *autoFilter) Process(left, right []float64) {
	maxCutoff := math.Min(a.sampleRate*0.45, 12000.0)
	for i := range left {
		level := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		env := a.detector.Detect(level)
		cutoff := a.baseCutoff + env*a.sensitivity*(maxCutoff-a.baseCutoff)
		a.filterL.SetFrequency(a.sampleRate, cutoff)
		a.filterR.SetFrequency(a.sampleRate, cutoff)
		left[i] = a.filterL.Tick(left[i]).Lowpass
		right[i] = a.filterR.Tick(right[i]).Lowpass
	}
}
