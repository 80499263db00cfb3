package fx

import (
	"math"

	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/delay"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/filter"
	"github.com/SpecCade/SpecCade-sub003/pkg/dsp/osc"
	"github.com/SpecCade/SpecCade-sub003/pkg/rng"
	"github.com/SpecCade/SpecCade-sub003/pkg/spec"
)

// waveshaper applies a per-sample nonlinear transfer curve with a
// modulatable drive. Asymmetric curves shift the signal off center, so
// those run through a DC blocker on the way out.
type waveshaper struct {
	curve  string
	drive  float64
	mix    float64
	dcL    *filter.DCBlock
	dcR    *filter.DCBlock
	curves *Curves
}

func newWaveshaper(e *spec.Effect, sampleRate float64, curves *Curves) *waveshaper {
	curve := e.Curve
	if curve == "" {
		curve = "soft"
	}
	w := &waveshaper{
		curve:  curve,
		drive:  math.Max(1.0, defaultIfZero(e.Drive, 2.0)),
		mix:    clamp(defaultIfZero(e.Mix, 1.0), 0, 1),
		curves: curves,
	}
	if curve == "asym" || curve == "saturate" {
		w.dcL = filter.NewDCBlock(sampleRate)
		w.dcR = filter.NewDCBlock(sampleRate)
	}
	return w
}

func shape(curve string, x float64) float64 {
	switch curve {
	case "hard":
		return clamp(x, -1, 1)
	case "fold":
		for x > 1.0 || x < -1.0 {
			if x > 1.0 {
				x = 2.0 - x
			}
			if x < -1.0 {
				x = -2.0 - x
			}
		}
		return x
	case "saturate":
		if x >= 0 {
			return 1.0 - math.Exp(-x)
		}
		return math.Exp(x) - 1.0
	case "asym":
		if x >= 0 {
			return math.Tanh(x)
		}
		return math.Tanh(x * 0.5)
	default: // "soft"
		return math.Tanh(x)
	}
}

func (w *waveshaper) Process(left, right []float64) {
	for i := range left {
		drive := math.Max(0.1, w.drive+w.curves.driveAt(i))
		sL := shape(w.curve, left[i]*drive)
		sR := shape(w.curve, right[i]*drive)
		if w.dcL != nil {
			sL = w.dcL.Tick(sL)
			sR = w.dcR.Tick(sR)
		}
		left[i] = left[i]*(1.0-w.mix) + sL*w.mix
		right[i] = right[i]*(1.0-w.mix) + sR*w.mix
	}
}

// bitcrush quantizes amplitude to a bit depth and holds samples to fake a
// lower sample rate.
type bitcrush struct {
	step       float64
	holdFactor int
	mix        float64
	holdCount  int
	heldL      float64
	heldR      float64
}

func newBitcrush(e *spec.Effect) *bitcrush {
	bits := clamp(defaultIfZero(e.BitDepth, 8.0), 1, 16)
	reduce := defaultIfZero(e.SampleRateReduce, 1.0)
	if reduce < 1 {
		reduce = 1
	}
	return &bitcrush{
		step:       2.0 / math.Pow(2.0, bits),
		holdFactor: int(reduce),
		mix:        clamp(defaultIfZero(e.Mix, 1.0), 0, 1),
	}
}

func (b *bitcrush) crush(x float64) float64 {
	return math.Round(clamp(x, -1, 1)/b.step) * b.step
}

func (b *bitcrush) Process(left, right []float64) {
	for i := range left {
		if b.holdCount == 0 {
			b.heldL = b.crush(left[i])
			b.heldR = b.crush(right[i])
		}
		b.holdCount++
		if b.holdCount >= b.holdFactor {
			b.holdCount = 0
		}
		left[i] = left[i]*(1.0-b.mix) + b.heldL*b.mix
		right[i] = right[i]*(1.0-b.mix) + b.heldR*b.mix
	}
}

// tapeSaturation is tanh saturation plus the tape artifacts: wow and
// flutter as a slow modulated delay, and seeded hiss from the effect's own
// stream so every render carries identical noise.
type tapeSaturation struct {
	sampleRate float64
	drive      float64
	wow        float64
	flutter    float64
	hissLevel  float64
	mix        float64
	lineL      *delay.Line
	lineR      *delay.Line
	wowLFO     *modLFO
	flutterLFO *modLFO
	hiss       *rng.Stream
	curves     *Curves
}

func newTapeSaturation(e *spec.Effect, sampleRate float64, stream *rng.Stream, curves *Curves) *tapeSaturation {
	return &tapeSaturation{
		sampleRate: sampleRate,
		drive:      math.Max(0.1, defaultIfZero(e.Drive, 1.5)),
		wow:        clamp(e.Wow, 0, 1),
		flutter:    clamp(e.Flutter, 0, 1),
		hissLevel:  clamp(e.HissLevel, 0, 1),
		mix:        clamp(defaultIfZero(e.Mix, 1.0), 0, 1),
		lineL:      delay.New(0.01, sampleRate),
		lineR:      delay.New(0.01, sampleRate),
		wowLFO:     newModLFO(osc.Sine, 0.4, 0, sampleRate),
		flutterLFO: newModLFO(osc.Sine, 6.0, 0, sampleRate),
		hiss:       stream,
		curves:     curves,
	}
}

func (t *tapeSaturation) Process(left, right []float64) {
	for i := range left {
		drive := math.Max(0.1, t.drive+t.curves.driveAt(i))

		t.lineL.Write(left[i])
		t.lineR.Write(right[i])

		// Wow around 0.4 Hz, flutter around 6 Hz, both riding a 3 ms base
		// delay so the modulation never asks for negative time.
		ms := 3.0 + 2.0*t.wow*t.wowLFO.next() + 0.5*t.flutter*t.flutterLFO.next()
		samples := ms * t.sampleRate / 1000.0
		sL := t.lineL.Read(samples)
		sR := t.lineR.Read(samples)

		sL = math.Tanh(sL*drive) / math.Tanh(drive)
		sR = math.Tanh(sR*drive) / math.Tanh(drive)

		if t.hissLevel > 0 {
			sL += t.hiss.Bipolar() * t.hissLevel * 0.005
			sR += t.hiss.Bipolar() * t.hissLevel * 0.005
		}

		left[i] = left[i]*(1.0-t.mix) + sL*t.mix
		right[i] = right[i]*(1.0-t.mix) + sR*t.mix
	}
}
