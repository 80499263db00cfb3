package envelope

import "math"

// DetectorMode selects the level detection mode.
type DetectorMode int

const (
	// ModePeak tracks the absolute sample level.
	ModePeak DetectorMode = iota
	// ModeRMS tracks the root-mean-square level over a short window.
	ModeRMS
)

// Detector is an envelope follower with independent attack and release time
// constants, used by the compressor, limiter, gate, transient shaper and
// auto filter.
type Detector struct {
	sampleRate float64
	mode       DetectorMode

	attack  float64
	release float64

	attackCoef  float64
	releaseCoef float64

	envelope float64

	rmsWindow []float64
	rmsIndex  int
	rmsSum    float64
}

// NewDetector creates a detector with 1 ms attack and 100 ms release.
func NewDetector(sampleRate float64, mode DetectorMode) *Detector {
	d := &Detector{
		sampleRate: sampleRate,
		mode:       mode,
		attack:     0.001,
		release:    0.100,
	}
	if mode == ModeRMS {
		n := int(sampleRate * 0.003)
		if n < 1 {
			n = 1
		}
		d.rmsWindow = make([]float64, n)
	}
	d.updateCoefficients()
	return d
}

// SetTimeConstants sets attack and release together.
func (d *Detector) SetTimeConstants(attack, release float64) {
	d.attack = math.Max(0.0001, attack)
	d.release = math.Max(0.0001, release)
	d.updateCoefficients()
}

func (d *Detector) updateCoefficients() {
	d.attackCoef = 1.0 - math.Exp(-1.0/(d.attack*d.sampleRate))
	d.releaseCoef = 1.0 - math.Exp(-1.0/(d.release*d.sampleRate))
}

// Detect processes one sample and returns the current envelope value.
func (d *Detector) Detect(input float64) float64 {
	var level float64
	switch d.mode {
	case ModeRMS:
		squared := input * input
		old := d.rmsWindow[d.rmsIndex]
		d.rmsWindow[d.rmsIndex] = squared
		d.rmsSum += squared - old
		d.rmsIndex++
		if d.rmsIndex >= len(d.rmsWindow) {
			d.rmsIndex = 0
		}
		mean := d.rmsSum / float64(len(d.rmsWindow))
		if mean < 0 {
			mean = 0
		}
		level = math.Sqrt(mean)
	default:
		level = math.Abs(input)
	}

	if level > d.envelope {
		d.envelope += (level - d.envelope) * d.attackCoef
	} else {
		d.envelope += (level - d.envelope) * d.releaseCoef
	}
	return d.envelope
}

// Envelope returns the current envelope value.
func (d *Detector) Envelope() float64 {
	return d.envelope
}

// Reset clears the follower state.
func (d *Detector) Reset() {
	d.envelope = 0
	d.rmsSum = 0
	d.rmsIndex = 0
	for i := range d.rmsWindow {
		d.rmsWindow[i] = 0
	}
}
