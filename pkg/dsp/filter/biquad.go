// Package filter provides the filter topologies used by layer filtering,
// the master filter and several effects: the RBJ biquad family, a state
// variable filter, a saturated 4-pole ladder, a feedback comb and a formant
// vowel bank. Swept variants recompute coefficients per sample; fixed
// variants compute them once.
package filter

import "math"

// Biquad implements a second-order IIR section, Direct Form I.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// NewBiquad creates a biquad with unity passthrough coefficients.
func NewBiquad() *Biquad {
	return &Biquad{b0: 1.0}
}

// Reset clears the filter state.
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}

// SetCoefficients sets raw coefficients, normalized by a0.
func (b *Biquad) SetCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	inv := 1.0 / a0
	b.b0 = b0 * inv
	b.b1 = b1 * inv
	b.b2 = b2 * inv
	b.a1 = a1 * inv
	b.a2 = a2 * inv
}

// Tick processes one sample.
func (b *Biquad) Tick(x0 float64) float64 {
	y0 := b.b0*x0 + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2 = b.x1
	b.x1 = x0
	b.y2 = b.y1
	b.y1 = y0
	return y0
}

// Process filters a buffer in place.
func (b *Biquad) Process(buffer []float64) {
	for i := range buffer {
		buffer[i] = b.Tick(buffer[i])
	}
}

// clampFrequency keeps a design frequency inside (0, Nyquist).
func clampFrequency(sampleRate, frequency float64) float64 {
	nyquist := sampleRate * 0.499
	if frequency < 1.0 {
		return 1.0
	}
	if frequency > nyquist {
		return nyquist
	}
	return frequency
}

func clampQ(q float64) float64 {
	if q < 0.1 {
		return 0.1
	}
	if q > 20.0 {
		return 20.0
	}
	return q
}

// SetLowpass configures an RBJ lowpass.
func (b *Biquad) SetLowpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	alpha := sinW / (2.0 * clampQ(q))

	b.SetCoefficients(
		(1.0-cosW)/2.0, 1.0-cosW, (1.0-cosW)/2.0,
		1.0+alpha, -2.0*cosW, 1.0-alpha)
}

// SetHighpass configures an RBJ highpass.
func (b *Biquad) SetHighpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	alpha := sinW / (2.0 * clampQ(q))

	b.SetCoefficients(
		(1.0+cosW)/2.0, -(1.0 + cosW), (1.0+cosW)/2.0,
		1.0+alpha, -2.0*cosW, 1.0-alpha)
}

// SetBandpass configures an RBJ bandpass (constant skirt gain).
func (b *Biquad) SetBandpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	alpha := sinW / (2.0 * clampQ(q))

	b.SetCoefficients(
		alpha, 0.0, -alpha,
		1.0+alpha, -2.0*cosW, 1.0-alpha)
}

// SetNotch configures an RBJ notch.
func (b *Biquad) SetNotch(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	alpha := sinW / (2.0 * clampQ(q))

	b.SetCoefficients(
		1.0, -2.0*cosW, 1.0,
		1.0+alpha, -2.0*cosW, 1.0-alpha)
}

// SetAllpass configures an RBJ allpass.
func (b *Biquad) SetAllpass(sampleRate, frequency, q float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	alpha := sinW / (2.0 * clampQ(q))

	b.SetCoefficients(
		1.0-alpha, -2.0*cosW, 1.0+alpha,
		1.0+alpha, -2.0*cosW, 1.0-alpha)
}

// SetPeakingEQ configures an RBJ peaking band.
func (b *Biquad) SetPeakingEQ(sampleRate, frequency, q, gainDB float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	A := math.Pow(10.0, gainDB/40.0)
	alpha := sinW / (2.0 * clampQ(q))

	b.SetCoefficients(
		1.0+alpha*A, -2.0*cosW, 1.0-alpha*A,
		1.0+alpha/A, -2.0*cosW, 1.0-alpha/A)
}

// shelfAlpha is the RBJ shelf slope term for S=1.
func shelfAlpha(sinW, a float64) float64 {
	return sinW / 2.0 * math.Sqrt((a+1.0/a)+2.0)
}

// SetLowShelf configures an RBJ low shelf with slope 1.
func (b *Biquad) SetLowShelf(sampleRate, frequency, gainDB float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	A := math.Pow(10.0, gainDB/40.0)
	sqrtAAlpha := 2.0 * math.Sqrt(A) * shelfAlpha(sinW, A)

	b.SetCoefficients(
		A*((A+1)-(A-1)*cosW+sqrtAAlpha),
		2.0*A*((A-1)-(A+1)*cosW),
		A*((A+1)-(A-1)*cosW-sqrtAAlpha),
		(A+1)+(A-1)*cosW+sqrtAAlpha,
		-2.0*((A-1)+(A+1)*cosW),
		(A+1)+(A-1)*cosW-sqrtAAlpha)
}

// SetHighShelf configures an RBJ high shelf with slope 1.
func (b *Biquad) SetHighShelf(sampleRate, frequency, gainDB float64) {
	omega := 2.0 * math.Pi * clampFrequency(sampleRate, frequency) / sampleRate
	sinW, cosW := math.Sincos(omega)
	A := math.Pow(10.0, gainDB/40.0)
	sqrtAAlpha := 2.0 * math.Sqrt(A) * shelfAlpha(sinW, A)

	b.SetCoefficients(
		A*((A+1)+(A-1)*cosW+sqrtAAlpha),
		-2.0*A*((A-1)+(A+1)*cosW),
		A*((A+1)+(A-1)*cosW-sqrtAAlpha),
		(A+1)-(A-1)*cosW+sqrtAAlpha,
		2.0*((A-1)-(A+1)*cosW),
		(A+1)-(A-1)*cosW-sqrtAAlpha)
}
