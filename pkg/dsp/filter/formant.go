package filter

// Vowel formant center frequencies in Hz, three formants per vowel.
var vowelFormants = map[string][3]float64{
	"a": {800, 1200, 2500},
	"e": {500, 1900, 2500},
	"i": {300, 2300, 2900},
	"o": {500, 800, 2500},
	"u": {300, 1200, 2500},
}

// Per-formant output gains, falling with formant number.
var formantGains = [3]float64{1.0, 0.63, 0.35}

// VowelFormants returns the three formant frequencies for a vowel name.
// Unknown vowels fall back to "a".
func VowelFormants(vowel string) [3]float64 {
	if f, ok := vowelFormants[vowel]; ok {
		return f
	}
	return vowelFormants["a"]
}

// MorphFormants interpolates formant triples between two vowels.
// t is the morph position in [0,1].
func MorphFormants(from, to string, t float64) [3]float64 {
	if t <= 0 {
		return VowelFormants(from)
	}
	if t >= 1 {
		return VowelFormants(to)
	}
	a := VowelFormants(from)
	b := VowelFormants(to)
	var out [3]float64
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}

// FormantBank is a parallel bank of three resonant bandpass sections tuned
// to a vowel's formant triple. It serves both as a coloring filter and as
// the resonator behind formant synthesis.
type FormantBank struct {
	sampleRate float64
	intensity  float64
	bands      [3]*Biquad
}

// NewFormantBank creates a bank tuned to the given vowel.
func NewFormantBank(sampleRate float64, vowel string, intensity float64) *FormantBank {
	fb := &FormantBank{
		sampleRate: sampleRate,
		intensity:  clampIntensity(intensity),
	}
	for i := range fb.bands {
		fb.bands[i] = NewBiquad()
	}
	fb.SetFormants(VowelFormants(vowel))
	return fb
}

func clampIntensity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetFormants retunes the three bands. Band Q rises with intensity.
func (fb *FormantBank) SetFormants(freqs [3]float64) {
	q := 2.0 + fb.intensity*10.0
	for i, f := range freqs {
		fb.bands[i].SetBandpass(fb.sampleRate, f, q)
	}
}

// Reset clears the band state.
func (fb *FormantBank) Reset() {
	for _, b := range fb.bands {
		b.Reset()
	}
}

// Tick processes one sample through the parallel bank, mixed with the dry
// input by intensity.
func (fb *FormantBank) Tick(input float64) float64 {
	var wet float64
	for i, b := range fb.bands {
		wet += b.Tick(input) * formantGains[i]
	}
	return input*(1.0-fb.intensity) + wet*fb.intensity
}

// Process filters a buffer in place.
func (fb *FormantBank) Process(buffer []float64) {
	for i := range buffer {
		buffer[i] = fb.Tick(buffer[i])
	}
}
